package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/czttgd/breakinfo/internal/config"
	"github.com/czttgd/breakinfo/internal/diaglog"
	"github.com/czttgd/breakinfo/internal/inspection/domain"
	"github.com/czttgd/breakinfo/internal/inspection/export"
	lookupdomain "github.com/czttgd/breakinfo/internal/lookup/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeInspectionService struct {
	created   []domain.CreateRequest
	updated   []domain.UpdateRequest
	searched  []domain.SearchRequest
	exported  []domain.ExportRequest
	detail    domain.InspectionDetail
	summaries []domain.InspectionSummary
	count     int64
	err       error
}

func (f *fakeInspectionService) Create(ctx context.Context, req domain.CreateRequest) (int64, error) {
	f.created = append(f.created, req)
	if f.err != nil {
		return 0, f.err
	}
	return 1735600000001, nil
}

func (f *fakeInspectionService) Update(ctx context.Context, req domain.UpdateRequest) error {
	f.updated = append(f.updated, req)
	return f.err
}

func (f *fakeInspectionService) GetDetail(ctx context.Context, id int64) (domain.InspectionDetail, error) {
	if f.err != nil {
		return domain.InspectionDetail{}, f.err
	}
	d := f.detail
	d.ID = id
	return d, nil
}

func (f *fakeInspectionService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.InspectionSummary, error) {
	f.searched = append(f.searched, req)
	return f.summaries, f.err
}

func (f *fakeInspectionService) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

func (f *fakeInspectionService) Export(ctx context.Context, req domain.ExportRequest) ([]domain.InspectionSummary, error) {
	f.exported = append(f.exported, req)
	return f.summaries, f.err
}

type fakeLookupRepo struct {
	stages []int32
	err    error
}

func (f *fakeLookupRepo) ListUsers(ctx context.Context) ([]lookupdomain.User, error) {
	return []lookupdomain.User{{ID: 1, Name: "张三"}}, f.err
}

func (f *fakeLookupRepo) ListBreakCauses(ctx context.Context) ([]lookupdomain.BreakCause, error) {
	return []lookupdomain.BreakCause{{ID: 1, Type: "机械", Name: "导轮磨损"}}, f.err
}

func (f *fakeLookupRepo) ListBreakpoints(ctx context.Context) ([]lookupdomain.Breakpoint, error) {
	return []lookupdomain.Breakpoint{{ID: 3, Name: "收线"}}, f.err
}

func (f *fakeLookupRepo) ListMachines(ctx context.Context, stage int32) ([]int32, error) {
	f.stages = append(f.stages, stage)
	return []int32{101, 102}, f.err
}

func (f *fakeLookupRepo) ListDevices(ctx context.Context, stage int32) ([]int32, error) {
	f.stages = append(f.stages, stage)
	return []int32{}, f.err
}

type fakeLogStore struct {
	max  int64
	body []byte
	err  error
}

func (f *fakeLogStore) Save(ctx context.Context, r io.Reader) (diaglog.Saved, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return diaglog.Saved{}, err
	}
	f.body = b
	if f.err != nil {
		return diaglog.Saved{}, f.err
	}
	return diaglog.Saved{ID: snowflake.ID(42), Size: int64(len(b))}, nil
}

func (f *fakeLogStore) MaxBytes() int64 { return f.max }

type testServer struct {
	*Server
	inspections *fakeInspectionService
	lookups     *fakeLookupRepo
	logs        *fakeLogStore
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	ts := testServer{
		inspections: &fakeInspectionService{},
		lookups:     &fakeLookupRepo{},
		logs:        &fakeLogStore{max: 1 << 10},
	}
	ts.Server = &Server{
		engine:        engine,
		cfg:           config.Config{},
		log:           zap.NewNop(),
		inspectionSvc: ts.inspections,
		lookupRepo:    ts.lookups,
		logStore:      ts.logs,
	}
	ts.registerRoutes()
	return ts
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Code    int             `json:"code"`
	Message *string         `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func putForm(path string, values url.Values) *http.Request {
	req := postForm(path, values)
	req.Method = http.MethodPut
	return req
}

func baseForm() url.Values {
	return url.Values{
		"creator":          {"1"},
		"device_code":      {"101"},
		"device_category":  {"拉丝机"},
		"creation_time":    {"2024-03-01 08:00:00"},
		"break_spec":       {"0.12"},
		"break_flag":       {"1"},
		"breakpoint_a":     {"3"},
		"breakpoint_b":     {""},
		"wire_speed":       {" 25 "},
		"wire_number":      {""},
		"break_cause_a":    {"2"},
		"wire_batch_code":  {"W-01"},
		"stick_batch_code": {""},
	}
}

func TestPingEchoesText(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/ping?text=hello", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, CodeOK, env.Code)
	assert.Nil(t, env.Message)
	assert.JSONEq(t, `{"text":"hello"}`, string(env.Data))
}

func TestCreateInspectionBindsForm(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(postForm("/inspection", baseForm()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "1735600000001", string(env.Data))

	require.Len(t, ts.inspections.created, 1)
	form := ts.inspections.created[0].Form
	assert.EqualValues(t, 1, form.Creator)
	assert.EqualValues(t, 101, form.DeviceCode)
	assert.True(t, form.BreakFlag)
	require.NotNil(t, form.BreakpointA)
	assert.EqualValues(t, 3, *form.BreakpointA)
	assert.Nil(t, form.BreakpointB)
	require.NotNil(t, form.WireSpeed)
	assert.EqualValues(t, 25, *form.WireSpeed)
	assert.Nil(t, form.WireNumber)
	assert.EqualValues(t, 2, form.BreakCauseA)
}

func TestCreateInspectionRejectsMissingRequired(t *testing.T) {
	ts := newTestServer(t)
	values := baseForm()
	values.Del("break_cause_a")

	rec := ts.do(postForm("/inspection", values))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, CodeError, env.Code)
	require.NotNil(t, env.Message)
	assert.Contains(t, *env.Message, "BreakCauseA")
	assert.Empty(t, ts.inspections.created)
}

func TestCreateInspectionRejectsBadNumbers(t *testing.T) {
	ts := newTestServer(t)

	values := baseForm()
	values.Set("breakpoint_b", "twelve")
	rec := ts.do(postForm("/inspection", values))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, *decodeEnvelope(t, rec).Message, "breakpoint_b")

	values = baseForm()
	values.Set("break_flag", "maybe")
	rec = ts.do(postForm("/inspection", values))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.inspections.created)
}

func TestCreateInspectionMapsDomainErrors(t *testing.T) {
	ts := newTestServer(t)

	ts.inspections.err = domain.ErrConflictingBreakpoints
	rec := ts.do(postForm("/inspection", baseForm()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "conflicting_breakpoints", *env.Message)
	assert.Equal(t, "null", string(env.Data))

	ts.inspections.err = errors.Join(domain.ErrStorage, errors.New("connection refused"))
	rec = ts.do(postForm("/inspection", baseForm()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "storage_failure", *decodeEnvelope(t, rec).Message)

	ts.inspections.err = fmt.Errorf("%w: %w", domain.ErrDuplicateID, domain.ErrStorage)
	rec = ts.do(postForm("/inspection", baseForm()))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_id", *decodeEnvelope(t, rec).Message)

	ts.inspections.err = context.DeadlineExceeded
	rec = ts.do(postForm("/inspection", baseForm()))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestUpdateInspectionBindsFinalGroup(t *testing.T) {
	ts := newTestServer(t)
	values := baseForm()
	values.Set("break_flag", "0")
	values.Del("breakpoint_a")
	values.Set("breakpoint_b", "12.5")
	values.Set("break_cause_b", "4")
	values.Set("inspection_flag", "1")
	values.Set("inspector", "2")
	values.Set("inspection_time", "2024-03-02 09:00:00")

	rec := ts.do(putForm("/inspection/1735600000001", values))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "null", string(decodeEnvelope(t, rec).Data))

	require.Len(t, ts.inspections.updated, 1)
	req := ts.inspections.updated[0]
	assert.EqualValues(t, 1735600000001, req.ID)
	assert.False(t, req.Form.BreakFlag)
	require.NotNil(t, req.Form.BreakpointB)
	assert.True(t, req.Form.BreakpointB.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, domain.InspectionFlagFinal, req.Final.InspectionFlag)
	require.NotNil(t, req.Final.BreakCauseB)
	assert.EqualValues(t, 4, *req.Final.BreakCauseB)
	require.NotNil(t, req.Final.Inspector)
	assert.EqualValues(t, 2, *req.Final.Inspector)
	require.NotNil(t, req.Final.InspectionTime)
}

func TestUpdateInspectionEmptyFinalFieldsAreAbsent(t *testing.T) {
	ts := newTestServer(t)
	values := baseForm()
	values.Set("comments", " 夜班 ")
	values.Set("break_cause_b", "")
	values.Set("inspection_flag", "0")
	values.Set("inspector", "")
	values.Set("inspection_time", "")

	rec := ts.do(putForm("/inspection/7", values))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, ts.inspections.updated, 1)
	req := ts.inspections.updated[0]
	assert.Nil(t, req.Final.BreakCauseB)
	assert.Nil(t, req.Final.Inspector)
	assert.Nil(t, req.Final.InspectionTime)
	assert.Equal(t, ptrTo(" 夜班 "), req.Form.Comments)
}

func ptrTo(s string) *string { return &s }

func TestUpdateInspectionRejectsBadID(t *testing.T) {
	ts := newTestServer(t)

	for _, id := range []string{"abc", "0", "-5"} {
		rec := ts.do(putForm("/inspection/"+id, baseForm()))
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
	assert.Empty(t, ts.inspections.updated)
}

func TestGetInspection(t *testing.T) {
	ts := newTestServer(t)
	ts.inspections.detail = domain.InspectionDetail{DeviceCode: 101}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/inspection/1735600000001", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var detail domain.InspectionDetail
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &detail))
	assert.EqualValues(t, 1735600000001, detail.ID)
	assert.EqualValues(t, 101, detail.DeviceCode)

	ts.inspections.err = domain.ErrNotFound
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/inspection/5", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", *decodeEnvelope(t, rec).Message)
}

func TestSearchInspectionsBindsQuery(t *testing.T) {
	ts := newTestServer(t)
	ts.inspections.summaries = []domain.InspectionSummary{{ID: 7}}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/inspection/search?stage=2&filter=%E6%9D%8E&limit=10&offset=20", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, ts.inspections.searched, 1)
	assert.Equal(t, domain.SearchRequest{Stage: 2, Filter: "李", Limit: 10, Offset: 20}, ts.inspections.searched[0])

	var items []domain.InspectionSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &items))
	require.Len(t, items, 1)
	assert.EqualValues(t, 7, items[0].ID)
}

func TestSearchInspectionsRequiresStage(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/inspection/search?filter=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.inspections.searched)
}

func TestCountInspections(t *testing.T) {
	ts := newTestServer(t)
	ts.inspections.count = 12

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/inspection/count", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", string(decodeEnvelope(t, rec).Data))
}

func TestExportInspectionsWritesWorkbook(t *testing.T) {
	ts := newTestServer(t)
	ts.inspections.summaries = []domain.InspectionSummary{{ID: 1735600000001, DeviceCode: 101}}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/inspection/export?stage=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), export.Filename(1))
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, []domain.ExportRequest{{Stage: 1}}, ts.inspections.exported)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1735600000001", rows[1][0])
}

func TestLookupRoutes(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/users", "/break/causes", "/break/points"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, CodeOK, decodeEnvelope(t, rec).Code, path)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/break/causes", nil))
	assert.JSONEq(t, `[{"id":1,"type":"机械","cause":"导轮磨损"}]`, string(decodeEnvelope(t, rec).Data))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/stage/2/machines", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[101,102]`, string(decodeEnvelope(t, rec).Data))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/stage/2/devices", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(decodeEnvelope(t, rec).Data))
	assert.Equal(t, []int32{2, 2}, ts.lookups.stages)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/stage/two/machines", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "terminal.log")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/log", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadLogStoresFirstPart(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(multipartRequest(t, []byte("line one\nline two\n")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "line one\nline two\n", string(ts.logs.body))
	assert.JSONEq(t, `{"id":42,"size":18}`, string(decodeEnvelope(t, rec).Data))
}

func TestUploadLogErrors(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/log", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec := ts.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.logs.err = diaglog.ErrEmpty
	rec = ts.do(multipartRequest(t, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_log", *decodeEnvelope(t, rec).Message)

	ts.logs.err = diaglog.ErrTooLarge
	rec = ts.do(multipartRequest(t, []byte("x")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadLogWithRealStore(t *testing.T) {
	ts := newTestServer(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	dir := t.TempDir()
	ts.logStore = diaglog.New(diaglog.Params{
		Cfg:  config.Config{Uploads: config.UploadsConfig{Dir: dir, MaxBytes: 8}},
		Node: node,
		Log:  zap.NewNop(),
	})

	rec := ts.do(multipartRequest(t, []byte("0123456789abcdef")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = ts.do(multipartRequest(t, []byte("ok")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMapErrorUnknownIsInternal(t *testing.T) {
	status, message := mapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", message)
	assert.Equal(t, "internal", classifyErrorForLog(errors.New("boom")))
	assert.Equal(t, "validation", classifyErrorForLog(domain.ErrInvalidStage))
}
