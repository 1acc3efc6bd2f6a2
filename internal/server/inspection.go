package server

import (
	"fmt"
	"strconv"

	"github.com/czttgd/breakinfo/internal/inspection/domain"
	"github.com/czttgd/breakinfo/internal/inspection/export"
	"github.com/czttgd/breakinfo/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type inspectionFormRequest struct {
	Creator        int32   `form:"creator" binding:"required"`
	DeviceCode     int32   `form:"device_code" binding:"required"`
	DeviceCategory string  `form:"device_category"`
	CreationTime   string  `form:"creation_time" binding:"required"`
	ProductSpec    *string `form:"product_spec"`
	WireSpeed      *string `form:"wire_speed"`
	WireNumber     *string `form:"wire_number"`
	BreakSpec      string  `form:"break_spec" binding:"required"`
	WireBatchCode  *string `form:"wire_batch_code"`
	StickBatchCode *string `form:"stick_batch_code"`
	Warehouse      *string `form:"warehouse"`
	BreakFlag      string  `form:"break_flag" binding:"required"`
	BreakpointA    *string `form:"breakpoint_a"`
	BreakpointB    *string `form:"breakpoint_b"`
	Comments       *string `form:"comments"`
	BreakCauseA    int32   `form:"break_cause_a" binding:"required"`
}

type inspectionUpdateRequest struct {
	inspectionFormRequest
	BreakCauseB    *string `form:"break_cause_b"`
	InspectionFlag *string `form:"inspection_flag"`
	Inspector      *string `form:"inspector"`
	InspectionTime *string `form:"inspection_time"`
}

func (r inspectionFormRequest) toForm() (domain.InspectionForm, error) {
	form := domain.InspectionForm{
		Creator:        r.Creator,
		DeviceCode:     r.DeviceCode,
		DeviceCategory: r.DeviceCategory,
		CreationTime:   r.CreationTime,
		ProductSpec:    r.ProductSpec,
		BreakSpec:      r.BreakSpec,
		WireBatchCode:  r.WireBatchCode,
		StickBatchCode: r.StickBatchCode,
		Warehouse:      r.Warehouse,
		Comments:       r.Comments,
		BreakCauseA:    r.BreakCauseA,
	}

	var err error
	if form.BreakFlag, err = parseFlag(r.BreakFlag); err != nil {
		return form, newValidationError("break_flag", "invalid_break_flag", "break_flag must be 1 or 0")
	}
	if form.WireSpeed, err = parseOptionalInt32(r.WireSpeed); err != nil {
		return form, newValidationError("wire_speed", "invalid_number", "wire_speed must be an integer")
	}
	if form.WireNumber, err = parseOptionalInt32(r.WireNumber); err != nil {
		return form, newValidationError("wire_number", "invalid_number", "wire_number must be an integer")
	}
	if form.BreakpointA, err = parseOptionalInt32(r.BreakpointA); err != nil {
		return form, newValidationError("breakpoint_a", "invalid_number", "breakpoint_a must be an integer")
	}
	if form.BreakpointB, err = parseOptionalDecimal(r.BreakpointB); err != nil {
		return form, newValidationError("breakpoint_b", "invalid_decimal", "breakpoint_b must be a decimal")
	}
	return form, nil
}

func (r inspectionUpdateRequest) toFinal() (domain.FinalInspection, error) {
	final := domain.FinalInspection{InspectionTime: r.InspectionTime}
	// an empty form field means the final group was not filled in
	if final.InspectionTime != nil && *final.InspectionTime == "" {
		final.InspectionTime = nil
	}

	var err error
	if final.BreakCauseB, err = parseOptionalInt32(r.BreakCauseB); err != nil {
		return final, newValidationError("break_cause_b", "invalid_number", "break_cause_b must be an integer")
	}
	if final.Inspector, err = parseOptionalInt32(r.Inspector); err != nil {
		return final, newValidationError("inspector", "invalid_number", "inspector must be an integer")
	}
	flag, err := parseOptionalInt32(r.InspectionFlag)
	if err != nil {
		return final, newValidationError("inspection_flag", "invalid_number", "inspection_flag must be an integer")
	}
	if flag != nil {
		final.InspectionFlag = *flag
	}
	return final, nil
}

type searchQuery struct {
	Stage  *int32 `form:"stage" binding:"required"`
	Filter string `form:"filter"`
	pagination.Page
}

type exportQuery struct {
	Stage  *int32 `form:"stage" binding:"required"`
	Filter string `form:"filter"`
}

func (s *Server) CreateInspection(c *gin.Context) {
	var req inspectionFormRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	form, err := req.toForm()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	id, err := s.inspectionSvc.Create(c.Request.Context(), domain.CreateRequest{Form: form})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, id)
}

func (s *Server) UpdateInspection(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req inspectionUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	form, err := req.toForm()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	final, err := req.toFinal()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.inspectionSvc.Update(c.Request.Context(), domain.UpdateRequest{
		ID:    id,
		Form:  form,
		Final: final,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK[any](c, nil)
}

func (s *Server) GetInspection(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.inspectionSvc.GetDetail(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, detail)
}

func (s *Server) SearchInspections(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	items, err := s.inspectionSvc.Search(c.Request.Context(), domain.SearchRequest{
		Stage:  *q.Stage,
		Filter: q.Filter,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, items)
}

func (s *Server) CountInspections(c *gin.Context) {
	count, err := s.inspectionSvc.Count(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, count)
}

func (s *Server) ExportInspections(c *gin.Context) {
	var q exportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	items, err := s.inspectionSvc.Export(c.Request.Context(), domain.ExportRequest{
		Stage:  *q.Stage,
		Filter: q.Filter,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(*q.Stage)))
	c.Header("X-Total-Count", strconv.Itoa(len(items)))
	if err := export.WriteXLSX(c.Writer, items); err != nil {
		s.log.Error("write inspection export failed", zap.Error(err))
		_ = c.Error(err)
	}
}
