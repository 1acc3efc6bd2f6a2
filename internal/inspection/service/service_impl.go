package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/czttgd/breakinfo/internal/inspection/domain"
	"github.com/czttgd/breakinfo/internal/observability/metrics"
	dbpkg "github.com/czttgd/breakinfo/pkg/db"
	"github.com/czttgd/breakinfo/pkg/db/hydrate"
	"github.com/czttgd/breakinfo/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	IDGen   domain.IDGenerator
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	idGen   domain.IDGenerator
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("inspection.service"),
		repo:    p.Repo,
		idGen:   p.IDGen,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (int64, error) {
	form := req.Form
	if err := validateForm(form); err != nil {
		return 0, err
	}

	id, err := s.idGen.Generate(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Insert(ctx, s.db, id, form); err != nil {
		s.log.Error("insert inspection failed", zap.Int64("id", id), zap.Error(err))
		if dbpkg.IsDuplicateKey(err) {
			// The counter wrapped inside one second.
			return 0, fmt.Errorf("%w: %w", domain.ErrDuplicateID, storageError(err))
		}
		return 0, storageError(err)
	}

	s.metrics.RecordInspectionWrite("create")
	s.log.Info("inspection created",
		zap.Int64("id", id),
		zap.Int32("device_code", form.DeviceCode),
		zap.Int32("creator", form.Creator),
	)
	return id, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) error {
	if req.ID <= 0 {
		return domain.ErrInvalidID
	}
	if err := validateForm(req.Form); err != nil {
		return err
	}
	if err := validateFinal(req.Final); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, s.db, req.ID, req.Form, req.Final); err != nil {
		s.log.Error("update inspection failed", zap.Int64("id", req.ID), zap.Error(err))
		return storageError(err)
	}

	s.metrics.RecordInspectionWrite("update")
	return nil
}

func (s *Service) GetDetail(ctx context.Context, id int64) (domain.InspectionDetail, error) {
	if id <= 0 {
		return domain.InspectionDetail{}, domain.ErrInvalidID
	}

	detail, err := s.repo.FindDetail(ctx, s.db, id)
	if err != nil {
		s.recordHydrationFailure("detail", err)
		return domain.InspectionDetail{}, storageError(err)
	}
	if detail == nil {
		return domain.InspectionDetail{}, domain.ErrNotFound
	}
	return *detail, nil
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.InspectionSummary, error) {
	page, err := pagination.Page{Limit: req.Limit, Offset: req.Offset}.Normalize(pagination.MaxLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPagination, err)
	}
	return s.search(ctx, "search", domain.SearchFilter{
		Stage:  req.Stage,
		Filter: req.Filter,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func (s *Service) Export(ctx context.Context, req domain.ExportRequest) ([]domain.InspectionSummary, error) {
	return s.search(ctx, "export", domain.SearchFilter{
		Stage:  req.Stage,
		Filter: req.Filter,
		Limit:  domain.ExportLimit,
	})
}

func (s *Service) search(ctx context.Context, query string, filter domain.SearchFilter) ([]domain.InspectionSummary, error) {
	if filter.Stage < 0 {
		return nil, domain.ErrInvalidStage
	}

	items, err := s.repo.Search(ctx, s.db, filter)
	if err != nil {
		s.recordHydrationFailure(query, err)
		s.log.Warn("inspection search failed",
			zap.String("query", query),
			zap.Int32("stage", filter.Stage),
			zap.Error(err),
		)
		return nil, storageError(err)
	}

	s.metrics.RecordSearch(len(items))
	return items, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

func (s *Service) recordHydrationFailure(query string, err error) {
	if errors.Is(err, hydrate.ErrMalformedRow) {
		s.metrics.RecordHydrationFailure(query)
	}
}

// storageError classifies a repository failure. Cancellation keeps its
// identity so callers can tell it apart from a broken database.
func storageError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
