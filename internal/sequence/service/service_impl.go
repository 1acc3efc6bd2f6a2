package service

import (
	"context"
	"fmt"

	"github.com/czttgd/breakinfo/internal/observability/metrics"
	"github.com/czttgd/breakinfo/internal/sequence/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Allocator {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("sequence.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// Allocate runs the read-increment-write round trip in one transaction
// with the counter row locked, and returns the value read.
func (s *Service) Allocate(ctx context.Context) (int, error) {
	var prev, next int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockCurrent(ctx, tx)
		if err != nil {
			return err
		}
		if !domain.InRange(current) {
			return fmt.Errorf("%w: %d", domain.ErrCounterOutOfRange, current)
		}
		prev = current
		next = domain.Next(current)
		return s.repo.Store(ctx, tx, next)
	})
	if err != nil {
		s.log.Error("sequence allocation failed", zap.Error(err))
		return 0, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	if next < prev {
		s.log.Info("inspection sequence wrapped",
			zap.Int("previous", prev),
			zap.Int("next", next),
		)
		s.metrics.RecordSequenceWrap()
	}
	return prev, nil
}
