package repository

import (
	"context"
	"errors"

	"github.com/czttgd/breakinfo/internal/sequence/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LockCurrent(ctx context.Context, db *gorm.DB) (int, error) {
	var counter domain.Counter
	err := db.WithContext(ctx).
		Model(&domain.Counter{}).
		Select("num").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrCounterMissing
	}
	if err != nil {
		return 0, err
	}
	return counter.Num, nil
}

func (r *repo) Store(ctx context.Context, db *gorm.DB, next int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tt_inspection_counter SET num = ?`,
		next,
	).Error
}
