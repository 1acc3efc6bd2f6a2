package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, id int64, form InspectionForm) error
	// Update rewrites the record with id. Matching no row is not an error.
	Update(ctx context.Context, db *gorm.DB, id int64, form InspectionForm, final FinalInspection) error
	// FindDetail returns nil when no live record has id.
	FindDetail(ctx context.Context, db *gorm.DB, id int64) (*InspectionDetail, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Search(ctx context.Context, db *gorm.DB, filter SearchFilter) ([]InspectionSummary, error)
}
