package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// LockCurrent reads the counter and holds a row lock until db's
	// transaction ends.
	LockCurrent(ctx context.Context, db *gorm.DB) (int, error)
	Store(ctx context.Context, db *gorm.DB, next int) error
}
