package domain

import (
	"context"
	"errors"
)

// Allocator hands out sequence values in [MinValue, MaxValue], wrapping
// back to MinValue after MaxValue. Concurrent callers never observe the
// same value between two wraps.
type Allocator interface {
	Allocate(ctx context.Context) (int, error)
}

var (
	ErrStorage           = errors.New("storage_failure")
	ErrCounterMissing    = errors.New("counter_missing")
	ErrCounterOutOfRange = errors.New("counter_out_of_range")
)
