package pagination

import (
	"errors"
	"fmt"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var ErrOutOfRange = errors.New("page out of range")

// Page is an offset window over an ordered result set.
type Page struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Normalize applies the default limit when unset. Negative values and
// limits above max are rejected rather than clamped, so a short page
// always means the end of the results.
func (p Page) Normalize(max int) (Page, error) {
	if max <= 0 {
		max = MaxLimit
	}
	switch {
	case p.Limit < 0:
		return p, fmt.Errorf("%w: limit %d", ErrOutOfRange, p.Limit)
	case p.Limit > max:
		return p, fmt.Errorf("%w: limit %d exceeds %d", ErrOutOfRange, p.Limit, max)
	case p.Offset < 0:
		return p, fmt.Errorf("%w: offset %d", ErrOutOfRange, p.Offset)
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p, nil
}
