package hydrate

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow is the parent of every row access failure.
	ErrMalformedRow = errors.New("malformed_row")

	ErrColumnMissing = fmt.Errorf("%w: column missing", ErrMalformedRow)
	ErrNullValue     = fmt.Errorf("%w: unexpected null", ErrMalformedRow)
	ErrTypeMismatch  = fmt.Errorf("%w: type mismatch", ErrMalformedRow)
)
