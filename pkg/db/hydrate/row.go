// Package hydrate turns raw joined result rows into typed entities,
// resolving optional relations only when their discriminator column is
// not NULL.
package hydrate

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// Row is one materialized result row addressed by column name. Values
// keep whatever representation the driver produced; the typed accessors
// convert between them.
type Row struct {
	index  map[string]int
	values []any
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}
	return Row{index: index, values: values}
}

// Scan materializes the current row of rows.
func Scan(rows *sql.Rows) (Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return Row{}, err
	}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return Row{}, err
	}
	return NewRow(columns, values), nil
}

// Each scans every row and hands it to fn, stopping at the first error
// or when ctx is done. rows is always closed.
func Each(ctx context.Context, rows *sql.Rows, fn func(Row) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := Scan(rows)
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Has reports whether the row carries column.
func (r Row) Has(column string) bool {
	_, ok := r.index[column]
	return ok
}

func (r Row) value(column string) (any, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnMissing, column)
	}
	return r.values[i], nil
}

// IsNull reports whether column holds SQL NULL.
func (r Row) IsNull(column string) (bool, error) {
	v, err := r.value(column)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (r Row) required(column string) (any, error) {
	v, err := r.value(column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNullValue, column)
	}
	return v, nil
}

func (r Row) Int64(column string) (int64, error) {
	v, err := r.required(column)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, column, v)
	}
	return n, nil
}

func (r Row) NullInt64(column string) (*int64, error) {
	if null, err := r.IsNull(column); err != nil || null {
		return nil, err
	}
	n, err := r.Int64(column)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r Row) Int32(column string) (int32, error) {
	n, err := r.Int64(column)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s overflows int32", ErrTypeMismatch, column)
	}
	return int32(n), nil
}

func (r Row) NullInt32(column string) (*int32, error) {
	if null, err := r.IsNull(column); err != nil || null {
		return nil, err
	}
	n, err := r.Int32(column)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r Row) String(column string) (string, error) {
	v, err := r.required(column)
	if err != nil {
		return "", err
	}
	s, ok := toString(v)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrTypeMismatch, column, v)
	}
	return s, nil
}

func (r Row) NullString(column string) (*string, error) {
	if null, err := r.IsNull(column); err != nil || null {
		return nil, err
	}
	s, err := r.String(column)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r Row) Decimal(column string) (decimal.Decimal, error) {
	v, err := r.required(column)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, ok := toDecimal(v)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, column, v)
	}
	return d, nil
}

func (r Row) NullDecimal(column string) (*decimal.Decimal, error) {
	if null, err := r.IsNull(column); err != nil || null {
		return nil, err
	}
	d, err := r.Decimal(column)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case int16:
		return int64(t), true
	case int8:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint8:
		return int64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Time:
		return t.Format(timeLayout), true
	default:
		return "", false
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case []byte:
		d, err := decimal.NewFromString(string(t))
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	default:
		n, ok := toInt64(v)
		if !ok {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromInt(n), true
	}
}
