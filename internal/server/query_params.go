package server

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func parseOptionalInt32(value *string) (*int32, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil {
		return nil, err
	}
	v := int32(parsed)
	return &v, nil
}

func parseOptionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseInt32(value string) (int32, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(parsed), nil
}

func parseID(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, newValidationError("id", "invalid_id", "id must be a positive integer")
	}
	return parsed, nil
}

// parseFlag accepts 1/0 as well as true/false.
func parseFlag(value string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(value))
}
