package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/czttgd/breakinfo/internal/diaglog"
	"github.com/czttgd/breakinfo/internal/identifier"
	inspectiondomain "github.com/czttgd/breakinfo/internal/inspection/domain"
	sequencedomain "github.com/czttgd/breakinfo/internal/sequence/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, Fail(message))
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// bindError converts a gin binding failure into field-level errors.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newValidationError("request", "invalid_request", err.Error())
	}
	out := &ValidationErrors{}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: fmt.Sprintf("failed on %s", fe.Tag()),
		})
	}
	return out
}

func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal_error"
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, vErr.Error()
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, ErrNotFound),
		errors.Is(err, inspectiondomain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, inspectiondomain.ErrDuplicateID):
		return http.StatusConflict, inspectiondomain.ErrDuplicateID.Error()
	case errors.Is(err, diaglog.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, diaglog.ErrTooLarge.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, identifier.ErrFormat):
		return http.StatusInternalServerError, identifier.ErrFormat.Error()
	case errors.Is(err, inspectiondomain.ErrStorage),
		errors.Is(err, sequencedomain.ErrStorage):
		return http.StatusInternalServerError, "storage_failure"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, diaglog.ErrEmpty),
		errors.Is(err, inspectiondomain.ErrInvalidID),
		errors.Is(err, inspectiondomain.ErrInvalidStage),
		errors.Is(err, inspectiondomain.ErrInvalidCreator),
		errors.Is(err, inspectiondomain.ErrInvalidDeviceCode),
		errors.Is(err, inspectiondomain.ErrInvalidCreationTime),
		errors.Is(err, inspectiondomain.ErrInvalidBreakSpec),
		errors.Is(err, inspectiondomain.ErrInvalidBreakCause),
		errors.Is(err, inspectiondomain.ErrInvalidInspectionFlag),
		errors.Is(err, inspectiondomain.ErrInvalidFinalInspection),
		errors.Is(err, inspectiondomain.ErrConflictingBreakpoints),
		errors.Is(err, inspectiondomain.ErrInvalidPagination):
		return true
	default:
		return false
	}
}

// rootMessage returns the innermost wrapped error text, which for domain
// errors is the sentinel code.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// classifyErrorForLog labels request errors in access logs.
func classifyErrorForLog(err error) string {
	status, _ := mapError(err)
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status < http.StatusInternalServerError:
		return "validation"
	case errors.Is(err, inspectiondomain.ErrStorage), errors.Is(err, sequencedomain.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}
