package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Form InspectionForm
}

type UpdateRequest struct {
	ID    int64
	Form  InspectionForm
	Final FinalInspection
}

type SearchRequest struct {
	Stage  int32
	Filter string
	Limit  int
	Offset int
}

type ExportRequest struct {
	Stage  int32
	Filter string
}

// IDGenerator mints record identifiers.
type IDGenerator interface {
	Generate(ctx context.Context) (int64, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (int64, error)
	Update(ctx context.Context, req UpdateRequest) error
	GetDetail(ctx context.Context, id int64) (InspectionDetail, error)
	Search(ctx context.Context, req SearchRequest) ([]InspectionSummary, error)
	Count(ctx context.Context) (int64, error)
	// Export runs a search capped at ExportLimit rows for spreadsheet
	// download.
	Export(ctx context.Context, req ExportRequest) ([]InspectionSummary, error)
}

const ExportLimit = 10000

var (
	ErrStorage                = errors.New("storage_failure")
	ErrNotFound               = errors.New("not_found")
	ErrDuplicateID            = errors.New("duplicate_id")
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidStage           = errors.New("invalid_stage")
	ErrInvalidCreator         = errors.New("invalid_creator")
	ErrInvalidDeviceCode      = errors.New("invalid_device_code")
	ErrInvalidCreationTime    = errors.New("invalid_creation_time")
	ErrInvalidBreakSpec       = errors.New("invalid_break_spec")
	ErrInvalidBreakCause      = errors.New("invalid_break_cause")
	ErrInvalidInspectionFlag  = errors.New("invalid_inspection_flag")
	ErrInvalidFinalInspection = errors.New("invalid_final_inspection")
	ErrConflictingBreakpoints = errors.New("conflicting_breakpoints")
	ErrInvalidPagination      = errors.New("invalid_pagination")
)
