package domain

import (
	lookupdomain "github.com/czttgd/breakinfo/internal/lookup/domain"
	"github.com/shopspring/decimal"
)

// InspectionForm carries the fields an operator fills in at initial
// inspection. They are written by both create and update.
type InspectionForm struct {
	Creator        int32
	DeviceCode     int32
	DeviceCategory string
	CreationTime   string
	ProductSpec    *string
	WireSpeed      *int32
	WireNumber     *int32
	BreakSpec      string
	WireBatchCode  *string
	StickBatchCode *string
	Warehouse      *string
	// BreakFlag is true for a break inside the pool, located by
	// BreakpointB. Outside breaks are located by BreakpointA.
	BreakFlag   bool
	BreakpointA *int32
	BreakpointB *decimal.Decimal
	Comments    *string
	BreakCauseA int32
}

// FinalInspection is the group set when a record is promoted to stage 1.
// Its three references are either all nil or all set.
type FinalInspection struct {
	BreakCauseB    *int32
	InspectionFlag int32
	Inspector      *int32
	InspectionTime *string
}

const (
	InspectionFlagInitial int32 = 0
	InspectionFlagFinal   int32 = 1
)

// InspectionDetail is a full record with every relation resolved.
type InspectionDetail struct {
	ID             int64                    `json:"id"`
	Creator        lookupdomain.User        `json:"creator"`
	DeviceCode     int32                    `json:"device_code"`
	DeviceCategory string                   `json:"device_category"`
	CreationTime   string                   `json:"creation_time"`
	ProductSpec    *string                  `json:"product_spec"`
	WireSpeed      *int32                   `json:"wire_speed"`
	WireNumber     *int32                   `json:"wire_number"`
	BreakSpec      string                   `json:"break_spec"`
	WireBatchCode  *string                  `json:"wire_batch_code"`
	StickBatchCode *string                  `json:"stick_batch_code"`
	Warehouse      *string                  `json:"warehouse"`
	BreakFlag      bool                     `json:"break_flag"`
	BreakpointA    *lookupdomain.Breakpoint `json:"breakpoint_a"`
	BreakpointB    *decimal.Decimal         `json:"breakpoint_b"`
	Comments       *string                  `json:"comments"`
	BreakCauseA    *lookupdomain.BreakCause `json:"break_cause_a"`
	BreakCauseB    *lookupdomain.BreakCause `json:"break_cause_b"`
	InspectionFlag int32                    `json:"inspection_flag"`
	Inspector      *lookupdomain.User       `json:"inspector"`
	InspectionTime *string                  `json:"inspection_time"`
}

// InspectionSummary is one search result row.
type InspectionSummary struct {
	ID             int64                    `json:"id"`
	Creator        lookupdomain.User        `json:"creator"`
	DeviceCode     int32                    `json:"device_code"`
	CreationTime   string                   `json:"creation_time"`
	ProductSpec    *string                  `json:"product_spec"`
	BreakSpec      string                   `json:"break_spec"`
	BreakCauseA    *lookupdomain.BreakCause `json:"break_cause_a"`
	BreakCauseB    *lookupdomain.BreakCause `json:"break_cause_b"`
	InspectionFlag int32                    `json:"inspection_flag"`
}

type SearchFilter struct {
	Stage  int32
	Filter string
	Limit  int
	Offset int
}
