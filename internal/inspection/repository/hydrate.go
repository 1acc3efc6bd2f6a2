package repository

import (
	"github.com/czttgd/breakinfo/internal/inspection/domain"
	lookupdomain "github.com/czttgd/breakinfo/internal/lookup/domain"
	"github.com/czttgd/breakinfo/pkg/db/hydrate"
)

const (
	prefixCreator     hydrate.Prefix = "creator"
	prefixInspector   hydrate.Prefix = "inspector"
	prefixBreakpointA hydrate.Prefix = "bp_a"
	prefixCauseA      hydrate.Prefix = "br_a"
	prefixCauseB      hydrate.Prefix = "br_b"
)

func resolveUser(row hydrate.Row, p hydrate.Prefix) (lookupdomain.User, error) {
	id, err := row.Int32(p.Col("user_id"))
	if err != nil {
		return lookupdomain.User{}, err
	}
	name, err := row.String(p.Col("user_name"))
	if err != nil {
		return lookupdomain.User{}, err
	}
	return lookupdomain.User{ID: id, Name: name}, nil
}

func resolveBreakCause(row hydrate.Row, p hydrate.Prefix) (lookupdomain.BreakCause, error) {
	id, err := row.Int32(p.Col("cause_id"))
	if err != nil {
		return lookupdomain.BreakCause{}, err
	}
	typ, err := row.String(p.Col("cause_type"))
	if err != nil {
		return lookupdomain.BreakCause{}, err
	}
	name, err := row.String(p.Col("cause_name"))
	if err != nil {
		return lookupdomain.BreakCause{}, err
	}
	return lookupdomain.BreakCause{ID: id, Type: typ, Name: name}, nil
}

func resolveBreakpoint(row hydrate.Row, p hydrate.Prefix) (lookupdomain.Breakpoint, error) {
	id, err := row.Int32(p.Col("breakpoint_id"))
	if err != nil {
		return lookupdomain.Breakpoint{}, err
	}
	name, err := row.String(p.Col("breakpoint_name"))
	if err != nil {
		return lookupdomain.Breakpoint{}, err
	}
	return lookupdomain.Breakpoint{ID: id, Name: name}, nil
}

// causes resolves both break cause slots. Each slot has its own
// discriminator.
func causes(row hydrate.Row) (a, b *lookupdomain.BreakCause, err error) {
	if a, err = hydrate.Optional(row, "break_cause_a", prefixCauseA, resolveBreakCause); err != nil {
		return nil, nil, err
	}
	if b, err = hydrate.Optional(row, "break_cause_b", prefixCauseB, resolveBreakCause); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func hydrateDetail(row hydrate.Row) (domain.InspectionDetail, error) {
	var (
		d   domain.InspectionDetail
		err error
	)
	if d.ID, err = row.Int64("id"); err != nil {
		return d, err
	}
	if d.Creator, err = resolveUser(row, prefixCreator); err != nil {
		return d, err
	}
	if d.DeviceCode, err = row.Int32("device_code"); err != nil {
		return d, err
	}
	if d.DeviceCategory, err = row.String("device_category"); err != nil {
		return d, err
	}
	if d.CreationTime, err = row.String("creation_time"); err != nil {
		return d, err
	}
	if d.ProductSpec, err = row.NullString("product_spec"); err != nil {
		return d, err
	}
	if d.WireSpeed, err = row.NullInt32("wire_speed"); err != nil {
		return d, err
	}
	if d.WireNumber, err = row.NullInt32("wire_number"); err != nil {
		return d, err
	}
	if d.BreakSpec, err = row.String("break_spec"); err != nil {
		return d, err
	}
	if d.WireBatchCode, err = row.NullString("wire_batch_code"); err != nil {
		return d, err
	}
	if d.StickBatchCode, err = row.NullString("stick_batch_code"); err != nil {
		return d, err
	}
	if d.Warehouse, err = row.NullString("warehouse"); err != nil {
		return d, err
	}
	flag, err := row.String("break_flag")
	if err != nil {
		return d, err
	}
	d.BreakFlag = parseBreakFlag(flag)
	if d.BreakpointB, err = row.NullDecimal("breakpoint_b"); err != nil {
		return d, err
	}
	if d.Comments, err = row.NullString("comments"); err != nil {
		return d, err
	}
	if d.InspectionFlag, err = row.Int32("inspection_flag"); err != nil {
		return d, err
	}
	if d.InspectionTime, err = row.NullString("inspection_time"); err != nil {
		return d, err
	}

	if d.BreakpointA, err = hydrate.Optional(row, "breakpoint_a", prefixBreakpointA, resolveBreakpoint); err != nil {
		return d, err
	}
	if d.BreakCauseA, d.BreakCauseB, err = causes(row); err != nil {
		return d, err
	}
	if d.Inspector, err = hydrate.Optional(row, "inspector", prefixInspector, resolveUser); err != nil {
		return d, err
	}
	return d, nil
}

func hydrateSummary(row hydrate.Row) (domain.InspectionSummary, error) {
	var (
		s   domain.InspectionSummary
		err error
	)
	if s.ID, err = row.Int64("id"); err != nil {
		return s, err
	}
	if s.Creator, err = resolveUser(row, prefixCreator); err != nil {
		return s, err
	}
	if s.DeviceCode, err = row.Int32("device_code"); err != nil {
		return s, err
	}
	if s.CreationTime, err = row.String("creation_time"); err != nil {
		return s, err
	}
	if s.ProductSpec, err = row.NullString("product_spec"); err != nil {
		return s, err
	}
	if s.BreakSpec, err = row.String("break_spec"); err != nil {
		return s, err
	}
	if s.InspectionFlag, err = row.Int32("inspection_flag"); err != nil {
		return s, err
	}
	if s.BreakCauseA, s.BreakCauseB, err = causes(row); err != nil {
		return s, err
	}
	return s, nil
}
