package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/czttgd/breakinfo/internal/inspection/domain"
	"github.com/czttgd/breakinfo/pkg/db/hydrate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const insertSQL = `INSERT INTO tt_inspection (
	creator, device_code, creation_time, product_spec, wire_speed, wire_number,
	break_spec, wire_batch_code, stick_batch_code, warehouse, break_flag,
	breakpoint_a, breakpoint_b, comments, device_category, break_cause_a, id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateSQL = `UPDATE tt_inspection SET
	creator = ?, device_code = ?, creation_time = ?, product_spec = ?, wire_speed = ?,
	wire_number = ?, break_spec = ?, wire_batch_code = ?, stick_batch_code = ?,
	warehouse = ?, break_flag = ?, breakpoint_a = ?, breakpoint_b = ?, comments = ?,
	device_category = ?, break_cause_a = ?,
	break_cause_b = ?, inspection_flag = ?, inspector = ?, inspection_time = ?
WHERE id = ?`

const detailSQL = `SELECT
	i.id, i.device_code, i.device_category, i.creation_time, i.product_spec,
	i.wire_speed, i.wire_number, i.break_spec, i.wire_batch_code, i.stick_batch_code,
	i.warehouse, i.break_flag, i.breakpoint_a, i.breakpoint_b, i.comments,
	i.break_cause_a, i.break_cause_b, i.inspection_flag, i.inspector, i.inspection_time,
	uc.id AS creator_user_id, uc.name AS creator_user_name,
	bp_a.id AS bp_a_breakpoint_id, bp_a.name AS bp_a_breakpoint_name,
	br_a.id AS br_a_cause_id, br_a.type AS br_a_cause_type, br_a.cause AS br_a_cause_name,
	br_b.id AS br_b_cause_id, br_b.type AS br_b_cause_type, br_b.cause AS br_b_cause_name,
	ui.id AS inspector_user_id, ui.name AS inspector_user_name
FROM tt_inspection i
JOIN tt_user uc ON uc.id = i.creator
LEFT JOIN tt_breakpoint bp_a ON bp_a.id = i.breakpoint_a
LEFT JOIN tt_break_cause br_a ON br_a.id = i.break_cause_a
LEFT JOIN tt_break_cause br_b ON br_b.id = i.break_cause_b
LEFT JOIN tt_user ui ON ui.id = i.inspector
WHERE i.id = ? AND i.is_deleted = 0`

const countSQL = `SELECT COUNT(*) FROM tt_inspection WHERE is_deleted = 0`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, id int64, form domain.InspectionForm) error {
	args := append(formArgs(form), id)
	return db.WithContext(ctx).Exec(insertSQL, args...).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id int64, form domain.InspectionForm, final domain.FinalInspection) error {
	args := append(formArgs(form),
		final.BreakCauseB,
		final.InspectionFlag,
		final.Inspector,
		final.InspectionTime,
		id,
	)
	return db.WithContext(ctx).Exec(updateSQL, args...).Error
}

// formArgs binds the form in column order shared by insert and update.
func formArgs(form domain.InspectionForm) []any {
	return []any{
		form.Creator,
		form.DeviceCode,
		form.CreationTime,
		form.ProductSpec,
		form.WireSpeed,
		form.WireNumber,
		form.BreakSpec,
		form.WireBatchCode,
		form.StickBatchCode,
		form.Warehouse,
		breakFlagCode(form.BreakFlag),
		form.BreakpointA,
		nullDecimal(form.BreakpointB),
		form.Comments,
		form.DeviceCategory,
		form.BreakCauseA,
	}
}

// The column is CHAR(1).
func breakFlagCode(flag bool) string {
	if flag {
		return "1"
	}
	return "0"
}

func parseBreakFlag(code string) bool {
	return strings.TrimSpace(code) == "1"
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func (r *repo) FindDetail(ctx context.Context, db *gorm.DB, id int64) (*domain.InspectionDetail, error) {
	rows, err := db.WithContext(ctx).Raw(detailSQL, id).Rows()
	if err != nil {
		return nil, err
	}

	var detail *domain.InspectionDetail
	err = hydrate.Each(ctx, rows, func(row hydrate.Row) error {
		if detail != nil {
			return fmt.Errorf("%w: duplicate inspection id %d", hydrate.ErrMalformedRow, id)
		}
		d, err := hydrateDetail(row)
		if err != nil {
			return err
		}
		detail = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Raw(countSQL).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
