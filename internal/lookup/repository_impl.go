package lookup

import (
	"context"

	"github.com/czttgd/breakinfo/internal/lookup/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, name FROM tt_user ORDER BY id`).
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) ListBreakCauses(ctx context.Context) ([]domain.BreakCause, error) {
	causes := []domain.BreakCause{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, type, cause FROM tt_break_cause ORDER BY id`).
		Scan(&causes).Error
	if err != nil {
		return nil, err
	}
	return causes, nil
}

func (r *repository) ListBreakpoints(ctx context.Context) ([]domain.Breakpoint, error) {
	points := []domain.Breakpoint{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, name FROM tt_breakpoint ORDER BY id`).
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *repository) ListMachines(ctx context.Context, stage int32) ([]int32, error) {
	machines := []int32{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT machine_no FROM tt_machine WHERE stage = ? ORDER BY machine_no`, stage).
		Scan(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *repository) ListDevices(ctx context.Context, stage int32) ([]int32, error) {
	devices := []int32{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT i.device_code
		 FROM tt_inspection i
		 JOIN tt_machine m ON m.machine_no = i.device_code
		 WHERE m.stage = ? AND i.is_deleted = 0
		 ORDER BY i.device_code`, stage).
		Scan(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}
