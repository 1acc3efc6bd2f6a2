package repository

import (
	"context"
	"strings"

	"github.com/czttgd/breakinfo/internal/inspection/domain"
	"github.com/czttgd/breakinfo/pkg/db/hydrate"
	"gorm.io/gorm"
)

// searchColumns are scanned for the free-text filter. Each one binds the
// pattern separately.
var searchColumns = []string{
	"uc.name",
	"br_a.cause",
	"br_b.cause",
	"i.product_spec",
	"i.creation_time",
	"CAST(i.device_code AS CHAR(11))",
	"i.break_spec",
}

const likeEscape = '!'

var searchSQL = buildSearchSQL()

func buildSearchSQL() string {
	predicates := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		predicates[i] = col + ` LIKE ? ESCAPE '` + string(likeEscape) + `'`
	}
	return `SELECT
	i.id, i.device_code, i.creation_time, i.product_spec, i.break_spec,
	i.break_cause_a, i.break_cause_b, i.inspection_flag,
	uc.id AS creator_user_id, uc.name AS creator_user_name,
	br_a.id AS br_a_cause_id, br_a.type AS br_a_cause_type, br_a.cause AS br_a_cause_name,
	br_b.id AS br_b_cause_id, br_b.type AS br_b_cause_type, br_b.cause AS br_b_cause_name
FROM tt_inspection i
JOIN tt_machine m ON m.machine_no = i.device_code
JOIN tt_user uc ON uc.id = i.creator
LEFT JOIN tt_break_cause br_a ON br_a.id = i.break_cause_a
LEFT JOIN tt_break_cause br_b ON br_b.id = i.break_cause_b
WHERE m.stage = ? AND i.is_deleted = 0
	AND (` + strings.Join(predicates, "\n\t\tOR ") + `)
ORDER BY i.id DESC
LIMIT ? OFFSET ?`
}

// containsPattern turns filter into a LIKE pattern matching it as a
// literal substring.
func containsPattern(filter string) string {
	esc := string(likeEscape)
	r := strings.NewReplacer(esc, esc+esc, "%", esc+"%", "_", esc+"_")
	return "%" + r.Replace(filter) + "%"
}

func searchArgs(filter domain.SearchFilter) []any {
	pattern := containsPattern(filter.Filter)
	args := make([]any, 0, len(searchColumns)+3)
	args = append(args, filter.Stage)
	for range searchColumns {
		args = append(args, pattern)
	}
	return append(args, filter.Limit, filter.Offset)
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, filter domain.SearchFilter) ([]domain.InspectionSummary, error) {
	rows, err := db.WithContext(ctx).Raw(searchSQL, searchArgs(filter)...).Rows()
	if err != nil {
		return nil, err
	}

	collected := []domain.InspectionSummary{}
	err = hydrate.Each(ctx, rows, func(row hydrate.Row) error {
		summary, err := hydrateSummary(row)
		if err != nil {
			return err
		}
		collected = append(collected, summary)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}
