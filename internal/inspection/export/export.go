// Package export renders inspection search results as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/czttgd/breakinfo/internal/inspection/domain"
	lookupdomain "github.com/czttgd/breakinfo/internal/lookup/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "inspections"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []any{
	"编号", "创建人", "机台号", "创建时间", "产品规格",
	"断线规格", "初检原因", "终检原因", "检验状态",
}

// WriteXLSX streams items into a single-sheet workbook written to w.
func WriteXLSX(w io.Writer, items []domain.InspectionSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row(item)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func row(item domain.InspectionSummary) []any {
	return []any{
		// Ids exceed the float precision of a numeric cell.
		fmt.Sprintf("%d", item.ID),
		item.Creator.Name,
		item.DeviceCode,
		item.CreationTime,
		deref(item.ProductSpec),
		item.BreakSpec,
		causeName(item.BreakCauseA),
		causeName(item.BreakCauseB),
		stageLabel(item.InspectionFlag),
	}
}

func causeName(c *lookupdomain.BreakCause) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func stageLabel(flag int32) string {
	if flag == domain.InspectionFlagFinal {
		return "终检"
	}
	return "初检"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Filename names the download for stage.
func Filename(stage int32) string {
	return fmt.Sprintf("inspections-stage-%d.xlsx", stage)
}
