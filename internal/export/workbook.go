package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/rackmap/internal/model"
)

// Workbook sheet names.
const (
	SheetBays   = "Bays"
	SheetRacks  = "Racks"
	SheetIssues = "Issues"
)

var (
	baysHeader   = []any{"Building", "Bay", "File", "Containers", "Racks", "Errors", "Warnings", "Status"}
	racksHeader  = []any{"Building", "Bay", "Rack", "Row", "Sections", "Max Level", "Containers", "Min X", "Min Y", "Min Z", "Max X", "Max Y", "Max Z"}
	issuesHeader = []any{"Building", "Bay", "Severity", "Message"}
)

// ExportWorkbook writes an XLSX summary of a run with one sheet per view:
// a row per bay, a row per rack and a row per error or warning.
func ExportWorkbook(path string, reports []model.BayReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBays); err != nil {
		return err
	}
	for _, name := range []string{SheetRacks, SheetIssues} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	bays := [][]any{baysHeader}
	racks := [][]any{racksHeader}
	issues := [][]any{issuesHeader}

	for _, r := range reports {
		status := "OK"
		if !r.OK() {
			status = "FAILED"
		}
		bays = append(bays, []any{
			r.Building, r.Bay, FileName(r.Building, r.Bay),
			len(r.Containers), len(r.Racks), len(r.Errors), len(r.Warnings), status,
		})

		for _, rack := range r.Racks {
			lo, hi := roundVec(rack.BoundsMin), roundVec(rack.BoundsMax)
			racks = append(racks, []any{
				r.Building, r.Bay, rack.ID, rack.Row, strings.Join(rack.Sections, ","),
				rack.MaxLevel, rack.ContainerCount,
				lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z,
			})
		}

		for _, e := range r.Errors {
			issues = append(issues, []any{r.Building, r.Bay, "ERROR", e})
		}
		for _, w := range r.Warnings {
			issues = append(issues, []any{r.Building, r.Bay, "WARNING", w})
		}
	}

	for _, s := range []struct {
		name string
		rows [][]any
	}{
		{SheetBays, bays},
		{SheetRacks, racks},
		{SheetIssues, issues},
	} {
		if err := writeRows(f, s.name, s.rows, bold); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetIssues, "D", "D", 100); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows writes rows starting at A1 and styles the first as a header.
func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
