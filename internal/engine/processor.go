package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/rackmap/internal/model"
)

// WorkUnit is everything needed to process one bay: the rows of a single
// (building, bay) pair. Units share no state and can run in parallel.
type WorkUnit struct {
	Building string
	Bay      string
	Rows     []model.InventoryRow
}

// Processor runs the per-bay pipeline:
// completeness check, height validation, container generation, racks.
type Processor struct {
	Settings model.Settings
}

func NewProcessor(settings model.Settings) *Processor {
	return &Processor{Settings: settings}
}

// Process produces the report for one bay. Bays without usable position
// data come back with errors only; everything else degrades to warnings.
func (p *Processor) Process(unit WorkUnit) model.BayReport {
	report := model.BayReport{Building: unit.Building, Bay: unit.Bay}

	unique := firstPerBin(unit.Rows)
	completenessWarnings, err := checkCompleteness(unit.Bay, unique)
	if err != "" {
		report.Errors = append(report.Errors, err)
		return report
	}
	report.Warnings = append(report.Warnings, completenessWarnings...)

	heights := resolveDecoded(decodeRows(unit.Rows), p.Settings)
	report.Warnings = append(report.Warnings, heights.Info...)
	report.Warnings = append(report.Warnings, heights.Warnings...)

	builder := NewBuilder(p.Settings, heights)
	for _, d := range decodeRows(unique) {
		switch {
		case d.err != nil:
			report.Warnings = append(report.Warnings, fmt.Sprintf("Could not parse bin name: %s", d.row.Bin))
			continue
		case d.code.IsSpecial():
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Skipping special bin: %s (%s)", d.row.Bin, d.code.Special))
			continue
		}

		c, ok, warning := builder.Build(d.row, d.code)
		if warning != "" {
			report.Warnings = append(report.Warnings, warning)
		}
		if ok {
			report.Containers = append(report.Containers, c)
		}
		report.Warnings = append(report.Warnings, crossCheck(d)...)
	}

	report.Racks = AggregateRacks(report.Containers)
	return report
}

// firstPerBin keeps the first row of each bin code, in input order.
func firstPerBin(rows []model.InventoryRow) []model.InventoryRow {
	seen := make(map[string]bool, len(rows))
	out := make([]model.InventoryRow, 0, len(rows))
	for _, r := range rows {
		key := strings.ToUpper(strings.TrimSpace(r.Bin))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// checkCompleteness fails the bay when it has no rows, or when no unique bin
// has an X (or no unique bin has a Y) position. Partial gaps are warnings.
func checkCompleteness(bay string, unique []model.InventoryRow) ([]string, string) {
	total := len(unique)
	if total == 0 {
		return nil, fmt.Sprintf("No data found for bay %s", bay)
	}

	missingX, missingY := 0, 0
	for _, r := range unique {
		if r.X == nil {
			missingX++
		}
		if r.Y == nil {
			missingY++
		}
	}

	if missingX == total || missingY == total {
		return nil, fmt.Sprintf("Bay %s: MISSING POSITION DATA - %d containers have no X/Y coordinates", bay, total)
	}

	var warnings []string
	if missingX > 0 {
		warnings = append(warnings, fmt.Sprintf("Bay %s: %d/%d containers missing X coordinate", bay, missingX, total))
	}
	if missingY > 0 {
		warnings = append(warnings, fmt.Sprintf("Bay %s: %d/%d containers missing Y coordinate", bay, missingY, total))
	}
	return warnings, ""
}

// crossCheck compares pre-parsed ROW/SECT/LEVEL columns, when the source has
// them, against the decoded bin code.
func crossCheck(d decodedRow) []string {
	var warnings []string
	mismatch := func(column, declared, decoded string) {
		warnings = append(warnings, fmt.Sprintf("Bin %s: %s column says %s, bin code says %s",
			d.code.Raw, column, declared, decoded))
	}

	if v := strings.TrimSpace(d.row.Row); v != "" && !sameRow(v, d.code.Row) {
		mismatch("ROW", v, d.code.Row)
	}
	if v := strings.ToUpper(strings.TrimSpace(d.row.Section)); v != "" && v != d.code.Section {
		mismatch("SECT", v, d.code.Section)
	}
	if v := strings.TrimSpace(d.row.Level); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err != nil || int(n) != d.code.Level {
			mismatch("LEVEL", v, strconv.Itoa(d.code.Level))
		}
	}
	return warnings
}

// sameRow compares row ids numerically when both are numbers, so that a
// spreadsheet cell "2" matches bin row "02".
func sameRow(declared, decoded string) bool {
	a, errA := strconv.Atoi(declared)
	b, errB := strconv.Atoi(decoded)
	if errA == nil && errB == nil {
		return a == b
	}
	return strings.EqualFold(declared, decoded)
}
