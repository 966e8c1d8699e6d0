package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/rackmap/internal/bincode"
	"github.com/piwi3910/rackmap/internal/model"
)

// SectionKey identifies one vertical column of shelves.
type SectionKey struct {
	Row     string
	Section string
}

// RowLevel identifies one shelf elevation across a whole rack row.
type RowLevel struct {
	Row   string
	Level int
}

// HeightTable is the reconciled vertical layout of a bay.
type HeightTable struct {
	// Offsets holds the Y of each present level per section, in feet.
	Offsets map[SectionKey]map[int]float64
	// Canonical holds the authoritative shelf height per row/level, in inches.
	Canonical map[RowLevel]float64
	// Warnings lists row/level groups whose declared heights disagree.
	Warnings []string
	// Info holds summary notes; it is empty when no group disagrees.
	Info []string
}

// Offset returns the resolved Y position for a level, in feet.
func (h HeightTable) Offset(row, section string, level int) (float64, bool) {
	levels, ok := h.Offsets[SectionKey{Row: row, Section: section}]
	if !ok {
		return 0, false
	}
	y, ok := levels[level]
	return y, ok
}

// decodedRow pairs an inventory row with its parsed bin code.
type decodedRow struct {
	row  model.InventoryRow
	code bincode.Code
	err  error
}

func decodeRows(rows []model.InventoryRow) []decodedRow {
	out := make([]decodedRow, len(rows))
	for i, r := range rows {
		code, err := bincode.Parse(r.Bin)
		out[i] = decodedRow{row: r, code: code, err: err}
	}
	return out
}

// ResolveHeights reconciles the declared shelf heights of one bay's rows and
// integrates them into per-section level offsets. Rows whose bin code does
// not decode to a shelf level are ignored here.
func ResolveHeights(rows []model.InventoryRow, settings model.Settings) HeightTable {
	return resolveDecoded(decodeRows(rows), settings)
}

// heightCount tallies one distinct declared height within a row/level group.
type heightCount struct {
	height   float64
	count    int
	sections []string
}

func resolveDecoded(rows []decodedRow, settings model.Settings) HeightTable {
	table := HeightTable{
		Offsets:   make(map[SectionKey]map[int]float64),
		Canonical: make(map[RowLevel]float64),
	}

	groups := make(map[RowLevel][]heightCount)
	sectionLevels := make(map[SectionKey]map[int]bool)

	for _, d := range rows {
		if !d.code.IsStandard() {
			continue
		}

		sk := SectionKey{Row: d.code.Row, Section: d.code.Section}
		if sectionLevels[sk] == nil {
			sectionLevels[sk] = make(map[int]bool)
		}
		sectionLevels[sk][d.code.Level] = true

		// non-positive heights fall back to the default in the builder
		if d.row.Height == nil || *d.row.Height <= 0 {
			continue
		}
		rl := RowLevel{Row: d.code.Row, Level: d.code.Level}
		groups[rl] = tallyHeight(groups[rl], *d.row.Height, d.code.Section)
	}

	keys := make([]RowLevel, 0, len(groups))
	for rl := range groups {
		keys = append(keys, rl)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Level < keys[j].Level
	})

	conflicted := 0
	for _, rl := range keys {
		counts := groups[rl]
		table.Canonical[rl] = modeFirstSeen(counts).height

		if len(counts) > 1 {
			conflicted++
			table.Warnings = append(table.Warnings, mismatchWarning(rl, counts))
		}
	}
	if conflicted > 0 {
		table.Info = append(table.Info,
			fmt.Sprintf("SUMMARY: %d row/level combinations have inconsistent shelf heights", conflicted))
	}

	defaultHeightFt := settings.DefaultHeightFt()
	shelfFt := settings.ShelfThicknessFt()

	for sk, present := range sectionLevels {
		maxLevel := 0
		for level := range present {
			maxLevel = max(maxLevel, level)
		}

		offsets := make(map[int]float64, len(present))
		y := settings.FloorOffsetFt()
		// Absent levels still take up their height so that sections which
		// skip a level stay aligned with their neighbours.
		for level := 1; level <= maxLevel; level++ {
			if present[level] {
				offsets[level] = y
			}
			levelHeightFt := defaultHeightFt
			if h, ok := table.Canonical[RowLevel{Row: sk.Row, Level: level}]; ok {
				levelHeightFt = h / model.InchesPerFoot
			}
			y += levelHeightFt + shelfFt
		}
		table.Offsets[sk] = offsets
	}

	return table
}

// tallyHeight records one declared height, keeping distinct heights in
// first-seen order.
func tallyHeight(counts []heightCount, height float64, section string) []heightCount {
	for i := range counts {
		if counts[i].height == height {
			counts[i].count++
			counts[i].sections = append(counts[i].sections, section)
			return counts
		}
	}
	return append(counts, heightCount{height: height, count: 1, sections: []string{section}})
}

// modeFirstSeen returns the most frequent height; ties go to the height that
// was declared first.
func modeFirstSeen(counts []heightCount) heightCount {
	best := counts[0]
	for _, c := range counts[1:] {
		if c.count > best.count {
			best = c
		}
	}
	return best
}

// modeSmallest returns the most frequent height; ties go to the smaller
// height. Used only to name the majority in mismatch warnings.
func modeSmallest(counts []heightCount) heightCount {
	best := counts[0]
	for _, c := range counts[1:] {
		if c.count > best.count || (c.count == best.count && c.height < best.height) {
			best = c
		}
	}
	return best
}

func mismatchWarning(rl RowLevel, counts []heightCount) string {
	majority := modeSmallest(counts)

	var outliers []string
	for _, c := range counts {
		if c.height == majority.height {
			continue
		}
		outliers = append(outliers, fmt.Sprintf("%s\" in section(s) %s",
			formatInches(c.height), strings.Join(uniqueSorted(c.sections), ",")))
	}

	return fmt.Sprintf("Row %s, Level %d: Height mismatch - expected %s\" (%d sections) but found: %s",
		rl.Row, rl.Level, formatInches(majority.height), majority.count, strings.Join(outliers, "; "))
}

// formatInches prints a height without trailing zeros (12, 10.5).
func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
