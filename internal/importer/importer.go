// Package importer reads warehouse inventory exports from CSV and Excel
// files. It supports automatic delimiter detection, sheet auto-detection,
// flexible column mapping and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/rackmap/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Errors are fatal:
// when any are present Rows is empty and no bay can be processed.
type ImportResult struct {
	Rows     []model.InventoryRow
	Sheet    string   // Sheet that was read, for Excel input
	Columns  []string // Header cells as found in the source
	Errors   []string
	Warnings []string

	// RowWarnings repeats the warnings of kept rows, tagged with the bay
	// they belong to.
	RowWarnings []RowWarning
}

// RowWarning is a warning raised while parsing a row that was kept.
type RowWarning struct {
	Line     int
	Building string
	Bay      string
	Message  string
}

// BayWarnings groups the row warnings of one building and bay, in input order.
func (r ImportResult) BayWarnings(building, bay string) []string {
	var out []string
	for _, w := range r.RowWarnings {
		if w.Building == building && w.Bay == bay {
			out = append(out, w.Message)
		}
	}
	return out
}

// OK reports whether the import succeeded.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
// Unmapped roles are -1.
type ColumnMapping struct {
	Bin      int
	Bay      int
	Building int
	X        int
	Y        int
	Width    int
	Height   int
	Depth    int
	Row      int
	Section  int
	Level    int

	// Dimension columns that hold feet instead of inches
	WidthFeet  bool
	HeightFeet bool
	DepthFeet  bool
}

const (
	roleBin      = "bin"
	roleBay      = "bay"
	roleBuilding = "building"
	roleX        = "x"
	roleY        = "y"
	roleWidthIn  = "width_in"
	roleHeightIn = "height_in"
	roleDepthIn  = "depth_in"
	roleWidthFt  = "width_ft"
	roleHeightFt = "height_ft"
	roleDepthFt  = "depth_ft"
	roleRow      = "row"
	roleSection  = "section"
	roleLevel    = "level"
)

// headerAliases maps column roles to their accepted header names (all lowercase).
var headerAliases = map[string][]string{
	roleBin:      {"storage bin", "bin", "location", "lolocn", "bin id"},
	roleBay:      {"area (bay)", "bay", "area"},
	roleBuilding: {"bldg", "building"},
	roleX:        {"pos x (ft)", "pos x", "x (ft)"},
	roleY:        {"pos y", "pos y (ft)", "y (ft)"},
	roleWidthIn:  {"width (in)", "width", "itemwd"},
	roleHeightIn: {"height (in)", "height", "itemht"},
	roleDepthIn:  {"depth (in)", "depth", "itemdp"},
	roleWidthFt:  {"width (ft)"},
	roleHeightFt: {"height (ft)"},
	roleDepthFt:  {"depth (ft)"},
	roleRow:      {"row"},
	roleSection:  {"sect", "section"},
	roleLevel:    {"level"},
}

// requiredColumns names the roles every export must carry, with the header
// used in messages.
var requiredColumns = []struct {
	role string
	name string
}{
	{roleBin, "Storage Bin"},
	{roleBay, "AREA (BAY)"},
	{roleBuilding, "BLDG"},
}

// headerSearchRows is how far down a sheet the header row is looked for;
// some exports put a title block above it.
const headerSearchRows = 10

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role;
// the first column matching a role wins. Returns false if the row does not
// contain a bin column and so cannot be a header.
func DetectColumns(row []string) (ColumnMapping, bool) {
	found := make(map[string]int)
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			if _, taken := found[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					found[role] = i
					break
				}
			}
		}
	}

	idx := func(role string) int {
		if i, ok := found[role]; ok {
			return i
		}
		return -1
	}

	mapping := ColumnMapping{
		Bin:      idx(roleBin),
		Bay:      idx(roleBay),
		Building: idx(roleBuilding),
		X:        idx(roleX),
		Y:        idx(roleY),
		Width:    idx(roleWidthIn),
		Height:   idx(roleHeightIn),
		Depth:    idx(roleDepthIn),
		Row:      idx(roleRow),
		Section:  idx(roleSection),
		Level:    idx(roleLevel),
	}

	// Feet columns are used only when the inch column is absent.
	if mapping.Width == -1 && idx(roleWidthFt) >= 0 {
		mapping.Width, mapping.WidthFeet = idx(roleWidthFt), true
	}
	if mapping.Height == -1 && idx(roleHeightFt) >= 0 {
		mapping.Height, mapping.HeightFeet = idx(roleHeightFt), true
	}
	if mapping.Depth == -1 && idx(roleDepthFt) >= 0 {
		mapping.Depth, mapping.DepthFeet = idx(roleDepthFt), true
	}

	return mapping, mapping.Bin >= 0
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber returns nil for empty or unparseable cells.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseDimension reads a dimension cell into inches. Non-positive values are
// treated as absent and reported.
func parseDimension(row []string, idx int, feet bool, name, rowLabel string) (*float64, string) {
	raw := getCell(row, idx)
	v := parseNumber(raw)
	if v == nil {
		return nil, ""
	}
	if *v <= 0 {
		return nil, fmt.Sprintf("%s: Non-positive %s '%s', using default", rowLabel, name, raw)
	}
	if feet {
		inches := *v * model.InchesPerFoot
		return &inches, ""
	}
	return v, ""
}

// parseRow extracts an InventoryRow using the given column mapping.
// Returns the row, whether it should be kept, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, line int) (model.InventoryRow, bool, []string) {
	bin := getCell(row, mapping.Bin)
	if bin == "" {
		return model.InventoryRow{}, false, nil
	}

	var warnings []string
	building := getCell(row, mapping.Building)
	bay := getCell(row, mapping.Bay)
	if building == "" || bay == "" {
		warnings = append(warnings, fmt.Sprintf("%s: Bin '%s' has no building or bay, skipping", rowLabel, bin))
		return model.InventoryRow{}, false, warnings
	}

	r := model.InventoryRow{
		Line:     line,
		Building: building,
		Bay:      bay,
		Bin:      bin,
		X:        parseNumber(getCell(row, mapping.X)),
		Y:        parseNumber(getCell(row, mapping.Y)),
		Row:      getCell(row, mapping.Row),
		Section:  getCell(row, mapping.Section),
		Level:    getCell(row, mapping.Level),
	}

	var w string
	if r.Width, w = parseDimension(row, mapping.Width, mapping.WidthFeet, "width", rowLabel); w != "" {
		warnings = append(warnings, w)
	}
	if r.Height, w = parseDimension(row, mapping.Height, mapping.HeightFeet, "height", rowLabel); w != "" {
		warnings = append(warnings, w)
	}
	if r.Depth, w = parseDimension(row, mapping.Depth, mapping.DepthFeet, "depth", rowLabel); w != "" {
		warnings = append(warnings, w)
	}

	return r, true, warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import reads an inventory export, choosing the reader by file extension.
// sheet is only used for Excel files; empty means auto-detect.
func Import(path, sheet string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path, sheet)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// ImportCSV imports inventory rows from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports inventory rows from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports inventory rows from an Excel (.xlsx, .xlsm) file.
// When sheet is empty the data sheet is picked with SelectSheet.
func ImportExcel(path, sheet string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	target, err := SelectSheet(sheets, sheet)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("CRITICAL: %v", err))
		return result
	}

	rows, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Sheet '%s' is empty", target))
		return result
	}

	result = importFromRows(rows, "Row")
	result.Sheet = target
	return result
}

// skipSheets are names of workbook tabs that never hold inventory data.
var skipSheets = map[string]bool{"legend": true, "stats": true, "notes": true, "info": true}

// SelectSheet picks the sheet to read. An explicitly requested sheet must
// exist. Otherwise sheets named like a bay are preferred, then sheets named
// like a building, then the first sheet that is not a legend or notes tab.
func SelectSheet(sheets []string, requested string) (string, error) {
	if requested != "" {
		for _, s := range sheets {
			if s == requested {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found. Available: [%s]", requested, strings.Join(sheets, ", "))
	}

	for _, s := range sheets {
		if strings.Contains(strings.ToLower(s), "bay") {
			return s, nil
		}
	}
	for _, s := range sheets {
		if strings.Contains(strings.ToLower(s), "bldg") {
			return s, nil
		}
	}
	for _, s := range sheets {
		if !skipSheets[strings.ToLower(strings.TrimSpace(s))] {
			return s, nil
		}
	}
	return sheets[0], nil
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It finds the header, validates required columns and parses each data row.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	headerIdx := -1
	var mapping ColumnMapping
	for i := 0; i < len(rows) && i < headerSearchRows; i++ {
		if m, ok := DetectColumns(rows[i]); ok {
			headerIdx, mapping = i, m
			break
		}
	}

	if headerIdx == -1 {
		result.Errors = append(result.Errors, "CRITICAL: Missing required columns: [Storage Bin] (no header row found)")
		return result
	}
	if headerIdx > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Header found on %s %d, skipping rows above it", strings.ToLower(rowPrefix), headerIdx+1))
	}

	for _, cell := range rows[headerIdx] {
		result.Columns = append(result.Columns, strings.TrimSpace(cell))
	}

	var missing []string
	for _, req := range requiredColumns {
		if roleIndex(mapping, req.role) == -1 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("CRITICAL: Missing required columns: [%s]", strings.Join(missing, ", ")),
			fmt.Sprintf("Available columns: [%s]", strings.Join(result.Columns, ", ")))
		return result
	}

	var missingPos []string
	if mapping.X == -1 {
		missingPos = append(missingPos, "POS X (ft)")
	}
	if mapping.Y == -1 {
		missingPos = append(missingPos, "POS Y")
	}
	if len(missingPos) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Missing position columns: [%s]", strings.Join(missingPos, ", ")))
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		lineNum := i + 1
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		r, keep, warnings := parseRow(row, mapping, rowLabel, lineNum)
		result.Warnings = append(result.Warnings, warnings...)
		if keep {
			result.Rows = append(result.Rows, r)
			for _, w := range warnings {
				result.RowWarnings = append(result.RowWarnings, RowWarning{
					Line: lineNum, Building: r.Building, Bay: r.Bay, Message: w,
				})
			}
		}
	}

	if len(result.Rows) == 0 {
		result.Warnings = append(result.Warnings, "No data rows found")
	}

	return result
}

func roleIndex(m ColumnMapping, role string) int {
	switch role {
	case roleBin:
		return m.Bin
	case roleBay:
		return m.Bay
	case roleBuilding:
		return m.Building
	default:
		return -1
	}
}
