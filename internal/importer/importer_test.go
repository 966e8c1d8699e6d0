package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const inventoryHeader = "BLDG,AREA (BAY),Storage Bin,POS X (ft),POS Y,Width (in),Height (in),Depth (in)"

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte(inventoryHeader + "\nBLDG 22,3E,3E01A1,0,0,36,10,18\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("BLDG;AREA (BAY);Storage Bin\nBLDG 22;3E;3E01A1\nBLDG 22;3E;3E01A2\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("BLDG\tAREA (BAY)\tStorage Bin\nBLDG 22\t3E\t3E01A1\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("BLDG|AREA (BAY)|Storage Bin\nBLDG 22|3E|3E01A1\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_InventoryHeaders(t *testing.T) {
	row := strings.Split(inventoryHeader+",ROW,SECT,LEVEL", ",")
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Building != 0 || mapping.Bay != 1 || mapping.Bin != 2 {
		t.Errorf("unexpected key columns: %+v", mapping)
	}
	if mapping.X != 3 || mapping.Y != 4 {
		t.Errorf("unexpected position columns: X=%d Y=%d", mapping.X, mapping.Y)
	}
	if mapping.Width != 5 || mapping.Height != 6 || mapping.Depth != 7 {
		t.Errorf("unexpected dimension columns: %+v", mapping)
	}
	if mapping.Row != 8 || mapping.Section != 9 || mapping.Level != 10 {
		t.Errorf("unexpected pre-parsed columns: %+v", mapping)
	}
	if mapping.WidthFeet || mapping.HeightFeet || mapping.DepthFeet {
		t.Error("inch columns should not be flagged as feet")
	}
}

func TestDetectColumns_CaseInsensitiveAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"  building ", "bay", "LOCATION", "pos x", "pos y"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Bin != 2 || mapping.Building != 0 || mapping.Bay != 1 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.Width != -1 {
		t.Errorf("expected Width unmapped, got %d", mapping.Width)
	}
}

func TestDetectColumns_FeetColumns(t *testing.T) {
	mapping, _ := DetectColumns([]string{"Storage Bin", "Width (ft)", "Height (in)", "Height (ft)"})
	if mapping.Width != 1 || !mapping.WidthFeet {
		t.Errorf("expected feet width at 1, got %d (feet=%v)", mapping.Width, mapping.WidthFeet)
	}
	if mapping.Height != 2 || mapping.HeightFeet {
		t.Errorf("inch height should win over feet, got %d (feet=%v)", mapping.Height, mapping.HeightFeet)
	}
}

func TestDetectColumns_DataRowIsNotHeader(t *testing.T) {
	if _, isHeader := DetectColumns([]string{"BLDG 22", "3E", "3E01A1", "4.5"}); isHeader {
		t.Error("data row should not be detected as header")
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_Basic(t *testing.T) {
	data := inventoryHeader + "\n" +
		"BLDG 22,3E,3E01A1,1.5,2,36,10,18\n" +
		"BLDG 22,3E,3E01A2,1.5,2,,,\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}

	r := result.Rows[0]
	if r.Building != "BLDG 22" || r.Bay != "3E" || r.Bin != "3E01A1" {
		t.Errorf("unexpected keys: %+v", r)
	}
	if r.X == nil || *r.X != 1.5 || r.Y == nil || *r.Y != 2 {
		t.Errorf("unexpected position: %v %v", r.X, r.Y)
	}
	if r.Height == nil || *r.Height != 10 {
		t.Errorf("expected height 10, got %v", r.Height)
	}
	if r.Line != 2 {
		t.Errorf("expected line 2, got %d", r.Line)
	}

	empty := result.Rows[1]
	if empty.Width != nil || empty.Height != nil || empty.Depth != nil {
		t.Error("blank dimension cells should be absent")
	}
}

func TestImportCSVFromReader_MissingRequiredColumns(t *testing.T) {
	data := "Storage Bin,POS X (ft),POS Y\n3E01A1,0,0\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if result.OK() {
		t.Fatal("expected a fatal error")
	}
	if !strings.Contains(result.Errors[0], "CRITICAL: Missing required columns: [AREA (BAY), BLDG]") {
		t.Errorf("unexpected error: %s", result.Errors[0])
	}
	if len(result.Errors) < 2 || !strings.Contains(result.Errors[1], "Available columns: [Storage Bin, POS X (ft), POS Y]") {
		t.Errorf("expected available columns listing, got %v", result.Errors)
	}
	if len(result.Rows) != 0 {
		t.Error("no rows should be returned on fatal error")
	}
}

func TestImportCSVFromReader_NoHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("BLDG 22,3E,3E01A1\n"), ',')
	if result.OK() {
		t.Fatal("expected a fatal error without a header row")
	}
}

func TestImportCSVFromReader_MissingPositionColumnsWarns(t *testing.T) {
	data := "BLDG,AREA (BAY),Storage Bin\nBLDG 22,3E,3E01A1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if w == "Missing position columns: [POS X (ft), POS Y]" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected position warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_BadNumbersAreAbsent(t *testing.T) {
	data := inventoryHeader + "\nBLDG 22,3E,3E01A1,n/a,abc,wide,NaN,18\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	r := result.Rows[0]
	if r.X != nil || r.Y != nil || r.Width != nil || r.Height != nil {
		t.Errorf("unparseable numbers should be absent: %+v", r)
	}
	if r.Depth == nil || *r.Depth != 18 {
		t.Errorf("expected depth 18, got %v", r.Depth)
	}
}

func TestImportCSVFromReader_NonPositiveDimensions(t *testing.T) {
	data := inventoryHeader + "\nBLDG 22,3E,3E01A1,0,0,36,0,-4\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	r := result.Rows[0]
	if r.Height != nil || r.Depth != nil {
		t.Error("non-positive dimensions should be absent")
	}
	if r.X == nil || *r.X != 0 {
		t.Error("zero is a valid position")
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", result.Warnings)
	}
	if result.Warnings[0] != "Line 2: Non-positive height '0', using default" {
		t.Errorf("unexpected warning: %s", result.Warnings[0])
	}
}

func TestImportCSVFromReader_RowWarningsTaggedWithBay(t *testing.T) {
	data := inventoryHeader + "\n" +
		"BLDG 22,3E,3E01A1,0,0,36,0,18\n" +
		",3W,3W01A1,0,0,36,10,18\n" +
		"BLDG 7,1E,1E05D3,0,0,-2,10,18\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", result.Warnings)
	}
	if len(result.RowWarnings) != 2 {
		t.Fatalf("dropped rows must not be tagged, got %+v", result.RowWarnings)
	}
	first := result.RowWarnings[0]
	if first.Line != 2 || first.Building != "BLDG 22" || first.Bay != "3E" {
		t.Errorf("unexpected tag: %+v", first)
	}

	got := result.BayWarnings("BLDG 7", "1E")
	if len(got) != 1 || got[0] != "Line 4: Non-positive width '-2', using default" {
		t.Errorf("unexpected bay warnings: %v", got)
	}
	if result.BayWarnings("BLDG 22", "3W") != nil {
		t.Error("expected no warnings for an unknown bay")
	}
}

func TestImportCSVFromReader_FeetConvertedToInches(t *testing.T) {
	data := "BLDG,AREA (BAY),Storage Bin,Width (ft),Height (ft)\nBLDG 22,3E,3E01A1,3,0.75\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	r := result.Rows[0]
	if r.Width == nil || *r.Width != 36 {
		t.Errorf("expected width 36 in, got %v", r.Width)
	}
	if r.Height == nil || *r.Height != 9 {
		t.Errorf("expected height 9 in, got %v", r.Height)
	}
}

func TestImportCSVFromReader_SkipsBlankAndKeylessRows(t *testing.T) {
	data := inventoryHeader + "\n" +
		",,,,,,,\n" +
		"BLDG 22,3E,,0,0,,,\n" +
		"BLDG 22,,3E01A1,0,0,,,\n" +
		"BLDG 22,3E,3E01A2,0,0,,,\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if result.Rows[0].Bin != "3E01A2" || result.Rows[0].Line != 5 {
		t.Errorf("unexpected row: %+v", result.Rows[0])
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Line 4") {
		t.Errorf("expected keyless row warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_HeaderBelowTitle(t *testing.T) {
	data := "Inventory export,,\n,,\nBLDG,AREA (BAY),Storage Bin\nBLDG 22,3E,3E01A1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if !result.OK() || len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d (errors %v)", len(result.Rows), result.Errors)
	}
	if !strings.Contains(result.Warnings[0], "Header found on line 3") {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

// ─── ImportCSV Tests ───────────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	content := "BLDG;AREA (BAY);Storage Bin;POS X (ft);POS Y\nBLDG 22;3E;3E01A1;1;2\nBLDG 22;3E;3E01A2;1;2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("expected delimiter warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if result.OK() || !strings.HasPrefix(result.Errors[0], "Cannot open file") {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if result.OK() || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

// ─── ImportExcel Tests ─────────────────────────────────────

func writeWorkbook(t *testing.T, sheets map[string][][]any, order []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportExcel_AutoDetectsBaySheet(t *testing.T) {
	header := []any{"BLDG", "AREA (BAY)", "Storage Bin", "POS X (ft)", "POS Y", "Height (in)"}
	path := writeWorkbook(t, map[string][][]any{
		"Legend":       {{"Colour", "Meaning"}},
		"BAY 3E Stock": {header, {"BLDG 22", "3E", "3E01A1", 1.25, 4, 10}},
	}, []string{"Legend", "BAY 3E Stock"})

	result := ImportExcel(path, "")

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Sheet != "BAY 3E Stock" {
		t.Errorf("expected bay sheet, got %q", result.Sheet)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	r := result.Rows[0]
	if r.X == nil || *r.X != 1.25 || r.Height == nil || *r.Height != 10 {
		t.Errorf("unexpected numeric values: %+v", r)
	}
}

func TestImportExcel_RequestedSheetMissing(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Data": {{"Storage Bin"}}}, []string{"Data"})

	result := ImportExcel(path, "Other")

	if result.OK() {
		t.Fatal("expected error for missing sheet")
	}
	if !strings.Contains(result.Errors[0], "sheet 'Other' not found") {
		t.Errorf("unexpected error: %s", result.Errors[0])
	}
}

func TestImport_DispatchesOnExtension(t *testing.T) {
	result := Import("inventory.pdf", "")
	if result.OK() || !strings.Contains(result.Errors[0], "Unsupported file type") {
		t.Errorf("expected unsupported file error, got %v", result.Errors)
	}
}

// ─── SelectSheet Tests ─────────────────────────────────────

func TestSelectSheet(t *testing.T) {
	tests := []struct {
		name      string
		sheets    []string
		requested string
		want      string
		wantErr   bool
	}{
		{"requested", []string{"A", "B"}, "B", "B", false},
		{"requested missing", []string{"A"}, "B", "", true},
		{"bay preferred", []string{"Legend", "BLDG 22", "Bay 3E"}, "", "Bay 3E", false},
		{"building next", []string{"Legend", "bldg 22"}, "", "bldg 22", false},
		{"skip legend", []string{"Legend", "Notes", "Export"}, "", "Export", false},
		{"fallback first", []string{"Legend"}, "", "Legend", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectSheet(tt.sheets, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
