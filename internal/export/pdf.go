package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/rackmap/internal/model"
)

// rackColor represents an RGB fill for one rack's containers.
type rackColor struct {
	R, G, B int
}

// rackColors cycles across racks in a bay.
var rackColors = []rackColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPlanPDF generates a PDF with a top-down plan of each bay.
// Containers are drawn in the X/Z plane coloured by rack, rack outlines are
// labelled, and a summary page lists every bay.
func ExportPlanPDF(path string, reports []model.BayReport, settings model.Settings) error {
	if len(reports) == 0 {
		return fmt.Errorf("no bays to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, r := range reports {
		pdf.AddPage()
		renderBayPage(pdf, r)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, reports, settings)

	return pdf.OutputFileAndClose(path)
}

// planExtent returns the X/Z bounding rectangle of every container in a bay.
func planExtent(containers []model.Container) (minX, minZ, maxX, maxZ float64) {
	minX, minZ = math.Inf(1), math.Inf(1)
	maxX, maxZ = math.Inf(-1), math.Inf(-1)
	for _, c := range containers {
		far := c.Max()
		minX = math.Min(minX, c.Position.X)
		minZ = math.Min(minZ, c.Position.Z)
		maxX = math.Max(maxX, far.X)
		maxZ = math.Max(maxZ, far.Z)
	}
	return minX, minZ, maxX, maxZ
}

// renderBayPage draws a single bay on the current PDF page.
func renderBayPage(pdf *fpdf.Fpdf, report model.BayReport) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Bay %s", report.Building, report.Bay)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Containers: %d | Racks: %d | Warnings: %d",
		len(report.Containers), len(report.Racks), len(report.Warnings))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	if !report.OK() || len(report.Containers) == 0 {
		renderMessages(pdf, report, drawAreaTop)
		return
	}

	minX, minZ, maxX, maxZ := planExtent(report.Containers)
	spanX := math.Max(maxX-minX, 1)
	spanZ := math.Max(maxZ-minZ, 1)

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/spanX, drawHeight/spanZ)

	canvasW := spanX * scale
	canvasH := spanZ * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Page Y grows downward; north (positive Z) is drawn at the top.
	toPage := func(x, z float64) (float64, float64) {
		return offsetX + (x-minX)*scale, offsetY + (maxZ-z)*scale
	}

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	rackIndex := make(map[string]int, len(report.Racks))
	for i, r := range report.Racks {
		rackIndex[r.Row] = i
	}

	for _, c := range report.Containers {
		col := rackColors[rackIndex[c.Row]%len(rackColors)]
		far := c.Max()
		px, py := toPage(c.Position.X, far.Z)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.1)
		pdf.Rect(px, py, c.Dimensions.X*scale, c.Dimensions.Z*scale, "FD")
	}

	pdf.SetFont("Helvetica", "B", 7)
	for _, r := range report.Racks {
		size := r.Size()
		px, py := toPage(r.BoundsMin.X, r.BoundsMax.Z)
		rw, rh := size.X*scale, size.Z*scale

		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.4)
		pdf.Rect(px, py, rw, rh, "D")

		labelW := pdf.GetStringWidth(r.ID)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(px+(rw-labelW)/2, py-4)
		pdf.CellFormat(labelW, 4, r.ID, "", 0, "C", false, 0, "")
	}

	drawDimensionAnnotations(pdf, spanX, spanZ, offsetX, offsetY, canvasW, canvasH)
	drawRackLegend(pdf, report, offsetY+canvasH+6)
}

// renderMessages lists a bay's errors and first warnings instead of a plan.
func renderMessages(pdf *fpdf.Fpdf, report model.BayReport, y float64) {
	pdf.SetFont("Helvetica", "B", 11)
	if !report.OK() {
		pdf.SetTextColor(200, 0, 0)
	}
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(200, 7, "No plan available", "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	lines := make([]string, 0, len(report.Errors)+len(report.Warnings))
	for _, e := range report.Errors {
		lines = append(lines, "ERROR: "+e)
	}
	for _, w := range report.Warnings {
		lines = append(lines, w)
	}
	for _, line := range lines {
		if y > pageHeight-marginBottom-5 {
			break
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight-5, 5, line, "", 0, "L", false, 0, "")
		y += 5
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds the bay extent in feet outside the plan rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, spanX, spanZ, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.1f ft", spanX)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.1f ft", spanZ)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawRackLegend renders a compact legend of racks below the plan.
func drawRackLegend(pdf *fpdf.Fpdf, report model.BayReport, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Racks:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, r := range report.Racks {
		col := rackColors[i%len(rackColors)]
		label := fmt.Sprintf("%s (%d bins, L%d)", r.ID, r.ContainerCount, r.MaxLevel)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with per-bay statistics and the
// geometry settings used.
func renderSummaryPage(pdf *fpdf.Fpdf, reports []model.BayReport, settings model.Settings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Warehouse Layout Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Bay Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{50, 30, 35, 30, 30, 35, 30}
	headers := []string{"Building", "Bay", "Containers", "Racks", "Errors", "Warnings", "Status"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	totalContainers, totalRacks := 0, 0
	for i, r := range reports {
		totalContainers += len(r.Containers)
		totalRacks += len(r.Racks)

		if y > pageHeight-marginBottom-45 {
			pdf.AddPage()
			y = marginTop
		}

		status := "OK"
		if !r.OK() {
			status = "FAILED"
		}
		rowData := []string{
			r.Building,
			r.Bay,
			fmt.Sprintf("%d", len(r.Containers)),
			fmt.Sprintf("%d", len(r.Racks)),
			fmt.Sprintf("%d", len(r.Errors)),
			fmt.Sprintf("%d", len(r.Warnings)),
			status,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 4
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(200, 6, fmt.Sprintf("Total: %d bays, %d containers, %d racks", len(reports), totalContainers, totalRacks), "", 0, "L", false, 0, "")
	y += 10

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Geometry Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Shelf Thickness", fmt.Sprintf("%.1f in", settings.ShelfThicknessInches)},
		{"Level 1 Floor Offset", fmt.Sprintf("%.1f in", settings.Level1FloorOffsetInches)},
		{"Default Width", fmt.Sprintf("%.1f in", settings.DefaultWidthInches)},
		{"Default Height", fmt.Sprintf("%.1f in", settings.DefaultHeightInches)},
		{"Default Depth", fmt.Sprintf("%.1f in", settings.DefaultDepthInches)},
		{"Slots per Section", fmt.Sprintf("%d", settings.MaxSlotsPerSection)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by rackmap - Warehouse Bay Layout Generator", "", 0, "C", false, 0, "")
}
