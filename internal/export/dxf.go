package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/rackmap/internal/model"
)

// DXF layer names.
const (
	LayerContainers = "CONTAINERS"
	LayerRacks      = "RACKS"
	LayerLabels     = "LABELS"
)

// rackLabelHeight is the text height of rack ids in feet.
const rackLabelHeight = 0.5

// DXFFileName returns the wireframe file name for a bay.
func DXFFileName(building, bay string) string {
	return fmt.Sprintf("%s_bay%s.dxf", BuildingKey(building), bay)
}

// boxEdges returns the 12 edges of the axis-aligned box [lo, hi] as pairs of
// corners.
func boxEdges(lo, hi model.Vec3) [12][2]model.Vec3 {
	c := func(x, y, z float64) model.Vec3 { return model.Vec3{X: x, Y: y, Z: z} }
	p000, p100 := c(lo.X, lo.Y, lo.Z), c(hi.X, lo.Y, lo.Z)
	p010, p110 := c(lo.X, hi.Y, lo.Z), c(hi.X, hi.Y, lo.Z)
	p001, p101 := c(lo.X, lo.Y, hi.Z), c(hi.X, lo.Y, hi.Z)
	p011, p111 := c(lo.X, hi.Y, hi.Z), c(hi.X, hi.Y, hi.Z)
	return [12][2]model.Vec3{
		{p000, p100}, {p100, p101}, {p101, p001}, {p001, p000}, // bottom
		{p010, p110}, {p110, p111}, {p111, p011}, {p011, p010}, // top
		{p000, p010}, {p100, p110}, {p101, p111}, {p001, p011}, // verticals
	}
}

// drawBox adds a wireframe box on the current layer. Scene Y (up) becomes
// DXF Z so the drawing opens as a plan view.
func drawBox(d *drawing.Drawing, lo, hi model.Vec3) error {
	for _, e := range boxEdges(lo, hi) {
		a, b := e[0], e[1]
		if _, err := d.Line(a.X, a.Z, a.Y, b.X, b.Z, b.Y); err != nil {
			return err
		}
	}
	return nil
}

// ExportDXF writes a 3D wireframe of one bay: every container on the
// CONTAINERS layer, rack bounds on RACKS and rack ids on LABELS.
func ExportDXF(path string, report model.BayReport) error {
	if len(report.Containers) == 0 {
		return fmt.Errorf("bay %s has no containers to draw", report.Bay)
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerContainers, color.Cyan},
		{LayerRacks, color.Yellow},
		{LayerLabels, color.White},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.cl, table.LT_CONTINUOUS, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerContainers); err != nil {
		return err
	}
	for _, c := range report.Containers {
		if err := drawBox(d, c.Position, c.Max()); err != nil {
			return fmt.Errorf("failed to draw %s: %w", c.ID, err)
		}
	}

	if err := d.ChangeLayer(LayerRacks); err != nil {
		return err
	}
	for _, r := range report.Racks {
		if err := drawBox(d, r.BoundsMin, r.BoundsMax); err != nil {
			return fmt.Errorf("failed to draw rack %s: %w", r.ID, err)
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	for _, r := range report.Racks {
		// Centred above the rack in plan.
		center := r.Center()
		if _, err := d.Text(r.ID, center.X, r.BoundsMax.Z+rackLabelHeight, r.BoundsMax.Y, rackLabelHeight); err != nil {
			return fmt.Errorf("failed to label rack %s: %w", r.ID, err)
		}
	}

	return d.SaveAs(path)
}

// WriteDXF writes one wireframe per bay with containers into dir and
// returns the written paths. Failed and empty bays are skipped.
func WriteDXF(dir string, reports []model.BayReport) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, r := range reports {
		if !r.OK() || len(r.Containers) == 0 {
			continue
		}
		path := filepath.Join(dir, DXFFileName(r.Building, r.Bay))
		if err := ExportDXF(path, r); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
