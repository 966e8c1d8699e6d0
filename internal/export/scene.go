// Package export writes bay reports to the scene JSON consumed by the 3D
// viewer and to auxiliary formats: plan-view PDF, QR bin labels, DXF
// wireframes and an XLSX summary workbook.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/rackmap/internal/model"
)

const originNote = "Origin is at top-left of bay (westernmost & southernmost point)"

// Scene is the JSON document written for one bay.
type Scene struct {
	Building   string           `json:"building"`
	Bay        string           `json:"bay"`
	BayOrigin  SceneOrigin      `json:"bay_origin"`
	Metadata   SceneMetadata    `json:"metadata"`
	Containers []SceneContainer `json:"containers"`
	Racks      []SceneRack      `json:"racks"`
	Errors     []string         `json:"errors"`
	Warnings   []string         `json:"warnings"`
}

type SceneOrigin struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Note string  `json:"note"`
}

type SceneMetadata struct {
	TotalContainers  int              `json:"total_containers"`
	TotalRacks       int              `json:"total_racks"`
	Units            string           `json:"units"`
	CoordinateSystem CoordinateSystem `json:"coordinate_system"`
}

type CoordinateSystem struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// SceneContainer is a container with rounded coordinates. Slot is null when
// the bin has no slot letter.
type SceneContainer struct {
	ID         string     `json:"id"`
	Row        string     `json:"row"`
	Section    string     `json:"section"`
	Level      int        `json:"level"`
	Slot       *string    `json:"slot"`
	Position   model.Vec3 `json:"position"`
	Dimensions model.Vec3 `json:"dimensions"`
}

type SceneRack struct {
	ID             string      `json:"id"`
	Row            string      `json:"row"`
	Sections       []string    `json:"sections"`
	MaxLevel       int         `json:"max_level"`
	ContainerCount int         `json:"container_count"`
	Bounds         SceneBounds `json:"bounds"`
	Center         model.Vec3  `json:"center"`
}

type SceneBounds struct {
	Min model.Vec3 `json:"min"`
	Max model.Vec3 `json:"max"`
}

var sceneAxes = CoordinateSystem{
	X: "horizontal (left-right, positive = east)",
	Y: "vertical (height, 0 = floor, positive = up)",
	Z: "depth (positive = north, into warehouse)",
}

// round4 rounds to the 4 decimal places published in the scene format.
func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // no negative zero in output
	}
	return r
}

func roundVec(v model.Vec3) model.Vec3 {
	return model.Vec3{X: round4(v.X), Y: round4(v.Y), Z: round4(v.Z)}
}

// NewScene converts a report into its output document. Every list is
// non-nil so the JSON always carries arrays.
func NewScene(report model.BayReport) Scene {
	scene := Scene{
		Building:  report.Building,
		Bay:       report.Bay,
		BayOrigin: SceneOrigin{Note: originNote},
		Metadata: SceneMetadata{
			TotalContainers:  len(report.Containers),
			TotalRacks:       len(report.Racks),
			Units:            "feet",
			CoordinateSystem: sceneAxes,
		},
		Containers: make([]SceneContainer, 0, len(report.Containers)),
		Racks:      make([]SceneRack, 0, len(report.Racks)),
		Errors:     append([]string{}, report.Errors...),
		Warnings:   append([]string{}, report.Warnings...),
	}

	for _, c := range report.Containers {
		sc := SceneContainer{
			ID:         c.ID,
			Row:        c.Row,
			Section:    c.Section,
			Level:      c.Level,
			Position:   roundVec(c.Position),
			Dimensions: roundVec(c.Dimensions),
		}
		if c.Slot != "" {
			slot := c.Slot
			sc.Slot = &slot
		}
		scene.Containers = append(scene.Containers, sc)
	}

	for _, r := range report.Racks {
		scene.Racks = append(scene.Racks, SceneRack{
			ID:             r.ID,
			Row:            r.Row,
			Sections:       append([]string{}, r.Sections...),
			MaxLevel:       r.MaxLevel,
			ContainerCount: r.ContainerCount,
			Bounds:         SceneBounds{Min: roundVec(r.BoundsMin), Max: roundVec(r.BoundsMax)},
			Center:         roundVec(r.Center()),
		})
	}

	return scene
}

// BuildingKey lower-cases a building name and strips its spaces,
// "BLDG 22" becoming "bldg22".
func BuildingKey(building string) string {
	return strings.ReplaceAll(strings.ToLower(building), " ", "")
}

// FileName returns the scene file name for a bay.
func FileName(building, bay string) string {
	return fmt.Sprintf("%s_bay%s_containers.json", BuildingKey(building), bay)
}

// MarshalReport encodes a report as indented scene JSON. The output is a
// pure function of the report.
func MarshalReport(report model.BayReport) ([]byte, error) {
	data, err := json.MarshalIndent(NewScene(report), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bay %s: %w", report.Bay, err)
	}
	return data, nil
}

// WriteBayJSON writes one report into dir and returns the file path.
// An existing file with the same name is overwritten.
func WriteBayJSON(dir string, report model.BayReport) (string, error) {
	data, err := MarshalReport(report)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(report.Building, report.Bay))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteReports creates dir if needed and writes every report, returning the
// written paths in report order.
func WriteReports(dir string, reports []model.BayReport) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(reports))
	for _, r := range reports {
		path, err := WriteBayJSON(dir, r)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
