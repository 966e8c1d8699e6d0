package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/rackmap/internal/bincode"
	"github.com/piwi3910/rackmap/internal/model"
)

// Builder turns decoded inventory rows into positioned containers.
type Builder struct {
	Settings model.Settings
	Heights  HeightTable
}

func NewBuilder(settings model.Settings, heights HeightTable) *Builder {
	return &Builder{Settings: settings, Heights: heights}
}

// Build places one container. It returns false, without a warning, for
// special locations, undecodable codes and rows missing either position
// input; the caller reports those. The warning is set when the container
// was built but part of the input was ignored.
func (b *Builder) Build(row model.InventoryRow, code bincode.Code) (model.Container, bool, string) {
	if !code.IsStandard() || !row.HasPosition() {
		return model.Container{}, false, ""
	}

	s := b.Settings
	width := dimensionFt(row.Width, s.DefaultWidthInches)
	height := dimensionFt(row.Height, s.DefaultHeightInches)
	depth := dimensionFt(row.Depth, s.DefaultDepthInches)

	// Slots subdivide the section footprint left to right along X.
	x := *row.X
	var warning string
	if code.HasSlot() {
		idx, ok := bincode.SlotIndex(code.Slot)
		switch {
		case !ok:
			warning = fmt.Sprintf("Bin %s: slot %q is outside A-H, using full section width", code.Raw, code.Slot)
		case idx >= s.MaxSlotsPerSection:
			warning = fmt.Sprintf("Bin %s: slot %s exceeds %d slots per section, using full section width",
				code.Raw, code.Slot, s.MaxSlotsPerSection)
		default:
			slotWidth := width / float64(s.MaxSlotsPerSection)
			x += float64(idx) * slotWidth
			width = slotWidth
		}
	}

	y, ok := b.Heights.Offset(code.Row, code.Section, code.Level)
	if !ok {
		y = s.FloorOffsetFt() + float64(code.Level-1)*(s.DefaultHeightFt()+s.ShelfThicknessFt())
	}

	return model.Container{
		ID:         strings.TrimSpace(row.Bin),
		Row:        code.Row,
		Section:    code.Section,
		Level:      code.Level,
		Slot:       code.Slot,
		Position:   model.Vec3{X: x, Y: y, Z: *row.Y},
		Dimensions: model.Vec3{X: width, Y: height, Z: depth},
	}, true, warning
}

// dimensionFt converts a declared dimension in inches to feet, falling back
// to the default when the value is missing or not positive.
func dimensionFt(v *float64, defaultInches float64) float64 {
	if v == nil || *v <= 0 {
		return defaultInches / model.InchesPerFoot
	}
	return *v / model.InchesPerFoot
}
