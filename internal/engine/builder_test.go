package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/rackmap/internal/bincode"
	"github.com/piwi3910/rackmap/internal/model"
)

func mustParse(t *testing.T, code string) bincode.Code {
	t.Helper()
	c, err := bincode.Parse(code)
	require.NoError(t, err)
	return c
}

func TestBuild_SlotSubdividesSectionWidth(t *testing.T) {
	settings := model.DefaultSettings()
	b := NewBuilder(settings, HeightTable{})

	row := model.InventoryRow{
		Bin:   "3E01A1C",
		X:     model.Float(10),
		Y:     model.Float(4),
		Width: model.Float(48), // 4 ft section
	}

	c, ok, warning := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)
	assert.Empty(t, warning)

	assert.InDelta(t, 0.5, c.Dimensions.X, 1e-9, "4 ft / 8 slots")
	assert.InDelta(t, 11.0, c.Position.X, 1e-9, "base X + 2 * 0.5 ft")
	assert.Equal(t, "C", c.Slot)
}

func TestBuild_NoSlotKeepsFullWidth(t *testing.T) {
	b := NewBuilder(model.DefaultSettings(), HeightTable{})

	row := model.InventoryRow{Bin: "3E01A1", X: model.Float(10), Y: model.Float(4), Width: model.Float(48)}
	c, ok, _ := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)

	assert.InDelta(t, 4.0, c.Dimensions.X, 1e-9)
	assert.InDelta(t, 10.0, c.Position.X, 1e-9)
	assert.Empty(t, c.Slot)
}

func TestBuild_DefaultsForMissingDimensions(t *testing.T) {
	settings := model.DefaultSettings()
	b := NewBuilder(settings, HeightTable{})

	row := model.InventoryRow{Bin: "3E01A1", X: model.Float(0), Y: model.Float(0), Height: model.Float(0)}
	c, ok, _ := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)

	assert.InDelta(t, 3.0, c.Dimensions.X, 1e-9, "36 in")
	assert.InDelta(t, 11.0/12.0, c.Dimensions.Y, 1e-9, "zero height falls back to 11 in")
	assert.InDelta(t, 1.5, c.Dimensions.Z, 1e-9, "18 in")
	assert.Greater(t, c.Dimensions.Y, 0.0)
}

func TestBuild_PositionFromHeightTable(t *testing.T) {
	settings := model.DefaultSettings()
	heights := ResolveHeights([]model.InventoryRow{
		{Bin: "3E01A1", Height: model.Float(10)},
		{Bin: "3E01A2", Height: model.Float(10)},
	}, settings)
	b := NewBuilder(settings, heights)

	row := model.InventoryRow{Bin: "3E01A2", X: model.Float(7), Y: model.Float(12.5), Height: model.Float(10)}
	c, ok, _ := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)

	want, _ := heights.Offset("01", "A", 2)
	assert.InDelta(t, want, c.Position.Y, 1e-9)
	assert.InDelta(t, 12.5, c.Position.Z, 1e-9, "POS Y becomes scene depth")
	assert.GreaterOrEqual(t, c.Position.Y, settings.FloorOffsetFt())
}

func TestBuild_FallbackYWithoutHeightTable(t *testing.T) {
	settings := model.DefaultSettings()
	b := NewBuilder(settings, HeightTable{})

	row := model.InventoryRow{Bin: "3E01A3", X: model.Float(0), Y: model.Float(0)}
	c, ok, _ := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)

	want := settings.FloorOffsetFt() + 2*(settings.DefaultHeightFt()+settings.ShelfThicknessFt())
	assert.InDelta(t, want, c.Position.Y, 1e-9)
}

func TestBuild_Skips(t *testing.T) {
	b := NewBuilder(model.DefaultSettings(), HeightTable{})

	tests := []struct {
		name string
		row  model.InventoryRow
	}{
		{"special", model.InventoryRow{Bin: "3W22ENDCAP", X: model.Float(1), Y: model.Float(1)}},
		{"missing X", model.InventoryRow{Bin: "3E01A1", Y: model.Float(1)}},
		{"missing Y", model.InventoryRow{Bin: "3E01A1", X: model.Float(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := bincode.Parse(tt.row.Bin)
			_, ok, warning := b.Build(tt.row, code)
			assert.False(t, ok)
			assert.Empty(t, warning)
		})
	}

	invalid, _ := bincode.Parse("junk")
	_, ok, _ := b.Build(model.InventoryRow{Bin: "junk", X: model.Float(1), Y: model.Float(1)}, invalid)
	assert.False(t, ok)
}

func TestBuild_SlotOutsideRangeKeepsFullWidth(t *testing.T) {
	b := NewBuilder(model.DefaultSettings(), HeightTable{})

	row := model.InventoryRow{Bin: "3E01A1K", X: model.Float(2), Y: model.Float(0), Width: model.Float(24)}
	c, ok, warning := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)

	assert.InDelta(t, 2.0, c.Dimensions.X, 1e-9)
	assert.InDelta(t, 2.0, c.Position.X, 1e-9)
	assert.Contains(t, warning, "outside A-H")
}

func TestBuild_SlotBeyondConfiguredSlots(t *testing.T) {
	settings := model.DefaultSettings()
	settings.MaxSlotsPerSection = 4
	b := NewBuilder(settings, HeightTable{})

	row := model.InventoryRow{Bin: "3E01A1F", X: model.Float(0), Y: model.Float(0), Width: model.Float(24)}
	c, ok, warning := b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)
	assert.InDelta(t, 2.0, c.Dimensions.X, 1e-9)
	assert.Contains(t, warning, "exceeds 4 slots")

	row.Bin = "3E01A1D"
	c, ok, warning = b.Build(row, mustParse(t, row.Bin))
	require.True(t, ok)
	assert.Empty(t, warning)
	assert.InDelta(t, 0.5, c.Dimensions.X, 1e-9)
	assert.InDelta(t, 1.5, c.Position.X, 1e-9)
}

func TestBuild_IsDeterministic(t *testing.T) {
	b := NewBuilder(model.DefaultSettings(), HeightTable{})
	row := model.InventoryRow{Bin: "3E01B2E", X: model.Float(3.3), Y: model.Float(9.1), Width: model.Float(40)}

	first, _, _ := b.Build(row, mustParse(t, row.Bin))
	second, _, _ := b.Build(row, mustParse(t, row.Bin))
	assert.Equal(t, first, second)
}
