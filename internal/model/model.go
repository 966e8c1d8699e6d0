package model

// Vec3 is a point or extent in scene space, in feet.
//
//	X: horizontal, positive = east
//	Y: vertical, 0 = floor, positive = up
//	Z: depth, positive = north (into the warehouse)
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the componentwise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Min returns the componentwise minimum.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{X: min(v.X, o.X), Y: min(v.Y, o.Y), Z: min(v.Z, o.Z)}
}

// Max returns the componentwise maximum.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{X: max(v.X, o.X), Y: max(v.Y, o.Y), Z: max(v.Z, o.Z)}
}

// Midpoint returns the point halfway between v and o.
func (v Vec3) Midpoint(o Vec3) Vec3 {
	return Vec3{X: (v.X + o.X) / 2, Y: (v.Y + o.Y) / 2, Z: (v.Z + o.Z) / 2}
}

// InventoryRow is one line of the inventory export. Numeric fields are nil
// when the cell is empty or unparseable; absent is never the same as zero.
type InventoryRow struct {
	Line     int    // 1-based source line or sheet row, for messages
	Building string // e.g. "BLDG 22"
	Bay      string // e.g. "3E"
	Bin      string // Storage bin code as written in the source

	X *float64 // POS X, feet
	Y *float64 // POS Y, feet (becomes scene depth)

	Width  *float64 // inches
	Height *float64 // inches
	Depth  *float64 // inches

	// Pre-parsed structural columns, present in some export variants.
	// Only used to cross-check the decoded bin code.
	Row     string
	Section string
	Level   string
}

// HasPosition reports whether both position inputs are present.
func (r InventoryRow) HasPosition() bool {
	return r.X != nil && r.Y != nil
}

// Float returns a pointer to v, for building rows in code.
func Float(v float64) *float64 {
	return &v
}

// Container is one positioned storage bin in the scene.
type Container struct {
	ID         string `json:"id"`
	Row        string `json:"row"`
	Section    string `json:"section"`
	Level      int    `json:"level"`
	Slot       string `json:"slot,omitempty"`
	Position   Vec3   `json:"position"`   // feet, lower-left-front corner
	Dimensions Vec3   `json:"dimensions"` // feet: X width, Y height, Z depth
}

// Max returns the far corner of the container's occupied space.
func (c Container) Max() Vec3 {
	return c.Position.Add(c.Dimensions)
}

// Rack is the bounding volume of every container in one rack row.
type Rack struct {
	ID             string   `json:"id"`
	Row            string   `json:"row"`
	Sections       []string `json:"sections"`
	MaxLevel       int      `json:"max_level"`
	ContainerCount int      `json:"container_count"`
	BoundsMin      Vec3     `json:"bounds_min"`
	BoundsMax      Vec3     `json:"bounds_max"`
}

// Center returns the midpoint of the rack bounds.
func (r Rack) Center() Vec3 {
	return r.BoundsMin.Midpoint(r.BoundsMax)
}

// Size returns the extent of the rack bounds.
func (r Rack) Size() Vec3 {
	return Vec3{
		X: r.BoundsMax.X - r.BoundsMin.X,
		Y: r.BoundsMax.Y - r.BoundsMin.Y,
		Z: r.BoundsMax.Z - r.BoundsMin.Z,
	}
}

// BayReport is the outcome of processing one (building, bay) pair.
// A report with errors carries no containers or racks.
type BayReport struct {
	Building   string
	Bay        string
	Containers []Container
	Racks      []Rack
	Errors     []string
	Warnings   []string
}

// OK reports whether the bay was processed without fatal errors.
func (b BayReport) OK() bool {
	return len(b.Errors) == 0
}

// UnknownBay is the building and bay name used for a report that describes
// a failure before any bay could be identified.
const UnknownBay = "UNKNOWN"

// Settings holds the geometry constants used to turn inventory rows into
// containers. Lengths are in inches unless the name says otherwise.
type Settings struct {
	ShelfThicknessInches    float64 `json:"shelf_thickness_inches" yaml:"shelf_thickness_inches"`         // Beam between levels
	Level1FloorOffsetInches float64 `json:"level_1_floor_offset_inches" yaml:"level_1_floor_offset_inches"` // Floor to bottom of level 1
	DefaultWidthInches      float64 `json:"default_width_inches" yaml:"default_width_inches"`
	DefaultHeightInches     float64 `json:"default_height_inches" yaml:"default_height_inches"`
	DefaultDepthInches      float64 `json:"default_depth_inches" yaml:"default_depth_inches"`
	MaxSlotsPerSection      int     `json:"max_slots_per_section" yaml:"max_slots_per_section"` // Slots A..H subdivide a section left to right
}

// InchesPerFoot converts the inch-based settings into scene feet.
const InchesPerFoot = 12.0

func DefaultSettings() Settings {
	return Settings{
		ShelfThicknessInches:    3.0,
		Level1FloorOffsetInches: 2.0,
		DefaultWidthInches:      36.0,
		DefaultHeightInches:     11.0,
		DefaultDepthInches:      18.0,
		MaxSlotsPerSection:      8,
	}
}

// ShelfThicknessFt returns the shelf thickness in feet.
func (s Settings) ShelfThicknessFt() float64 {
	return s.ShelfThicknessInches / InchesPerFoot
}

// FloorOffsetFt returns the height of level 1 above the floor in feet.
func (s Settings) FloorOffsetFt() float64 {
	return s.Level1FloorOffsetInches / InchesPerFoot
}

// DefaultHeightFt returns the default level height in feet.
func (s Settings) DefaultHeightFt() float64 {
	return s.DefaultHeightInches / InchesPerFoot
}
