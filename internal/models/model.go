// Package models defines the shared value types of the coordinate
// registration pipeline: species model descriptions, axis tables and
// landmark correspondence tables. All types are built once by the loaders
// in pkg/model and treated as read-only afterwards.
package models

import (
	"fmt"
)

// AxisKind identifies which spherical coordinate axis a table or a
// correspondence refers to.
type AxisKind int

const (
	Longitude AxisKind = iota
	Latitude
)

// String returns the lower-case axis name used in messages and file sections.
func (k AxisKind) String() string {
	switch k {
	case Longitude:
		return "longitude"
	case Latitude:
		return "latitude"
	default:
		return fmt.Sprintf("axiskind(%d)", int(k))
	}
}

// Side identifies a hemisphere side. The value is the single-letter prefix
// used in the model and texture file names ("L" or "R").
type Side string

const (
	LeftHemisphere  Side = "L"
	RightHemisphere Side = "R"
)

// RectangleDimensions holds the physical extent of a species'
// flattened-rectangle parameterization, one per species per hemisphere side.
type RectangleDimensions struct {
	// LengthLongitude is the rectangle extent along the longitude axis.
	LengthLongitude float64 `yaml:"longitudeLength"`

	// LengthLatitude is the rectangle extent along the latitude axis.
	LengthLatitude float64 `yaml:"latitudeLength"`
}

// Axis is one cortical axis of the rectangle parameterization: a stable
// identifier, its rectangle coordinate, and the names of the sulci that
// run along it.
type Axis struct {
	// ID is the stable axis identifier shared with the landmark list.
	ID string `yaml:"id"`

	// Coordinate is the axis position in rectangle coordinates.
	Coordinate float64 `yaml:"coordinate"`

	// Sulci are the anatomical sulcus names associated with this axis.
	Sulci []string `yaml:"sulci,omitempty"`
}

// Landmark is one entry of a species' ordered sulcus list for one axis kind.
// Correspondence tables refer to landmarks by their position in this list.
// The first axis ID is the representative axis used for anchor resolution.
type Landmark struct {
	// Name is the anatomical sulcus name.
	Name string `yaml:"name"`

	// AxisIDs are the axes this landmark runs along, representative first.
	AxisIDs []string `yaml:"axes"`
}

// AxisTable is the read-only lookup structure for one species and one axis
// kind: the ordered rectangle coordinates plus the index mapping from axis
// identifier to its position in that ordering.
type AxisTable struct {
	// Kind is the axis kind this table describes.
	Kind AxisKind

	// IDs holds the axis identifiers in declaration order.
	IDs []string

	// Coordinates holds the rectangle coordinate of each axis, aligned
	// with IDs.
	Coordinates []float64

	// Positions maps an axis identifier to its index into Coordinates.
	Positions map[string]int

	// Landmarks is the ordered sulcus list correspondence indices point
	// into.
	Landmarks []Landmark
}

// RepresentativeAxis resolves a landmark index to the position of its
// representative axis in the table ordering. The boolean reports whether
// both the landmark index and its representative axis identifier resolve.
func (t *AxisTable) RepresentativeAxis(landmark int) (int, bool) {
	if landmark < 0 || landmark >= len(t.Landmarks) {
		return 0, false
	}
	lm := t.Landmarks[landmark]
	if len(lm.AxisIDs) == 0 {
		return 0, false
	}
	pos, ok := t.Positions[lm.AxisIDs[0]]
	return pos, ok
}

// Model is the full description of one species' hemisphere parameterization
// as loaded from a model file. Loaded once per run and never mutated.
type Model struct {
	// Species is the species name the model belongs to.
	Species string

	// Side is the hemisphere side the model describes.
	Side Side

	// Dimensions is the rectangle extent of the parameterization.
	Dimensions RectangleDimensions

	// LatitudeBand is the [min,max] non-polar latitude band on the
	// sphere; rectangle latitudes at or outside it are polar caps.
	LatitudeBand [2]float64

	// LongitudeAxes and LatitudeAxes are the per-kind axis tables.
	LongitudeAxes *AxisTable
	LatitudeAxes  *AxisTable
}

// Axes returns the axis table for the requested kind.
func (m *Model) Axes(kind AxisKind) *AxisTable {
	if kind == Longitude {
		return m.LongitudeAxes
	}
	return m.LatitudeAxes
}

// Correspondence holds, for one axis kind, the two parallel landmark index
// sequences driving the warp: entry k states that landmark Species1[k] of
// species 1 corresponds to landmark Species2[k] of species 2. The sequences
// are kept separate, as in the table files, so length consistency can be
// checked rather than assumed.
type Correspondence struct {
	Species1 []int
	Species2 []int
}

// CorrespondenceTable holds the landmark correspondences for both axis
// kinds.
type CorrespondenceTable struct {
	Longitude Correspondence
	Latitude  Correspondence
}

// ByKind returns the correspondence for the requested axis kind.
func (c *CorrespondenceTable) ByKind(kind AxisKind) Correspondence {
	if kind == Longitude {
		return c.Longitude
	}
	return c.Latitude
}

// SphereCoordinateSet holds, for one species, the sphere coordinate of every
// rectangle axis, in the same order as the source AxisTable coordinates.
type SphereCoordinateSet struct {
	// Longitudes are the axis longitudes on the sphere, in [0,360).
	Longitudes []float64

	// Latitudes are the axis latitudes on the sphere; polar-cap values
	// carry through unchanged from the rectangle.
	Latitudes []float64
}

// Coordinates returns the coordinate sequence for the requested axis kind.
func (s *SphereCoordinateSet) Coordinates(kind AxisKind) []float64 {
	if kind == Longitude {
		return s.Longitudes
	}
	return s.Latitudes
}
