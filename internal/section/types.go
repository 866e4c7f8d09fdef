package section

import (
	"errors"
	"fmt"
)

// ErrNoSections is returned when an input file defines no section lines.
var ErrNoSections = errors.New("section: no sections defined")

// Line is a vertical cutting plane through both surfaces.
// The plane passes through Origin and runs horizontally along the azimuth:
// - Azimuth is measured in degrees clockwise from north (+Y)
// - Distances along the section are measured from Origin
// - Length limits the profile to [0, Length]; zero means unbounded
type Line struct {
	Name    string  `json:"name"`
	Sector  string  `json:"sector,omitempty"`
	Origin  Point3  `json:"origin"`
	Azimuth float64 `json:"azimuth"`
	Length  float64 `json:"length,omitempty"`
}

// Point3 is a point in mine coordinates (m)
type Point3 struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
	Z float64 `json:"z"` // elevation
}

// Segment3D is one piece of a plane-surface intersection
type Segment3D struct {
	A Point3 `json:"a"`
	B Point3 `json:"b"`
}

// Surface identifies which of the two compared surfaces a profile belongs to
type Surface string

const (
	SurfaceDesign  Surface = "design"
	SurfaceAsBuilt Surface = "as_built"
)

// Validate checks if the section line definition is valid
func (l Line) Validate() error {
	if l.Name == "" {
		return &ValidationError{"section name is required"}
	}
	if l.Length < 0 {
		return &ValidationError{msg: fmt.Sprintf("section %s: length must not be negative", l.Name)}
	}
	if l.Azimuth < -360 || l.Azimuth > 720 {
		return &ValidationError{msg: fmt.Sprintf("section %s: azimuth %.2f out of range", l.Name, l.Azimuth)}
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
