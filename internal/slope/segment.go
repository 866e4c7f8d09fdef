package slope

import (
	"math"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
)

// Class is the slope type of a segment
type Class int

const (
	Unclassified Class = iota
	Face
	Berm
)

func (c Class) String() string {
	switch c {
	case Face:
		return "FACE"
	case Berm:
		return "BERM"
	default:
		return "UNCLASSIFIED"
	}
}

// MarshalText encodes the class by name
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Segment is a straight or composite piece of a profile.
// A composite segment spans from the start of its first part to the end of
// its last part; Parts is nil for a single straight piece.
type Segment struct {
	Start profile.Point `json:"start"`
	End   profile.Point `json:"end"`
	Angle float64       `json:"angle"` // degrees from horizontal, in [0, 90]
	Class Class         `json:"class"`
	Parts []Segment     `json:"parts,omitempty"`
}

// Angle returns the inclination of the chord a-b in degrees, ignoring the
// direction of travel.
func Angle(a, b profile.Point) float64 {
	return math.Atan2(math.Abs(b.Z-a.Z), math.Abs(b.D-a.D)) * 180 / math.Pi
}

// ClassOf classifies an angle. Both thresholds are inclusive.
func ClassOf(angle float64, s criteria.Settings) Class {
	switch {
	case angle >= s.FaceThreshold:
		return Face
	case angle <= s.BermThreshold:
		return Berm
	default:
		return Unclassified
	}
}

// NewSegment builds a classified straight segment
func NewSegment(a, b profile.Point, s criteria.Settings) Segment {
	ang := Angle(a, b)
	return Segment{Start: a, End: b, Angle: ang, Class: ClassOf(ang, s)}
}

// Run is the horizontal extent of the segment
func (s Segment) Run() float64 {
	return math.Abs(s.End.D - s.Start.D)
}

// Rise is the signed elevation change from start to end
func (s Segment) Rise() float64 {
	return s.End.Z - s.Start.Z
}

// Length is the chord length in the section plane
func (s Segment) Length() float64 {
	return math.Hypot(s.End.D-s.Start.D, s.End.Z-s.Start.Z)
}

// Constituents returns the straight pieces the segment is made of
func (s Segment) Constituents() []Segment {
	if len(s.Parts) == 0 {
		return []Segment{s}
	}
	return s.Parts
}

// Segments cuts a simplified profile into consecutive classified segments.
// Zero-length pieces are skipped.
func Segments(p profile.Profile, s criteria.Settings) []Segment {
	if p.Len() < 2 {
		return nil
	}
	segs := make([]Segment, 0, p.Len()-1)
	for i := 0; i+1 < p.Len(); i++ {
		a, b := p.At(i), p.At(i+1)
		if a == b {
			continue
		}
		segs = append(segs, NewSegment(a, b, s))
	}
	return segs
}
