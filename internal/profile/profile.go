package profile

import (
	"cmp"
	"math"
	"slices"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/section"
)

// Point is a profile vertex in section coordinates (m)
type Point struct {
	D float64 `json:"d"` // distance along the section
	Z float64 `json:"z"` // elevation
}

// Profile is an elevation profile ordered by distance.
// It is built once and never modified afterwards; accessors return copies.
type Profile struct {
	points []Point
}

// New builds a profile from arbitrary points: they are sorted by distance
// (higher elevation first on equal distance) and consecutive points closer
// than dedup are merged into the first of them.
func New(points []Point, dedup float64) Profile {
	pts := append([]Point(nil), points...)
	slices.SortStableFunc(pts, comparePoints)
	return Profile{points: dedupe(pts, dedup)}
}

// FromOrdered wraps points that are already in profile order without
// re-sorting them. Used for simplified sequences.
func FromOrdered(points []Point) Profile {
	return Profile{points: append([]Point(nil), points...)}
}

// FromSegments projects the intersection of a surface with a section line
// into a profile, following the settings:
//  1. Drop pieces shorter than MinSegmentLength
//  2. Project endpoints to (distance, elevation), keep those inside the line extent
//  3. Sort by distance, merge points closer than DedupDistance
//  4. Resample at Resolution when positive
func FromSegments(line section.Line, segs []section.Segment3D, s criteria.Settings) Profile {
	pts := make([]Point, 0, 2*len(segs))
	for _, seg := range segs {
		if seg.Length3D() < s.MinSegmentLength {
			continue
		}
		for _, p := range []section.Point3{seg.A, seg.B} {
			d, z := line.Project(p)
			if !line.InRange(d) {
				continue
			}
			pts = append(pts, Point{D: d, Z: z})
		}
	}

	p := New(pts, s.DedupDistance)
	if s.Resolution > 0 {
		p = p.Resample(s.Resolution)
	}
	return p
}

// Len returns the number of vertices
func (p Profile) Len() int {
	return len(p.points)
}

// At returns the i-th vertex
func (p Profile) At(i int) Point {
	return p.points[i]
}

// Points returns a copy of the vertices
func (p Profile) Points() []Point {
	return append([]Point(nil), p.points...)
}

// Resample interpolates the profile at a uniform distance step.
// Both endpoints are kept; vertical steps collapse to the sample spacing.
func (p Profile) Resample(step float64) Profile {
	n := len(p.points)
	if n < 2 || step <= 0 {
		return p
	}
	first, last := p.points[0], p.points[n-1]
	if last.D-first.D <= step {
		return p
	}

	out := []Point{first}
	j := 0
	for k := 1; ; k++ {
		d := first.D + float64(k)*step
		if d >= last.D {
			break
		}
		for j+1 < n-1 && p.points[j+1].D < d {
			j++
		}
		out = append(out, Point{D: d, Z: interpolate(p.points[j], p.points[j+1], d)})
	}
	out = append(out, last)
	return Profile{points: out}
}

func interpolate(a, b Point, d float64) float64 {
	span := b.D - a.D
	if span <= 0 {
		return b.Z
	}
	t := (d - a.D) / span
	return a.Z + t*(b.Z-a.Z)
}

func comparePoints(a, b Point) int {
	if c := cmp.Compare(a.D, b.D); c != 0 {
		return c
	}
	return cmp.Compare(b.Z, a.Z)
}

func dedupe(pts []Point, dedup float64) []Point {
	if len(pts) < 2 || dedup <= 0 {
		return pts
	}
	out := pts[:1]
	for _, pt := range pts[1:] {
		prev := out[len(out)-1]
		if math.Hypot(pt.D-prev.D, pt.Z-prev.Z) < dedup {
			continue
		}
		out = append(out, pt)
	}
	return out
}
