package section

import "math"

// Direction returns the horizontal unit vector of the section (east, north).
// Azimuth 0 points north, 90 points east.
func (l Line) Direction() (dx, dy float64) {
	rad := NormalizeAzimuth(l.Azimuth) * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// NormalizeAzimuth folds an azimuth into [0, 360)
func NormalizeAzimuth(az float64) float64 {
	az = math.Mod(az, 360)
	if az < 0 {
		az += 360
	}
	return az
}

// Project maps a 3D point onto the section plane as (distance, elevation).
// The distance is the horizontal offset from Origin along the direction;
// the cross-section offset is discarded.
func (l Line) Project(p Point3) (distance, elevation float64) {
	dx, dy := l.Direction()
	return (p.X-l.Origin.X)*dx + (p.Y-l.Origin.Y)*dy, p.Z
}

// PointAt maps a (distance, elevation) pair back to mine coordinates
func (l Line) PointAt(distance, elevation float64) Point3 {
	dx, dy := l.Direction()
	return Point3{
		X: l.Origin.X + distance*dx,
		Y: l.Origin.Y + distance*dy,
		Z: elevation,
	}
}

// InRange reports whether a distance lies within the section extent
func (l Line) InRange(distance float64) bool {
	if l.Length <= 0 {
		return true
	}
	return distance >= 0 && distance <= l.Length
}

// Length3D returns the Euclidean length of the segment
func (s Segment3D) Length3D() float64 {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y
	dz := s.B.Z - s.A.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
