package profile

import (
	"math"

	"github.com/paulmach/orb"
)

// Simplify reduces the profile with Ramer-Douglas-Peucker.
// A vertex survives when its perpendicular distance to the line through the
// span's endpoints exceeds epsilon; the farthest vertex splits the span, ties
// resolved to the lowest index. Endpoints are always kept and the result is a
// subsequence of the input, so simplifying twice changes nothing.
// Profiles with fewer than three vertices are returned unchanged.
func Simplify(p Profile, epsilon float64) Profile {
	if len(p.points) < 3 {
		return p
	}

	ls := make(orb.LineString, len(p.points))
	for i, pt := range p.points {
		ls[i] = orb.Point{pt.D, pt.Z}
	}

	keep := make([]bool, len(ls))
	keep[0], keep[len(ls)-1] = true, true
	douglasPeucker(ls, 0, len(ls)-1, epsilon, keep)

	out := make([]Point, 0, len(ls))
	for i, op := range ls {
		if keep[i] {
			out = append(out, Point{D: op.X(), Z: op.Y()})
		}
	}
	return Profile{points: out}
}

func douglasPeucker(ls orb.LineString, lo, hi int, epsilon float64, keep []bool) {
	if hi-lo < 2 {
		return
	}

	split, farthest := -1, 0.0
	for i := lo + 1; i < hi; i++ {
		if d := lineDistance(ls[lo], ls[hi], ls[i]); d > farthest {
			split, farthest = i, d
		}
	}
	if split < 0 || farthest <= epsilon {
		return
	}

	keep[split] = true
	douglasPeucker(ls, lo, split, epsilon, keep)
	douglasPeucker(ls, split, hi, epsilon, keep)
}

// lineDistance is the distance from p to the infinite line through a and b,
// or to a itself when a and b coincide.
func lineDistance(a, b, p orb.Point) float64 {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(p.X()-a.X(), p.Y()-a.Y())
	}
	return math.Abs(dx*(p.Y()-a.Y())-dy*(p.X()-a.X())) / length
}
