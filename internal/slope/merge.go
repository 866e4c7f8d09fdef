package slope

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
)

// Result is the merged segmentation of one profile
type Result struct {
	Segments []Segment `json:"segments"`

	// Incomplete is set when an unclassified piece could not be absorbed
	// by a neighbour and was dropped.
	Incomplete bool `json:"incomplete"`
}

// Faces returns the merged face segments in profile order
func (r Result) Faces() []Segment {
	var faces []Segment
	for _, seg := range r.Segments {
		if seg.Class == Face {
			faces = append(faces, seg)
		}
	}
	return faces
}

// Classify segments a simplified profile and merges it
func Classify(p profile.Profile, s criteria.Settings) Result {
	return Merge(Segments(p, s))
}

// Merge fuses adjacent segments of the same class and folds unclassified
// pieces into a neighbour:
//  1. Runs of the same class become one composite segment
//  2. Each unclassified composite joins a face neighbour (preceding first),
//     else a berm neighbour, when that keeps the neighbour's endpoint order
//  3. Pieces no neighbour can take are dropped and the result is flagged
//  4. Neighbours brought together by step 2 or 3 are fused again
func Merge(segs []Segment) Result {
	merged := mergeRuns(segs)

	var res Result
	out := make([]Segment, 0, len(merged))
	for i := 0; i < len(merged); i++ {
		seg := merged[i]
		if seg.Class != Unclassified {
			out = append(out, seg)
			continue
		}

		var prev, next *Segment
		if len(out) > 0 {
			prev = &out[len(out)-1]
		}
		if i+1 < len(merged) {
			next = &merged[i+1]
		}

		switch {
		case prev != nil && prev.Class == Face && canAbsorb(*prev, seg):
			*prev = join(*prev, seg, prev.Class)
		case next != nil && next.Class == Face && canAbsorb(*next, seg):
			*next = join(seg, *next, next.Class)
		case prev != nil && prev.Class == Berm && canAbsorb(*prev, seg):
			*prev = join(*prev, seg, prev.Class)
		case next != nil && next.Class == Berm && canAbsorb(*next, seg):
			*next = join(seg, *next, next.Class)
		default:
			res.Incomplete = true
		}
	}

	res.Segments = mergeRuns(out)
	return res
}

// mergeRuns fuses consecutive segments that share a class. Faces that
// climb and faces that descend are kept apart so a ridge or a trough never
// turns into a single face.
func mergeRuns(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if n := len(out); n > 0 && out[n-1].Class == seg.Class && canAbsorb(out[n-1], seg) {
			out[n-1] = join(out[n-1], seg, seg.Class)
			continue
		}
		out = append(out, seg)
	}
	return out
}

// canAbsorb reports whether adding u to n keeps n's endpoint order: the
// composite must run the same way along the section and, for a face, keep
// its higher end on the same side.
func canAbsorb(n, u Segment) bool {
	if sign(n.End.D-n.Start.D)*sign(u.End.D-u.Start.D) < 0 {
		return false
	}
	if n.Class == Face {
		return sign(n.Rise())*sign(u.Rise()) >= 0
	}
	return true
}

// join builds the composite of a followed by b. The angle is the average of
// the constituent angles weighted by horizontal run.
func join(a, b Segment, class Class) Segment {
	parts := make([]Segment, 0, len(a.Constituents())+len(b.Constituents()))
	parts = append(parts, a.Constituents()...)
	parts = append(parts, b.Constituents()...)
	return Segment{
		Start: a.Start,
		End:   b.End,
		Angle: RunWeightedAngle(parts),
		Class: class,
		Parts: parts,
	}
}

// RunWeightedAngle averages the angles of straight pieces weighted by their
// horizontal run. Purely vertical sets fall back to the plain mean.
func RunWeightedAngle(parts []Segment) float64 {
	angles := make([]float64, len(parts))
	runs := make([]float64, len(parts))
	for i, p := range parts {
		angles[i] = p.Angle
		runs[i] = p.Run()
	}
	if floats.Sum(runs) == 0 {
		return stat.Mean(angles, nil)
	}
	return stat.Mean(angles, runs)
}

// LengthWeightedAngle averages the angles of straight pieces weighted by
// their length in the section plane.
func LengthWeightedAngle(parts []Segment) float64 {
	angles := make([]float64, len(parts))
	lengths := make([]float64, len(parts))
	for i, p := range parts {
		angles[i] = p.Angle
		lengths[i] = p.Length()
	}
	if floats.Sum(lengths) == 0 {
		return stat.Mean(angles, nil)
	}
	return stat.Mean(angles, lengths)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
