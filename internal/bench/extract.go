package bench

import (
	"cmp"
	"slices"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
	"github.com/alexiusacademia/gorecon/internal/slope"
)

// Extract reads the benches of one surface profile.
//
// Pipeline:
//  1. Simplify the profile (RDP, RDPEpsilon)
//  2. Classify and merge segments into faces and berms
//  3. Each merged face becomes a bench; the higher end is the crest
//  4. Number benches from the highest crest down
//  5. Measure berms, flag ramps and compute aggregate angles
//
// Profiles with fewer than two points, or without faces, give a result with
// no benches and nil aggregates. Data anomalies never produce an error.
func Extract(sectionName, sector string, p profile.Profile, s criteria.Settings) ExtractionResult {
	result := ExtractionResult{Section: sectionName, Sector: sector}
	if p.Len() < 2 {
		return result
	}

	simplified := profile.Simplify(p, s.RDPEpsilon)
	result.Simplified = simplified.Points()

	seg := slope.Classify(simplified, s)
	result.Incomplete = seg.Incomplete

	for _, face := range seg.Faces() {
		b, ok := benchFromFace(face, s)
		if !ok {
			continue
		}
		result.Benches = append(result.Benches, b)
	}

	SortBenches(result.Benches)
	for i := range result.Benches {
		result.Benches[i].BenchNumber = i + 1
	}

	deriveBerms(result.Benches, s)
	result.InterRampAngle, result.OverallAngle, result.InterRampGroups = Aggregate(result.Benches)
	return result
}

// benchFromFace turns a merged face into a bench. Faces below the height or
// length filters yield nothing.
func benchFromFace(face slope.Segment, s criteria.Settings) (BenchParams, bool) {
	crest, toe := face.Start, face.End
	if toe.Z > crest.Z {
		crest, toe = toe, crest
	}

	height := crest.Z - toe.Z
	if height < s.MinBenchHeight {
		return BenchParams{}, false
	}
	if face.Length() < s.MinFaceLength {
		return BenchParams{}, false
	}

	return BenchParams{
		CrestElevation: crest.Z,
		CrestDistance:  crest.D,
		ToeElevation:   toe.Z,
		ToeDistance:    toe.D,
		BenchHeight:    height,
		FaceAngle:      faceAngle(face),
	}, true
}

// faceAngle is the length-weighted angle of the steep pieces of a face.
// Pieces absorbed from transitions only count when nothing else is left.
func faceAngle(face slope.Segment) float64 {
	var steep []slope.Segment
	for _, part := range face.Constituents() {
		if part.Class == slope.Face {
			steep = append(steep, part)
		}
	}
	if len(steep) == 0 {
		steep = face.Constituents()
	}
	return slope.LengthWeightedAngle(steep)
}

// SortBenches orders benches top-down: crest elevation descending, then
// crest distance, then toe elevation descending. The order is total, so
// numbering never depends on input order.
func SortBenches(benches []BenchParams) {
	slices.SortStableFunc(benches, func(a, b BenchParams) int {
		if c := cmp.Compare(b.CrestElevation, a.CrestElevation); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CrestDistance, b.CrestDistance); c != 0 {
			return c
		}
		return cmp.Compare(b.ToeElevation, a.ToeElevation)
	})
}
