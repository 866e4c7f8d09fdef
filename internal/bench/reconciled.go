package bench

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
	"github.com/alexiusacademia/gorecon/internal/slope"
)

// BuildProfile reconstructs the idealized polyline of a bench list: benches
// sorted by crest distance (higher crest first on ties), each emitting its
// crest then its toe.
func BuildProfile(benches []BenchParams) []profile.Point {
	sorted := append([]BenchParams(nil), benches...)
	slices.SortStableFunc(sorted, func(a, b BenchParams) int {
		if c := cmp.Compare(a.CrestDistance, b.CrestDistance); c != 0 {
			return c
		}
		return cmp.Compare(b.CrestElevation, a.CrestElevation)
	})

	pts := make([]profile.Point, 0, 2*len(sorted))
	for _, b := range sorted {
		pts = append(pts, b.Crest(), b.Toe())
	}
	return pts
}

// Edit moves the crest and/or toe of one bench
type Edit struct {
	BenchNumber int            `json:"bench_number"`
	Crest       *profile.Point `json:"crest,omitempty"`
	Toe         *profile.Point `json:"toe,omitempty"`
}

// ApplyEdit applies a manual correction to one bench and returns the new
// result together with the numbers of the benches whose values changed.
//
// Only the edited bench (height, face angle, berm) and the bench above it
// (berm) are re-derived. Every other bench is copied as is, and aggregate
// angles are left untouched with Stale set until Refresh is called.
// The input result is not modified.
func ApplyEdit(r ExtractionResult, e Edit, s criteria.Settings) (ExtractionResult, []int, error) {
	if e.Crest == nil && e.Toe == nil {
		return r, nil, fmt.Errorf("%w: bench %d: no coordinates given", ErrInvalidEdit, e.BenchNumber)
	}
	idx, ok := r.Find(e.BenchNumber)
	if !ok {
		return r, nil, fmt.Errorf("%w: %d in section %s", ErrBenchNotFound, e.BenchNumber, r.Section)
	}

	b := r.Benches[idx]
	if e.Crest != nil {
		b.CrestDistance, b.CrestElevation = e.Crest.D, e.Crest.Z
	}
	if e.Toe != nil {
		b.ToeDistance, b.ToeElevation = e.Toe.D, e.Toe.Z
	}
	if b.CrestElevation < b.ToeElevation {
		return r, nil, fmt.Errorf("%w: bench %d: crest %.2f below toe %.2f", ErrInvalidEdit, e.BenchNumber, b.CrestElevation, b.ToeElevation)
	}
	b.BenchHeight = b.CrestElevation - b.ToeElevation
	b.FaceAngle = slope.Angle(b.Crest(), b.Toe())

	out := r
	out.Benches = append([]BenchParams(nil), r.Benches...)
	out.Benches[idx] = b
	out.Stale = true

	var touched []int
	if idx > 0 {
		deriveBerm(&out.Benches[idx-1], out.Benches[idx], s)
		touched = append(touched, out.Benches[idx-1].BenchNumber)
	}
	if idx+1 < len(out.Benches) {
		deriveBerm(&out.Benches[idx], out.Benches[idx+1], s)
	} else {
		clearBerm(&out.Benches[idx])
	}
	touched = append(touched, out.Benches[idx].BenchNumber)

	return out, touched, nil
}

// Refresh re-derives every berm, ramp flag and aggregate angle of a result,
// keeping bench numbers, and clears Stale.
func Refresh(r ExtractionResult, s criteria.Settings) ExtractionResult {
	out := r
	out.Benches = append([]BenchParams(nil), r.Benches...)
	deriveBerms(out.Benches, s)
	out.InterRampAngle, out.OverallAngle, out.InterRampGroups = Aggregate(out.Benches)
	out.Stale = false
	return out
}
