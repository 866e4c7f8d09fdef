package bench

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/gorecon/internal/criteria"
)

// deriveBerms measures the berm below every bench. The last bench has none.
func deriveBerms(benches []BenchParams, s criteria.Settings) {
	for i := range benches {
		if i+1 < len(benches) {
			deriveBerm(&benches[i], benches[i+1], s)
		} else {
			clearBerm(&benches[i])
		}
	}
}

// deriveBerm sets the berm of upper from the gap to the crest of lower.
// The width is measured along the distance axis only. Widths beyond
// MaxBermWidth are discarded and flagged; the bench itself is kept.
func deriveBerm(upper *BenchParams, lower BenchParams, s criteria.Settings) {
	clearBerm(upper)

	width := math.Abs(lower.CrestDistance - upper.ToeDistance)
	if width > s.MaxBermWidth {
		upper.UnreliableBerm = true
		return
	}
	upper.BermWidth = ptr(width)

	if s.RampWidthRange.Contains(width) {
		upper.IsRamp = true
		if width > 0 {
			upper.RampGradient = ptr(math.Abs(upper.ToeElevation-lower.CrestElevation) / width * 100)
		}
	}
}

func clearBerm(b *BenchParams) {
	b.BermWidth = nil
	b.UnreliableBerm = false
	b.IsRamp = false
	b.RampGradient = nil
}

// Aggregate computes the inter-ramp and overall angles of a top-down bench list.
//
// Benches are chained through their berms; a discarded berm breaks the
// chain. The overall angle spans the longest chain (topmost on ties). Ramp
// berms further split chains into inter-ramp groups; the headline
// inter-ramp angle is that of the largest group (topmost on ties). Each
// angle is atan(cumulative height / cumulative run). Fewer than two
// benches in a chain or group leaves the angle undefined.
func Aggregate(benches []BenchParams) (interRamp, overall *float64, groups []RampGroup) {
	var best *RampGroup
	for _, chain := range split(benches, func(b BenchParams) bool { return b.BermWidth == nil }) {
		if len(chain) < 2 {
			continue
		}
		g := measure(chain)
		if best == nil || g.Benches() > best.Benches() {
			best = &g
		}
	}
	if best != nil {
		overall = ptr(best.Angle)
	}

	var widest *RampGroup
	for _, group := range split(benches, func(b BenchParams) bool { return b.BermWidth == nil || b.IsRamp }) {
		if len(group) < 2 {
			continue
		}
		g := measure(group)
		groups = append(groups, g)
	}
	for i := range groups {
		if widest == nil || groups[i].Benches() > widest.Benches() {
			widest = &groups[i]
		}
	}
	if widest != nil {
		interRamp = ptr(widest.Angle)
	}
	return interRamp, overall, groups
}

// split cuts the bench list after every bench for which brk holds
func split(benches []BenchParams, brk func(BenchParams) bool) [][]BenchParams {
	var out [][]BenchParams
	start := 0
	for i, b := range benches {
		if brk(b) || i == len(benches)-1 {
			out = append(out, benches[start:i+1])
			start = i + 1
		}
	}
	return out
}

// measure sums heights and runs across a connected run of benches
func measure(run []BenchParams) RampGroup {
	heights := make([]float64, 0, 2*len(run))
	runs := make([]float64, 0, 2*len(run))
	for i, b := range run {
		heights = append(heights, b.BenchHeight)
		runs = append(runs, b.FaceRun())
		if i+1 < len(run) {
			w, _ := b.Berm()
			runs = append(runs, w)
			heights = append(heights, b.ToeElevation-run[i+1].CrestElevation)
		}
	}

	h := floats.Sum(heights)
	r := floats.Sum(runs)
	return RampGroup{
		FirstBench: run[0].BenchNumber,
		LastBench:  run[len(run)-1].BenchNumber,
		Count:      len(run),
		Height:     h,
		Run:        r,
		Angle:      math.Atan2(math.Abs(h), r) * 180 / math.Pi,
	}
}
