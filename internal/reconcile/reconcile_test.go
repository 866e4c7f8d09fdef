package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
)

func f(v float64) *float64 { return &v }

// wall returns a 15 m bench cut with 5 m face runs at each crest elevation,
// berms of 9 m between consecutive benches.
func wall(section string, crests ...float64) bench.ExtractionResult {
	r := bench.ExtractionResult{Section: section}
	d := 0.0
	for i, z := range crests {
		b := bench.BenchParams{
			BenchNumber:    i + 1,
			CrestElevation: z,
			CrestDistance:  d,
			ToeElevation:   z - 15,
			ToeDistance:    d + 5,
			BenchHeight:    15,
			FaceAngle:      71.57,
		}
		if i+1 < len(crests) {
			b.BermWidth = f(9)
		}
		r.Benches = append(r.Benches, b)
		d += 14
	}
	return r
}

func outcomes(c reconcile.SectionComparison) []reconcile.Outcome {
	var out []reconcile.Outcome
	for _, r := range c.Records {
		out = append(out, r.Outcome)
	}
	return out
}

func TestReconcileAllMatch(t *testing.T) {
	s := criteria.DefaultSettings()
	tol := criteria.DefaultTolerances()
	design := wall("S-01", 100, 85, 70)
	asBuilt := wall("S-01", 100.5, 85.5, 70.5)
	asBuilt.Benches[1].BenchHeight = 16.5

	c, err := reconcile.Reconcile(design, asBuilt, s, tol)
	require.NoError(t, err)
	require.Len(t, c.Records, 3)
	assert.Equal(t, []reconcile.Outcome{reconcile.OutcomeMatch, reconcile.OutcomeMatch, reconcile.OutcomeMatch}, outcomes(c))

	top := c.Records[0]
	assert.Equal(t, 100.0, top.Level())
	require.NotNil(t, top.ElevationDiff)
	assert.InDelta(t, 0.5, *top.ElevationDiff, 1e-9)
	assert.InDelta(t, 0, *top.DeltaCrest, 1e-9)
	assert.Empty(t, top.Label)

	mid := c.Records[1]
	require.NotNil(t, mid.Height)
	assert.InDelta(t, 1.5, mid.Height.Deviation, 1e-9)
	assert.Equal(t, criteria.StatusComplies, mid.Height.Status)
	require.NotNil(t, mid.BermWidth)
	assert.Equal(t, criteria.StatusComplies, mid.BermWidth.Status)
	assert.Nil(t, mid.RampWidth)

	assert.Nil(t, c.Records[2].BermWidth, "last bench has no berm")
	assert.Equal(t, criteria.StatusComplies, c.Status())
}

func TestReconcileMissingTopBench(t *testing.T) {
	c, err := reconcile.Reconcile(wall("S-01", 100, 85, 70), wall("S-01", 85, 70), criteria.DefaultSettings(), criteria.DefaultTolerances())
	require.NoError(t, err)

	assert.Equal(t, []reconcile.Outcome{reconcile.OutcomeMissing, reconcile.OutcomeMatch, reconcile.OutcomeMatch}, outcomes(c))
	missing := c.Records[0]
	assert.Equal(t, reconcile.LabelMissing, missing.Label)
	assert.Nil(t, missing.AsBuilt)
	assert.Equal(t, 1, missing.Design.BenchNumber)
	assert.Equal(t, criteria.StatusNonCompliant, missing.Status())
	assert.Equal(t, criteria.StatusNonCompliant, c.Status())

	// as-built numbering is its own
	assert.Equal(t, 1, c.Records[1].AsBuilt.BenchNumber)
	assert.Equal(t, 2, c.Records[1].Design.BenchNumber)
}

func TestReconcileExtraBench(t *testing.T) {
	c, err := reconcile.Reconcile(wall("S-01", 100, 85, 70), wall("S-01", 100, 85, 70, 55), criteria.DefaultSettings(), criteria.DefaultTolerances())
	require.NoError(t, err)

	require.Len(t, c.Records, 4)
	extra := c.Records[3]
	assert.Equal(t, reconcile.OutcomeExtra, extra.Outcome)
	assert.Equal(t, reconcile.LabelExtra, extra.Label)
	assert.Equal(t, 55.0, extra.Level())
	assert.Nil(t, extra.Design)
	assert.Empty(t, extra.Evaluations())

	sum := c.Summary()
	assert.Equal(t, 3, sum.Matches)
	assert.Equal(t, 1, sum.Extra)
	assert.Equal(t, 0, sum.Missing)
}

// TestReconcileThresholdStrict: a difference equal to the threshold releases the pair.
func TestReconcileThresholdStrict(t *testing.T) {
	s := criteria.DefaultSettings()
	tol := criteria.DefaultTolerances()

	c, err := reconcile.Reconcile(wall("S-01", 100), wall("S-01", 92), s, tol)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Outcome{reconcile.OutcomeMissing, reconcile.OutcomeExtra}, outcomes(c))

	c, err = reconcile.Reconcile(wall("S-01", 100), wall("S-01", 92.01), s, tol)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Outcome{reconcile.OutcomeMatch}, outcomes(c))
}

func TestReconcileEmptySides(t *testing.T) {
	s := criteria.DefaultSettings()
	tol := criteria.DefaultTolerances()

	c, err := reconcile.Reconcile(wall("S-01", 100, 85), wall("S-01"), s, tol)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.Outcome{reconcile.OutcomeMissing, reconcile.OutcomeMissing}, outcomes(c))

	c, err = reconcile.Reconcile(wall("S-01"), wall("S-01"), s, tol)
	require.NoError(t, err)
	assert.Empty(t, c.Records)
	assert.Nil(t, c.Overall)
}

func TestReconcileSectionMismatch(t *testing.T) {
	_, err := reconcile.Reconcile(wall("S-01", 100), wall("S-02", 100), criteria.DefaultSettings(), criteria.DefaultTolerances())
	assert.ErrorIs(t, err, reconcile.ErrDimensionMismatch)
}

// TestReconcileRamp: ramp berms are judged on ramp width and gradient.
func TestReconcileRamp(t *testing.T) {
	design := wall("S-01", 100, 85)
	design.Benches[0].BermWidth = f(25)
	design.Benches[0].IsRamp = true
	design.Benches[0].RampGradient = f(10)

	asBuilt := wall("S-01", 100, 85)
	asBuilt.Benches[0].BermWidth = f(22.5)
	asBuilt.Benches[0].IsRamp = true
	asBuilt.Benches[0].RampGradient = f(11)

	c, err := reconcile.Reconcile(design, asBuilt, criteria.DefaultSettings(), criteria.DefaultTolerances())
	require.NoError(t, err)

	rec := c.Records[0]
	assert.Nil(t, rec.BermWidth)
	require.NotNil(t, rec.RampWidth)
	assert.Equal(t, 25.0, rec.RampWidth.Design)
	assert.InDelta(t, -2.5, rec.RampWidth.Deviation, 1e-9)
	assert.Equal(t, criteria.StatusOutOfTol, rec.RampWidth.Status)
	require.NotNil(t, rec.RampGradient)
	assert.Equal(t, criteria.StatusComplies, rec.RampGradient.Status)
	assert.Equal(t, criteria.StatusOutOfTol, rec.Status())
}

// TestReconcileDesignFallback: an undefined design berm is judged against the target.
func TestReconcileDesignFallback(t *testing.T) {
	tol := criteria.DefaultTolerances()
	design := wall("S-01", 100, 85)
	design.Benches[0].BermWidth = nil
	asBuilt := wall("S-01", 100, 85)
	asBuilt.Benches[0].BermWidth = f(10)

	c, err := reconcile.Reconcile(design, asBuilt, criteria.DefaultSettings(), tol)
	require.NoError(t, err)
	require.NotNil(t, c.Records[0].BermWidth)
	assert.Equal(t, tol.BermWidth.Target, c.Records[0].BermWidth.Design)
	assert.InDelta(t, 1, c.Records[0].BermWidth.Deviation, 1e-9)
}

func TestReconcileAggregates(t *testing.T) {
	design := wall("S-01", 100, 85)
	design.OverallAngle = f(45)
	design.InterRampAngle = f(45)
	asBuilt := wall("S-01", 100, 85)
	asBuilt.OverallAngle = f(48)

	c, err := reconcile.Reconcile(design, asBuilt, criteria.DefaultSettings(), criteria.DefaultTolerances())
	require.NoError(t, err)
	require.NotNil(t, c.Overall)
	assert.Equal(t, criteria.AttrOverallAngle, c.Overall.Attribute)
	assert.InDelta(t, 3, c.Overall.Deviation, 1e-9)
	assert.Equal(t, criteria.StatusOutOfTol, c.Overall.Status)
	assert.Nil(t, c.InterRamp, "nothing measured")
	assert.Equal(t, criteria.StatusOutOfTol, c.Status())
}

// TestReevaluateMatchesFullReconcile: after a local edit, refreshing only
// the touched rows gives the same rows as reconciling from scratch.
func TestReevaluateMatchesFullReconcile(t *testing.T) {
	s := criteria.DefaultSettings()
	tol := criteria.DefaultTolerances()
	design := wall("S-01", 100, 85, 70)
	asBuilt := wall("S-01", 100, 85, 70)

	prev, err := reconcile.Reconcile(design, asBuilt, s, tol)
	require.NoError(t, err)

	toe := profile.Point{D: 19, Z: 68}
	edited, touched, err := bench.ApplyEdit(asBuilt, bench.Edit{BenchNumber: 2, Toe: &toe}, s)
	require.NoError(t, err)

	got := reconcile.Reevaluate(prev, edited, touched, tol)
	want, err := reconcile.Reconcile(design, edited, s, tol)
	require.NoError(t, err)
	assert.Equal(t, want.Records, got.Records)

	mid := got.Records[1]
	assert.InDelta(t, 17, mid.AsBuilt.BenchHeight, 1e-9)
	assert.Equal(t, criteria.StatusOutOfTol, mid.Height.Status)

	// previous comparison untouched
	assert.InDelta(t, 15, prev.Records[1].AsBuilt.BenchHeight, 1e-9)
}

func TestReevaluateAggregatesOnlyWhenFresh(t *testing.T) {
	s := criteria.DefaultSettings()
	tol := criteria.DefaultTolerances()
	design := wall("S-01", 100, 85, 70)
	design.OverallAngle = f(50)
	asBuilt := wall("S-01", 100, 85, 70)
	asBuilt.OverallAngle = f(50)

	prev, err := reconcile.Reconcile(design, asBuilt, s, tol)
	require.NoError(t, err)

	stale := asBuilt
	stale.Stale = true
	stale.OverallAngle = f(40)
	got := reconcile.Reevaluate(prev, stale, nil, tol)
	assert.Equal(t, prev.Overall, got.Overall)

	stale.Stale = false
	got = reconcile.Reevaluate(prev, stale, nil, tol)
	require.NotNil(t, got.Overall)
	assert.Equal(t, 50.0, got.Overall.Design)
	assert.InDelta(t, -10, got.Overall.Deviation, 1e-9)
	assert.Equal(t, criteria.StatusNonCompliant, got.Overall.Status)
}
