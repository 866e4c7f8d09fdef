package criteria_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorecon/internal/criteria"
)

// TestBenchHeightTiers walks the three tiers of the height band (15, -1.0, +1.5).
func TestBenchHeightTiers(t *testing.T) {
	spec := criteria.DefaultTolerances().BenchHeight

	cases := []struct {
		measured float64
		dev      float64
		want     criteria.Status
	}{
		{14.2, -0.8, criteria.StatusComplies},
		{13.0, -2.0, criteria.StatusNonCompliant},
		{16.0, 1.0, criteria.StatusComplies},
		{16.6, 1.6, criteria.StatusOutOfTol},
		{13.5, -1.5, criteria.StatusOutOfTol},
		{17.3, 2.3, criteria.StatusNonCompliant},
	}
	for _, tc := range cases {
		dev, status := spec.Check(tc.measured, spec.Target)
		assert.InDelta(t, tc.dev, dev, 1e-9, "deviation of %.1f", tc.measured)
		assert.Equal(t, tc.want, status, "status of %.1f", tc.measured)
	}
}

// TestEvaluateBoundsInclusive: deviations on the band edges comply.
func TestEvaluateBoundsInclusive(t *testing.T) {
	spec := criteria.ToleranceSpec{Target: 9, Neg: -1, Pos: 2}

	assert.Equal(t, criteria.StatusComplies, spec.Evaluate(-1))
	assert.Equal(t, criteria.StatusComplies, spec.Evaluate(2))
	assert.Equal(t, criteria.StatusOutOfTol, spec.Evaluate(3))
	assert.Equal(t, criteria.StatusNonCompliant, spec.Evaluate(3.01))
	assert.Equal(t, criteria.StatusNonCompliant, spec.Evaluate(math.NaN()))
}

// TestZeroSidedBand: ramp width (25, -2, 0) rejects any excess width.
func TestZeroSidedBand(t *testing.T) {
	spec := criteria.DefaultTolerances().RampWidth

	_, status := spec.Check(25, 25)
	assert.Equal(t, criteria.StatusComplies, status)
	_, status = spec.Check(25.1, 25)
	assert.Equal(t, criteria.StatusNonCompliant, status)
	_, status = spec.Check(22.5, 25)
	assert.Equal(t, criteria.StatusOutOfTol, status)
}

// TestWorst orders statuses NO CUMPLE > FUERA DE TOLERANCIA > CUMPLE.
func TestWorst(t *testing.T) {
	assert.Equal(t, criteria.StatusOutOfTol, criteria.Worst(criteria.StatusComplies, criteria.StatusOutOfTol))
	assert.Equal(t, criteria.StatusNonCompliant, criteria.Worst(criteria.StatusNonCompliant, criteria.StatusOutOfTol))
	assert.Equal(t, criteria.StatusComplies, criteria.Worst(criteria.StatusComplies, criteria.StatusComplies))
}

// TestSpecCoversEveryAttribute: the table answers for every listed attribute.
func TestSpecCoversEveryAttribute(t *testing.T) {
	tol := criteria.DefaultTolerances()
	for _, attr := range criteria.Attributes {
		spec, ok := tol.Spec(attr)
		require.True(t, ok, "attribute %s", attr)
		assert.NotZero(t, spec.Target, "attribute %s", attr)
	}
	_, ok := tol.Spec("unknown")
	assert.False(t, ok)
}

// TestTolerancesValidate rejects an inverted band.
func TestTolerancesValidate(t *testing.T) {
	tol := criteria.DefaultTolerances()
	require.NoError(t, tol.Validate())

	tol.FaceAngle.Neg = 3
	tol.FaceAngle.Pos = 1
	err := tol.Validate()
	require.Error(t, err)
	var ve *criteria.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "face_angle")
}
