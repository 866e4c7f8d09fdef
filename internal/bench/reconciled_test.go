package bench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
)

func TestBuildProfile(t *testing.T) {
	benches := []bench.BenchParams{
		{CrestDistance: 14, CrestElevation: 85, ToeDistance: 19, ToeElevation: 70},
		{CrestDistance: 0, CrestElevation: 100, ToeDistance: 5, ToeElevation: 85},
	}
	pts := bench.BuildProfile(benches)
	assert.Equal(t, []profile.Point{
		{D: 0, Z: 100}, {D: 5, Z: 85},
		{D: 14, Z: 85}, {D: 19, Z: 70},
	}, pts)

	// input order untouched
	assert.Equal(t, 14.0, benches[0].CrestDistance)
	assert.Empty(t, bench.BuildProfile(nil))
}

// TestApplyEditLocal: only the edited bench and the one above it change,
// aggregates stay as they were until Refresh.
func TestApplyEditLocal(t *testing.T) {
	s := criteria.DefaultSettings()
	orig := bench.Extract("S-01", "", stepped(9, 9), s)
	require.Len(t, orig.Benches, 3)

	toe := profile.Point{D: 38, Z: 55}
	edited, touched, err := bench.ApplyEdit(orig, bench.Edit{BenchNumber: 3, Toe: &toe}, s)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, touched)
	assert.True(t, edited.Stale)
	assert.False(t, orig.Stale, "input must not be modified")
	assert.Equal(t, 33.0, orig.Benches[2].ToeDistance)

	assert.Equal(t, orig.Benches[0], edited.Benches[0])
	b := edited.Benches[2]
	assert.Equal(t, 3, b.BenchNumber)
	assert.InDelta(t, 15, b.BenchHeight, 1e-9)
	assert.InDelta(t, deg(15, 10), b.FaceAngle, 1e-9)
	assert.Nil(t, b.BermWidth)

	assert.Equal(t, orig.OverallAngle, edited.OverallAngle)

	refreshed := bench.Refresh(edited, s)
	assert.False(t, refreshed.Stale)
	require.NotNil(t, refreshed.OverallAngle)
	assert.InDelta(t, deg(45, 38), *refreshed.OverallAngle, 1e-9)
	assert.Equal(t, []int{1, 2, 3}, []int{
		refreshed.Benches[0].BenchNumber,
		refreshed.Benches[1].BenchNumber,
		refreshed.Benches[2].BenchNumber,
	})
}

// TestApplyEditRederivesBermAbove: moving a crest changes the berm of the bench above.
func TestApplyEditRederivesBermAbove(t *testing.T) {
	s := criteria.DefaultSettings()
	orig := bench.Extract("S-01", "", stepped(9, 9), s)

	crest := profile.Point{D: 25, Z: 85}
	edited, touched, err := bench.ApplyEdit(orig, bench.Edit{BenchNumber: 2, Crest: &crest}, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, touched)

	w, ok := edited.Benches[0].Berm()
	require.True(t, ok)
	assert.InDelta(t, 20, w, 1e-9)
	assert.True(t, edited.Benches[0].IsRamp)
	require.NotNil(t, edited.Benches[0].RampGradient)
	assert.InDelta(t, 0, *edited.Benches[0].RampGradient, 1e-9)

	assert.Equal(t, orig.Benches[2], edited.Benches[2])
}

func TestApplyEditErrors(t *testing.T) {
	s := criteria.DefaultSettings()
	orig := bench.Extract("S-01", "", stepped(9, 9), s)

	_, _, err := bench.ApplyEdit(orig, bench.Edit{BenchNumber: 1}, s)
	assert.ErrorIs(t, err, bench.ErrInvalidEdit)

	pt := profile.Point{D: 5, Z: 101}
	_, _, err = bench.ApplyEdit(orig, bench.Edit{BenchNumber: 1, Toe: &pt}, s)
	assert.ErrorIs(t, err, bench.ErrInvalidEdit)

	_, _, err = bench.ApplyEdit(orig, bench.Edit{BenchNumber: 9, Toe: &pt}, s)
	assert.ErrorIs(t, err, bench.ErrBenchNotFound)
}
