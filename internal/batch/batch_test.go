package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexiusacademia/gorecon/internal/batch"
	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/logging"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
	"github.com/alexiusacademia/gorecon/internal/section"
)

// fakeCutter serves 2D polylines lifted onto the section line
type fakeCutter struct {
	mu       sync.Mutex
	profiles map[string]map[section.Surface][][2]float64
	fail     map[string]error
	calls    int
}

func (c *fakeCutter) Cut(ctx context.Context, line section.Line, surface section.Surface) ([]section.Segment3D, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.fail[line.Name]; err != nil {
		return nil, err
	}
	pts := c.profiles[line.Name][surface]
	var segs []section.Segment3D
	for i := 0; i+1 < len(pts); i++ {
		segs = append(segs, section.Segment3D{
			A: line.PointAt(pts[i][0], pts[i][1]),
			B: line.PointAt(pts[i+1][0], pts[i+1][1]),
		})
	}
	return segs, nil
}

// steps builds a bench wall starting at elevation top with the given berms
func steps(top float64, berms ...float64) [][2]float64 {
	pts := [][2]float64{{0, top}}
	d, z := 0.0, top
	for i := 0; i <= len(berms); i++ {
		d, z = d+5, z-15
		pts = append(pts, [2]float64{d, z})
		w := 10.0
		if i < len(berms) {
			w = berms[i]
		}
		d += w
		pts = append(pts, [2]float64{d, z})
	}
	return pts
}

func line(name string) section.Line {
	return section.Line{Name: name, Sector: "North", Origin: section.Point3{X: 500, Y: 800}, Azimuth: 90, Length: 100}
}

func options(log *zap.Logger) batch.Options {
	return batch.Options{
		Settings:   criteria.DefaultSettings(),
		Tolerances: criteria.DefaultTolerances(),
		Workers:    2,
		Logger:     log,
	}
}

func TestRun(t *testing.T) {
	cutter := &fakeCutter{profiles: map[string]map[section.Surface][][2]float64{
		"S-01": {section.SurfaceDesign: steps(100, 9, 9), section.SurfaceAsBuilt: steps(100, 9, 9)},
		"S-02": {section.SurfaceDesign: steps(100, 9, 9), section.SurfaceAsBuilt: steps(85, 9)},
		"S-03": {section.SurfaceDesign: steps(100, 9, 9), section.SurfaceAsBuilt: steps(100, 9, 9, 9)},
	}}
	lines := []section.Line{line("S-01"), line("S-02"), line("S-03")}

	report, err := batch.Run(context.Background(), lines, cutter, options(nil))
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Sections, 3)
	for i, s := range report.Sections {
		assert.Equal(t, lines[i].Name, s.Line.Name, "input order")
		assert.Equal(t, lines[i].Name, s.Comparison.Section)
		assert.Equal(t, "North", s.Comparison.Sector)
	}

	assert.Len(t, report.Sections[0].Design.Benches, 3)
	assert.Equal(t, criteria.StatusComplies, report.Sections[0].Comparison.Status())

	// S-02 lost its top bench
	assert.Equal(t, reconcile.OutcomeMissing, report.Sections[1].Comparison.Records[0].Outcome)
	// S-03 has one bench more at the bottom
	recs := report.Sections[2].Comparison.Records
	assert.Equal(t, reconcile.OutcomeExtra, recs[len(recs)-1].Outcome)

	assert.Equal(t, 3+2+3, report.Summary.Matches)
	assert.Equal(t, 1, report.Summary.Missing)
	assert.Equal(t, 1, report.Summary.Extra)
	assert.Len(t, report.Comparisons(), 3)
	assert.Equal(t, 6, cutter.calls)
}

func TestRunPropagatesCutterError(t *testing.T) {
	boom := errors.New("kernel unavailable")
	cutter := &fakeCutter{
		profiles: map[string]map[section.Surface][][2]float64{
			"S-01": {section.SurfaceDesign: steps(100, 9), section.SurfaceAsBuilt: steps(100, 9)},
		},
		fail: map[string]error{"S-02": boom},
	}
	log, logs := logging.NewObserved(zapcore.ErrorLevel)

	_, err := batch.Run(context.Background(), []section.Line{line("S-01"), line("S-02")}, cutter, options(log))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "section S-02")
	assert.Equal(t, 1, logs.FilterMessage("batch failed").Len())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cutter := &fakeCutter{}
	_, err := batch.Run(ctx, []section.Line{line("S-01")}, cutter, options(nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	report, err := batch.Run(context.Background(), nil, &fakeCutter{}, options(nil))
	require.NoError(t, err)
	assert.Empty(t, report.Sections)
	assert.Equal(t, 0, report.Summary.Matches)
}

// TestExtractSurfaceWarnings: data anomalies are logged, never returned.
func TestExtractSurfaceWarnings(t *testing.T) {
	cutter := &fakeCutter{profiles: map[string]map[section.Surface][][2]float64{
		"S-01": {
			section.SurfaceDesign:  nil,
			section.SurfaceAsBuilt: steps(100, 9, 60),
		},
	}}
	s := criteria.DefaultSettings()
	log, logs := logging.NewObserved(zapcore.WarnLevel)
	ctx := context.Background()

	res, err := batch.ExtractSurface(ctx, line("S-01"), cutter, section.SurfaceDesign, s, log)
	require.NoError(t, err)
	assert.True(t, res.Degenerate())
	assert.Equal(t, 1, logs.FilterMessage("no benches found").Len())

	res, err = batch.ExtractSurface(ctx, line("S-01"), cutter, section.SurfaceAsBuilt, s, log)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.UnreliableBerms())

	warned := logs.FilterMessage("unrealistic berm widths discarded").All()
	require.Len(t, warned, 1)
	fields := warned[0].ContextMap()
	assert.Equal(t, "as_built", fields["surface"])
	assert.Equal(t, s.MaxBermWidth, fields["max_berm_width"])
}

func TestProcessSectionWrapsCutError(t *testing.T) {
	cutter := &fakeCutter{fail: map[string]error{"S-09": fmt.Errorf("no surface")}}
	_, err := batch.ProcessSection(context.Background(), line("S-09"), cutter,
		criteria.DefaultSettings(), criteria.DefaultTolerances(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "design surface")
}
