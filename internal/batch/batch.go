// Package batch runs extraction and reconciliation over many sections.
//
// Sections are independent. Each worker allocates its own results and the
// runner merges them in input order after every worker has finished.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/profile"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
	"github.com/alexiusacademia/gorecon/internal/section"
)

// Options configures a batch run
type Options struct {
	Settings   criteria.Settings
	Tolerances criteria.Tolerances

	// Workers bounds the number of sections processed at once; 0 uses GOMAXPROCS
	Workers int

	Logger *zap.Logger
}

// SectionResult is everything produced for one section
type SectionResult struct {
	Line       section.Line                `json:"line"`
	Design     bench.ExtractionResult      `json:"design"`
	AsBuilt    bench.ExtractionResult      `json:"as_built"`
	Comparison reconcile.SectionComparison `json:"comparison"`
}

// Report is the outcome of a batch run
type Report struct {
	RunID    string            `json:"run_id"`
	Started  time.Time         `json:"started"`
	Elapsed  time.Duration     `json:"elapsed"`
	Sections []SectionResult   `json:"sections"`
	Summary  reconcile.Summary `json:"summary"`
}

// Comparisons returns the comparison of every section in input order
func (r Report) Comparisons() []reconcile.SectionComparison {
	out := make([]reconcile.SectionComparison, len(r.Sections))
	for i, s := range r.Sections {
		out[i] = s.Comparison
	}
	return out
}

// Run extracts both surfaces of every section and reconciles them.
// The first error cancels the remaining sections and is returned.
func Run(ctx context.Context, lines []section.Line, cutter section.Cutter, opts Options) (Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	report := Report{
		RunID:    uuid.NewString(),
		Started:  time.Now(),
		Sections: make([]SectionResult, len(lines)),
	}
	log = log.With(zap.String("run_id", report.RunID))
	log.Info("batch started", zap.Int("sections", len(lines)), zap.Int("workers", workers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		g.Go(func() error {
			res, err := ProcessSection(ctx, line, cutter, opts.Settings, opts.Tolerances, log)
			if err != nil {
				return err
			}
			report.Sections[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("batch failed", zap.Error(err))
		return Report{}, err
	}

	for _, s := range report.Sections {
		report.Summary.Add(s.Comparison)
	}
	report.Elapsed = time.Since(report.Started)

	log.Info("batch finished",
		zap.Int("matches", report.Summary.Matches),
		zap.Int("missing", report.Summary.Missing),
		zap.Int("extra", report.Summary.Extra),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// ProcessSection cuts, extracts and reconciles a single section
func ProcessSection(ctx context.Context, line section.Line, cutter section.Cutter, s criteria.Settings, tol criteria.Tolerances, log *zap.Logger) (SectionResult, error) {
	log = log.With(zap.String("section", line.Name), zap.String("sector", line.Sector))

	design, err := ExtractSurface(ctx, line, cutter, section.SurfaceDesign, s, log)
	if err != nil {
		return SectionResult{}, err
	}
	asBuilt, err := ExtractSurface(ctx, line, cutter, section.SurfaceAsBuilt, s, log)
	if err != nil {
		return SectionResult{}, err
	}

	cmp, err := reconcile.Reconcile(design, asBuilt, s, tol)
	if err != nil {
		return SectionResult{}, fmt.Errorf("reconcile section %s: %w", line.Name, err)
	}
	log.Debug("section reconciled",
		zap.Int("records", len(cmp.Records)),
		zap.String("status", string(cmp.Status())),
	)

	return SectionResult{Line: line, Design: design, AsBuilt: asBuilt, Comparison: cmp}, nil
}

// ExtractSurface cuts one surface along a section and extracts its benches.
// Data anomalies are logged and never returned as errors.
func ExtractSurface(ctx context.Context, line section.Line, cutter section.Cutter, surface section.Surface, s criteria.Settings, log *zap.Logger) (bench.ExtractionResult, error) {
	segs, err := cutter.Cut(ctx, line, surface)
	if err != nil {
		return bench.ExtractionResult{}, fmt.Errorf("cut %s surface of section %s: %w", surface, line.Name, err)
	}

	p := profile.FromSegments(line, segs, s)
	res := bench.Extract(line.Name, line.Sector, p, s)

	log = log.With(zap.String("surface", string(surface)))
	if res.Degenerate() {
		log.Warn("no benches found", zap.Int("profile_points", p.Len()))
	}
	if res.Incomplete {
		log.Warn("profile partially unclassified")
	}
	if unreliable := res.UnreliableBerms(); len(unreliable) > 0 {
		log.Warn("unrealistic berm widths discarded",
			zap.Ints("benches", unreliable),
			zap.Float64("max_berm_width", s.MaxBermWidth),
		)
	}
	return res, nil
}
