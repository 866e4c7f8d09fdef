package reconcile

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/criteria"
)

// Reconcile compares the design and as-built extraction of one section.
//
// Design and as-built benches are paired by minimum total crest elevation
// difference. A pair is a MATCH only when its difference is strictly below
// MatchThreshold; otherwise both benches are released. Released or unpaired
// design benches are MISSING, as-built ones EXTRA. Matches are evaluated
// per attribute against the design values, falling back to the tolerance
// target where the design value is undefined. Aggregate angles are
// evaluated once for the section.
//
// Both results must describe the same section. An error is returned only
// for invariant violations.
func Reconcile(design, asBuilt bench.ExtractionResult, s criteria.Settings, tol criteria.Tolerances) (SectionComparison, error) {
	if design.Section != asBuilt.Section {
		return SectionComparison{}, fmt.Errorf("%w: design section %q, as-built section %q", ErrDimensionMismatch, design.Section, asBuilt.Section)
	}

	out := SectionComparison{Section: design.Section, Sector: sectorOf(design, asBuilt)}

	rowToCol, err := pair(design.Benches, asBuilt.Benches)
	if err != nil {
		return SectionComparison{}, fmt.Errorf("section %s: %w", design.Section, err)
	}

	matchedAsBuilt := make([]bool, len(asBuilt.Benches))
	for i, d := range design.Benches {
		j := rowToCol[i]
		if j >= 0 && math.Abs(d.CrestElevation-asBuilt.Benches[j].CrestElevation) < s.MatchThreshold {
			matchedAsBuilt[j] = true
			out.Records = append(out.Records, matchRecord(out.Section, out.Sector, d, asBuilt.Benches[j], tol))
			continue
		}
		out.Records = append(out.Records, missingRecord(out.Section, out.Sector, d))
	}
	for j, t := range asBuilt.Benches {
		if !matchedAsBuilt[j] {
			out.Records = append(out.Records, extraRecord(out.Section, out.Sector, t))
		}
	}
	sortRecords(out.Records)

	out.InterRamp = evaluateAggregate(criteria.AttrInterRampAngle, design.InterRampAngle, asBuilt.InterRampAngle, tol.InterRampAngle)
	out.Overall = evaluateAggregate(criteria.AttrOverallAngle, design.OverallAngle, asBuilt.OverallAngle, tol.OverallAngle)
	return out, nil
}

// pair runs the assignment and returns the design-to-as-built mapping,
// -1 for design benches left without a partner.
func pair(design, asBuilt []bench.BenchParams) ([]int, error) {
	rowToCol := make([]int, len(design))
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	cost := CostMatrix(design, asBuilt)
	if cost == nil {
		return rowToCol, nil
	}

	assigned, err := Assign(cost)
	if err != nil {
		return nil, err
	}
	if len(assigned) != len(design) {
		return nil, fmt.Errorf("%w: %d assignments for %d design benches", ErrDimensionMismatch, len(assigned), len(design))
	}
	return assigned, nil
}

func matchRecord(section, sector string, d, t bench.BenchParams, tol criteria.Tolerances) ComparisonRecord {
	rec := ComparisonRecord{
		Section:       section,
		Sector:        sector,
		Outcome:       OutcomeMatch,
		Design:        &d,
		AsBuilt:       &t,
		ElevationDiff: ptr(math.Abs(d.CrestElevation - t.CrestElevation)),
		DeltaCrest:    ptr(t.CrestDistance - d.CrestDistance),
		DeltaToe:      ptr(t.ToeDistance - d.ToeDistance),
	}
	evaluateBench(&rec, d, t, tol)
	return rec
}

// evaluateBench fills the attribute verdicts of a matched pair. Ramp berms
// are judged on ramp width and gradient instead of berm width.
func evaluateBench(rec *ComparisonRecord, d, t bench.BenchParams, tol criteria.Tolerances) {
	rec.Height = evaluate(criteria.AttrHeight, d.BenchHeight, t.BenchHeight, tol.BenchHeight)
	rec.FaceAngle = evaluate(criteria.AttrFaceAngle, d.FaceAngle, t.FaceAngle, tol.FaceAngle)
	rec.BermWidth, rec.RampWidth, rec.RampGradient = nil, nil, nil

	measured, ok := t.Berm()
	if !ok {
		return
	}

	if t.IsRamp || d.IsRamp {
		rec.RampWidth = evaluate(criteria.AttrRampWidth, designOr(d.BermWidth, d.IsRamp, tol.RampWidth), measured, tol.RampWidth)
		if t.RampGradient != nil {
			rec.RampGradient = evaluate(criteria.AttrRampGradient, designOr(d.RampGradient, d.IsRamp, tol.RampGradient), *t.RampGradient, tol.RampGradient)
		}
		return
	}
	rec.BermWidth = evaluate(criteria.AttrBermWidth, designOr(d.BermWidth, true, tol.BermWidth), measured, tol.BermWidth)
}

// designOr returns the design value when it is defined and applicable,
// otherwise the tolerance target.
func designOr(v *float64, applicable bool, spec criteria.ToleranceSpec) float64 {
	if v != nil && applicable {
		return *v
	}
	return spec.Target
}

func evaluate(attr criteria.Attribute, design, measured float64, spec criteria.ToleranceSpec) *Evaluation {
	dev, status := spec.Check(measured, design)
	return &Evaluation{
		Attribute: attr,
		Design:    design,
		Measured:  measured,
		Deviation: dev,
		Status:    status,
	}
}

func evaluateAggregate(attr criteria.Attribute, design, measured *float64, spec criteria.ToleranceSpec) *Evaluation {
	if measured == nil {
		return nil
	}
	return evaluate(attr, designOr(design, true, spec), *measured, spec)
}

func missingRecord(section, sector string, d bench.BenchParams) ComparisonRecord {
	return ComparisonRecord{
		Section: section,
		Sector:  sector,
		Outcome: OutcomeMissing,
		Label:   LabelMissing,
		Design:  &d,
	}
}

func extraRecord(section, sector string, t bench.BenchParams) ComparisonRecord {
	return ComparisonRecord{
		Section: section,
		Sector:  sector,
		Outcome: OutcomeExtra,
		Label:   LabelExtra,
		AsBuilt: &t,
	}
}

// sortRecords orders rows top-down by level, then outcome, then bench number
func sortRecords(records []ComparisonRecord) {
	slices.SortStableFunc(records, func(a, b ComparisonRecord) int {
		if c := cmp.Compare(b.Level(), a.Level()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Outcome.rank(), b.Outcome.rank()); c != 0 {
			return c
		}
		return cmp.Compare(benchNumber(a), benchNumber(b))
	})
}

func benchNumber(r ComparisonRecord) int {
	if r.Design != nil {
		return r.Design.BenchNumber
	}
	if r.AsBuilt != nil {
		return r.AsBuilt.BenchNumber
	}
	return 0
}

func sectorOf(design, asBuilt bench.ExtractionResult) string {
	if design.Sector != "" {
		return design.Sector
	}
	return asBuilt.Sector
}

func ptr(v float64) *float64 {
	return &v
}
