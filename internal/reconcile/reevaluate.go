package reconcile

import (
	"math"
	"slices"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/criteria"
)

// Reevaluate refreshes the rows of a previous comparison whose as-built bench
// is listed in touched, reading the new values from asBuilt. The pairing is
// kept: no bench changes outcome. Rows of untouched benches are carried over
// unchanged. Aggregate evaluations are recomputed only when asBuilt is no
// longer stale.
func Reevaluate(prev SectionComparison, asBuilt bench.ExtractionResult, touched []int, tol criteria.Tolerances) SectionComparison {
	out := prev
	out.Records = append([]ComparisonRecord(nil), prev.Records...)

	for i := range out.Records {
		rec := &out.Records[i]
		if rec.AsBuilt == nil || !slices.Contains(touched, rec.AsBuilt.BenchNumber) {
			continue
		}
		idx, ok := asBuilt.Find(rec.AsBuilt.BenchNumber)
		if !ok {
			continue
		}
		t := asBuilt.Benches[idx]
		rec.AsBuilt = &t

		if rec.Outcome != OutcomeMatch || rec.Design == nil {
			continue
		}
		d := *rec.Design
		rec.ElevationDiff = ptr(math.Abs(d.CrestElevation - t.CrestElevation))
		rec.DeltaCrest = ptr(t.CrestDistance - d.CrestDistance)
		rec.DeltaToe = ptr(t.ToeDistance - d.ToeDistance)
		evaluateBench(rec, d, t, tol)
	}

	if !asBuilt.Stale {
		out.InterRamp = reevaluateAggregate(prev.InterRamp, criteria.AttrInterRampAngle, asBuilt.InterRampAngle, tol.InterRampAngle)
		out.Overall = reevaluateAggregate(prev.Overall, criteria.AttrOverallAngle, asBuilt.OverallAngle, tol.OverallAngle)
	}
	return out
}

// reevaluateAggregate keeps the design reference of the previous verdict
func reevaluateAggregate(prev *Evaluation, attr criteria.Attribute, measured *float64, spec criteria.ToleranceSpec) *Evaluation {
	if measured == nil {
		return nil
	}
	design := spec.Target
	if prev != nil {
		design = prev.Design
	}
	return evaluate(attr, design, *measured, spec)
}
