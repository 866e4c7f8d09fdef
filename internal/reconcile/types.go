package reconcile

import (
	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/criteria"
)

// Outcome is the pairing result of a bench
type Outcome string

const (
	OutcomeMatch   Outcome = "MATCH"
	OutcomeMissing Outcome = "MISSING"
	OutcomeExtra   Outcome = "EXTRA"
)

// Report labels of unmatched benches
const (
	LabelMissing = "NO CONSTRUIDO"
	LabelExtra   = "BANCO ADICIONAL"
)

// Label returns the report label of the outcome; matches have none
func (o Outcome) Label() string {
	switch o {
	case OutcomeMissing:
		return LabelMissing
	case OutcomeExtra:
		return LabelExtra
	}
	return ""
}

func (o Outcome) rank() int {
	switch o {
	case OutcomeMatch:
		return 0
	case OutcomeMissing:
		return 1
	}
	return 2
}

// Evaluation is the verdict on one attribute
type Evaluation struct {
	Attribute criteria.Attribute `json:"attribute"`
	Design    float64            `json:"design"`
	Measured  float64            `json:"measured"`
	Deviation float64            `json:"deviation"`
	Status    criteria.Status    `json:"status"`
}

// ComparisonRecord is one row of a section comparison: a matched pair, a
// design bench never built, or an as-built bench absent from the design.
type ComparisonRecord struct {
	Section string  `json:"section"`
	Sector  string  `json:"sector"`
	Outcome Outcome `json:"outcome"`
	Label   string  `json:"label,omitempty"`

	Design  *bench.BenchParams `json:"design"`
	AsBuilt *bench.BenchParams `json:"as_built"`

	// Absolute crest elevation difference of a match (m)
	ElevationDiff *float64 `json:"elevation_diff,omitempty"`

	Height       *Evaluation `json:"height,omitempty"`
	FaceAngle    *Evaluation `json:"face_angle,omitempty"`
	BermWidth    *Evaluation `json:"berm_width,omitempty"`
	RampWidth    *Evaluation `json:"ramp_width,omitempty"`
	RampGradient *Evaluation `json:"ramp_gradient,omitempty"`

	// Horizontal offsets of crest and toe, as-built minus design (m)
	DeltaCrest *float64 `json:"delta_crest,omitempty"`
	DeltaToe   *float64 `json:"delta_toe,omitempty"`
}

// Evaluations returns the attribute verdicts present on the record
func (r ComparisonRecord) Evaluations() []Evaluation {
	var out []Evaluation
	for _, e := range []*Evaluation{r.Height, r.FaceAngle, r.BermWidth, r.RampWidth, r.RampGradient} {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// Status is the worst verdict of the record. A missing bench never
// complies; an extra bench carries no verdict and counts as compliant.
func (r ComparisonRecord) Status() criteria.Status {
	if r.Outcome == OutcomeMissing {
		return criteria.StatusNonCompliant
	}
	status := criteria.StatusComplies
	for _, e := range r.Evaluations() {
		status = criteria.Worst(status, e.Status)
	}
	return status
}

// Level is the elevation the record is reported at: the design crest, or
// the as-built crest for extra benches.
func (r ComparisonRecord) Level() float64 {
	if r.Design != nil {
		return r.Design.CrestElevation
	}
	if r.AsBuilt != nil {
		return r.AsBuilt.CrestElevation
	}
	return 0
}

// SectionComparison is the full comparison of one section
type SectionComparison struct {
	Section string             `json:"section"`
	Sector  string             `json:"sector"`
	Records []ComparisonRecord `json:"records"`

	// Aggregate angles are evaluated once per section
	InterRamp *Evaluation `json:"inter_ramp,omitempty"`
	Overall   *Evaluation `json:"overall,omitempty"`
}

// Status is the worst verdict over every record and aggregate
func (c SectionComparison) Status() criteria.Status {
	status := criteria.StatusComplies
	for _, r := range c.Records {
		status = criteria.Worst(status, r.Status())
	}
	for _, e := range []*Evaluation{c.InterRamp, c.Overall} {
		if e != nil {
			status = criteria.Worst(status, e.Status)
		}
	}
	return status
}

// Summary counts outcomes and verdicts
type Summary struct {
	Matches  int                     `json:"matches"`
	Missing  int                     `json:"missing"`
	Extra    int                     `json:"extra"`
	Statuses map[criteria.Status]int `json:"statuses"`
}

// Add accumulates the records of a section into the summary
func (s *Summary) Add(c SectionComparison) {
	if s.Statuses == nil {
		s.Statuses = make(map[criteria.Status]int)
	}
	for _, r := range c.Records {
		switch r.Outcome {
		case OutcomeMatch:
			s.Matches++
		case OutcomeMissing:
			s.Missing++
		case OutcomeExtra:
			s.Extra++
		}
		for _, e := range r.Evaluations() {
			s.Statuses[e.Status]++
		}
	}
}

// Summary counts the outcomes and verdicts of this section
func (c SectionComparison) Summary() Summary {
	var s Summary
	s.Add(c)
	return s
}
