package criteria

import (
	"fmt"
	"math"
)

// Status is the compliance verdict of a single evaluated attribute
type Status string

const (
	StatusComplies     Status = "CUMPLE"
	StatusOutOfTol     Status = "FUERA DE TOLERANCIA"
	StatusNonCompliant Status = "NO CUMPLE"
)

// OuterBandFactor widens the tolerance band for the FUERA DE TOLERANCIA tier.
const OuterBandFactor = 1.5

// Rank orders statuses from best (0) to worst (2). Unknown values rank worst.
func (s Status) Rank() int {
	switch s {
	case StatusComplies:
		return 0
	case StatusOutOfTol:
		return 1
	default:
		return 2
	}
}

// Worst returns the worse of two statuses
func Worst(a, b Status) Status {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Attribute names a compared slope parameter
type Attribute string

const (
	AttrHeight         Attribute = "bench_height"
	AttrFaceAngle      Attribute = "face_angle"
	AttrBermWidth      Attribute = "berm_width"
	AttrInterRampAngle Attribute = "inter_ramp_angle"
	AttrOverallAngle   Attribute = "overall_angle"
	AttrRampWidth      Attribute = "ramp_width"
	AttrRampGradient   Attribute = "ramp_gradient"
)

// Attributes lists every attribute in report order.
var Attributes = []Attribute{
	AttrHeight,
	AttrFaceAngle,
	AttrBermWidth,
	AttrInterRampAngle,
	AttrOverallAngle,
	AttrRampWidth,
	AttrRampGradient,
}

// ToleranceSpec is the acceptance band of one attribute.
// Neg is normally <= 0 and Pos >= 0; both are offsets from Target.
type ToleranceSpec struct {
	Target float64 `json:"target" koanf:"target"`
	Neg    float64 `json:"neg" koanf:"neg"`
	Pos    float64 `json:"pos" koanf:"pos"`
	Unit   string  `json:"unit,omitempty" koanf:"unit"`
}

// Evaluate classifies a deviation (measured - target) with the tier rule:
// inside [Neg, Pos] complies, inside the band widened by OuterBandFactor is
// out of tolerance, anything else is non-compliant.
func (t ToleranceSpec) Evaluate(deviation float64) Status {
	if math.IsNaN(deviation) {
		return StatusNonCompliant
	}
	if deviation >= t.Neg && deviation <= t.Pos {
		return StatusComplies
	}
	if deviation >= OuterBandFactor*t.Neg && deviation <= OuterBandFactor*t.Pos {
		return StatusOutOfTol
	}
	return StatusNonCompliant
}

// Check evaluates a measured value against an explicit design value and
// returns the deviation with its status.
func (t ToleranceSpec) Check(measured, design float64) (float64, Status) {
	dev := measured - design
	return dev, t.Evaluate(dev)
}

// Tolerances is the per-attribute tolerance table
type Tolerances struct {
	BenchHeight    ToleranceSpec `json:"bench_height" koanf:"bench_height"`
	FaceAngle      ToleranceSpec `json:"face_angle" koanf:"face_angle"`
	BermWidth      ToleranceSpec `json:"berm_width" koanf:"berm_width"`
	InterRampAngle ToleranceSpec `json:"inter_ramp_angle" koanf:"inter_ramp_angle"`
	OverallAngle   ToleranceSpec `json:"overall_angle" koanf:"overall_angle"`
	RampWidth      ToleranceSpec `json:"ramp_width" koanf:"ramp_width"`
	RampGradient   ToleranceSpec `json:"ramp_gradient" koanf:"ramp_gradient"`
}

// DefaultTolerances returns the standard acceptance table
func DefaultTolerances() Tolerances {
	return Tolerances{
		BenchHeight:    ToleranceSpec{Target: 15, Neg: -1.0, Pos: 1.5, Unit: "m"},
		FaceAngle:      ToleranceSpec{Target: 70, Neg: -5, Pos: 5, Unit: "°"},
		BermWidth:      ToleranceSpec{Target: 9, Neg: -1.0, Pos: 2.0, Unit: "m"},
		InterRampAngle: ToleranceSpec{Target: 48, Neg: -3, Pos: 2, Unit: "°"},
		OverallAngle:   ToleranceSpec{Target: 42, Neg: -2, Pos: 2, Unit: "°"},
		RampWidth:      ToleranceSpec{Target: 25, Neg: -2, Pos: 0, Unit: "m"},
		RampGradient:   ToleranceSpec{Target: 10, Neg: 0, Pos: 2, Unit: "%"},
	}
}

// Spec returns the tolerance of the named attribute
func (t Tolerances) Spec(attr Attribute) (ToleranceSpec, bool) {
	switch attr {
	case AttrHeight:
		return t.BenchHeight, true
	case AttrFaceAngle:
		return t.FaceAngle, true
	case AttrBermWidth:
		return t.BermWidth, true
	case AttrInterRampAngle:
		return t.InterRampAngle, true
	case AttrOverallAngle:
		return t.OverallAngle, true
	case AttrRampWidth:
		return t.RampWidth, true
	case AttrRampGradient:
		return t.RampGradient, true
	}
	return ToleranceSpec{}, false
}

// Validate checks every band has Neg <= Pos
func (t Tolerances) Validate() error {
	for _, attr := range Attributes {
		spec, _ := t.Spec(attr)
		if spec.Neg > spec.Pos {
			return &ValidationError{msg: fmt.Sprintf("%s: negative tolerance %.3f exceeds positive tolerance %.3f", attr, spec.Neg, spec.Pos)}
		}
	}
	return nil
}
