package bench

import (
	"errors"
	"math"

	"github.com/alexiusacademia/gorecon/internal/profile"
)

var (
	// ErrBenchNotFound is returned when an edit names a bench the result does not hold.
	ErrBenchNotFound = errors.New("bench: bench not found")

	// ErrInvalidEdit is returned when an edit carries no coordinates or would
	// put the crest below the toe.
	ErrInvalidEdit = errors.New("bench: invalid edit")
)

// BenchParams describes one bench of a slope profile.
// Benches are numbered from 1 at the highest crest downward.
type BenchParams struct {
	BenchNumber int `json:"bench_number"`

	// Face geometry (m)
	CrestElevation float64 `json:"crest_elevation"`
	CrestDistance  float64 `json:"crest_distance"`
	ToeElevation   float64 `json:"toe_elevation"`
	ToeDistance    float64 `json:"toe_distance"`
	BenchHeight    float64 `json:"bench_height"` // crest - toe elevation, never negative
	FaceAngle      float64 `json:"face_angle"`   // degrees

	// Berm to the next bench down (m); nil for the last bench or when the
	// measured width exceeded the plausible maximum
	BermWidth      *float64 `json:"berm_width"`
	UnreliableBerm bool     `json:"unreliable_berm,omitempty"`

	// Ramp flags refer to the berm below this bench
	IsRamp       bool     `json:"is_ramp"`
	RampGradient *float64 `json:"ramp_gradient,omitempty"` // percent
}

// Crest returns the crest as a profile point
func (b BenchParams) Crest() profile.Point {
	return profile.Point{D: b.CrestDistance, Z: b.CrestElevation}
}

// Toe returns the toe as a profile point
func (b BenchParams) Toe() profile.Point {
	return profile.Point{D: b.ToeDistance, Z: b.ToeElevation}
}

// FaceRun is the horizontal extent of the face
func (b BenchParams) FaceRun() float64 {
	return math.Abs(b.ToeDistance - b.CrestDistance)
}

// Berm returns the berm width and whether it is defined
func (b BenchParams) Berm() (float64, bool) {
	if b.BermWidth == nil {
		return 0, false
	}
	return *b.BermWidth, true
}

// RampGroup is a run of consecutive benches between two ramp breaks
type RampGroup struct {
	FirstBench int     `json:"first_bench"`
	LastBench  int     `json:"last_bench"`
	Count      int     `json:"benches"`
	Height     float64 `json:"height"` // cumulative vertical extent (m)
	Run        float64 `json:"run"`    // cumulative horizontal extent (m)
	Angle      float64 `json:"angle"`  // degrees
}

// Benches returns the number of benches in the group
func (g RampGroup) Benches() int {
	return g.Count
}

// ExtractionResult holds the benches found on one surface of one section.
// Aggregate angles are nil when they cannot be measured.
type ExtractionResult struct {
	Section string        `json:"section"`
	Sector  string        `json:"sector"`
	Benches []BenchParams `json:"benches"`

	InterRampAngle  *float64    `json:"inter_ramp_angle"`
	OverallAngle    *float64    `json:"overall_angle"`
	InterRampGroups []RampGroup `json:"inter_ramp_groups,omitempty"`

	// Simplified profile the benches were read from
	Simplified []profile.Point `json:"simplified,omitempty"`

	// Incomplete is set when part of the profile could not be classified
	Incomplete bool `json:"incomplete,omitempty"`

	// Stale is set after an edit until aggregates are refreshed
	Stale bool `json:"stale,omitempty"`
}

// Degenerate reports whether no bench was found
func (r ExtractionResult) Degenerate() bool {
	return len(r.Benches) == 0
}

// Find returns the index of the bench with the given number
func (r ExtractionResult) Find(number int) (int, bool) {
	for i, b := range r.Benches {
		if b.BenchNumber == number {
			return i, true
		}
	}
	return -1, false
}

// UnreliableBerms returns the numbers of benches whose berm was discarded
func (r ExtractionResult) UnreliableBerms() []int {
	var out []int
	for _, b := range r.Benches {
		if b.UnreliableBerm {
			out = append(out, b.BenchNumber)
		}
	}
	return out
}

func ptr(v float64) *float64 {
	return &v
}
