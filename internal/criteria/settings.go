package criteria

import "fmt"

// Extraction and matching defaults

const (
	// Profile construction
	DefaultResolution       = 0.5   // Sampling step of the raw profile (m)
	DefaultDedupDistance    = 0.003 // Points closer than this are merged (m)
	DefaultMinSegmentLength = 0.0   // Intersection segments shorter than this are dropped (m)

	// Simplification
	DefaultRDPEpsilon = 0.1 // Ramer-Douglas-Peucker tolerance (m)

	// Segment classification (degrees from horizontal)
	DefaultFaceThreshold = 40.0 // angle >= threshold is a face
	DefaultBermThreshold = 20.0 // angle <= threshold is a berm

	// Bench filters
	DefaultMaxBermWidth   = 50.0 // Wider berms are treated as unreliable (m)
	DefaultMinBenchHeight = 2.0  // Faces lower than this yield no bench (m)
	DefaultMinFaceLength  = 1.5  // Faces shorter than this yield no bench (m)

	// Ramp detection band (m)
	DefaultRampWidthMin = 15.0
	DefaultRampWidthMax = 42.0

	// Matching
	DefaultMatchThreshold = 8.0 // Crest elevation difference below which benches pair (m)
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min" koanf:"min"`
	Max float64 `json:"max" koanf:"max"`
}

// Contains reports whether v lies in the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Settings holds every tunable of the extraction and matching pipeline.
// A Settings value is passed explicitly to each call; the core keeps no
// settings of its own.
type Settings struct {
	Resolution       float64 `json:"resolution" koanf:"resolution"`
	DedupDistance    float64 `json:"dedup_distance" koanf:"dedup_distance"`
	MinSegmentLength float64 `json:"min_segment_length" koanf:"min_segment_length"`
	RDPEpsilon       float64 `json:"rdp_epsilon" koanf:"rdp_epsilon"`
	FaceThreshold    float64 `json:"face_threshold" koanf:"face_threshold"`
	BermThreshold    float64 `json:"berm_threshold" koanf:"berm_threshold"`
	MaxBermWidth     float64 `json:"max_berm_width" koanf:"max_berm_width"`
	MinBenchHeight   float64 `json:"min_bench_height" koanf:"min_bench_height"`
	MinFaceLength    float64 `json:"min_face_length" koanf:"min_face_length"`
	RampWidthRange   Range   `json:"ramp_width_range" koanf:"ramp_width_range"`
	MatchThreshold   float64 `json:"match_threshold" koanf:"match_threshold"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Resolution:       DefaultResolution,
		DedupDistance:    DefaultDedupDistance,
		MinSegmentLength: DefaultMinSegmentLength,
		RDPEpsilon:       DefaultRDPEpsilon,
		FaceThreshold:    DefaultFaceThreshold,
		BermThreshold:    DefaultBermThreshold,
		MaxBermWidth:     DefaultMaxBermWidth,
		MinBenchHeight:   DefaultMinBenchHeight,
		MinFaceLength:    DefaultMinFaceLength,
		RampWidthRange:   Range{Min: DefaultRampWidthMin, Max: DefaultRampWidthMax},
		MatchThreshold:   DefaultMatchThreshold,
	}
}

// Validate checks that the settings describe a usable pipeline
func (s Settings) Validate() error {
	if s.Resolution < 0 {
		return &ValidationError{"resolution must not be negative"}
	}
	if s.DedupDistance < 0 {
		return &ValidationError{"dedup_distance must not be negative"}
	}
	if s.MinSegmentLength < 0 {
		return &ValidationError{"min_segment_length must not be negative"}
	}
	if s.RDPEpsilon <= 0 {
		return &ValidationError{"rdp_epsilon must be positive"}
	}
	if s.FaceThreshold < 0 || s.FaceThreshold > 90 {
		return &ValidationError{msg: fmt.Sprintf("face_threshold %.2f outside [0, 90]", s.FaceThreshold)}
	}
	if s.BermThreshold < 0 || s.BermThreshold > 90 {
		return &ValidationError{msg: fmt.Sprintf("berm_threshold %.2f outside [0, 90]", s.BermThreshold)}
	}
	if s.BermThreshold >= s.FaceThreshold {
		return &ValidationError{"berm_threshold must be below face_threshold"}
	}
	if s.MaxBermWidth <= 0 {
		return &ValidationError{"max_berm_width must be positive"}
	}
	if s.MinBenchHeight < 0 || s.MinFaceLength < 0 {
		return &ValidationError{"bench filters must not be negative"}
	}
	if s.RampWidthRange.Min > s.RampWidthRange.Max {
		return &ValidationError{"ramp_width_range min exceeds max"}
	}
	if s.MatchThreshold <= 0 {
		return &ValidationError{"match_threshold must be positive"}
	}
	return nil
}

// ValidationError represents an invalid settings or tolerance value
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
