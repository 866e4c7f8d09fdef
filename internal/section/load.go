package section

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Cutter is the geometry kernel boundary: it intersects one surface with the
// vertical plane of a section and returns the unordered intersection pieces.
type Cutter interface {
	Cut(ctx context.Context, line Line, surface Surface) ([]Segment3D, error)
}

// SurfaceInput holds the intersection of one surface with a section, either
// as raw 3D segments or as an already projected (distance, elevation) profile.
type SurfaceInput struct {
	Segments []Segment3D  `json:"segments,omitempty"`
	Profile  [][2]float64 `json:"profile,omitempty"`
}

// Entry is a section line together with its precomputed intersections
type Entry struct {
	Line
	Design  SurfaceInput `json:"design"`
	AsBuilt SurfaceInput `json:"as_built"`
}

// Input is the content of a sections file
type Input struct {
	Sections []Entry `json:"sections"`
}

// LoadFromFile loads section definitions from a JSON file.
// The file holds either {"sections": [...]} or a bare array of sections.
func LoadFromFile(filepath string) (*Input, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a sections document
func Parse(data []byte) (*Input, error) {
	var input Input
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &input.Sections); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	return &input, nil
}

// Validate checks every section and rejects duplicate names
func (in *Input) Validate() error {
	if len(in.Sections) == 0 {
		return ErrNoSections
	}
	seen := make(map[string]bool, len(in.Sections))
	for _, e := range in.Sections {
		if err := e.Line.Validate(); err != nil {
			return err
		}
		if seen[e.Name] {
			return &ValidationError{msg: fmt.Sprintf("duplicate section name %q", e.Name)}
		}
		seen[e.Name] = true
	}
	return nil
}

// Lines returns the section lines in file order
func (in *Input) Lines() []Line {
	lines := make([]Line, len(in.Sections))
	for i, e := range in.Sections {
		lines[i] = e.Line
	}
	return lines
}

// Find returns the entry with the given name
func (in *Input) Find(name string) (Entry, bool) {
	for _, e := range in.Sections {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// FileCutter serves intersections stored in a sections file.
type FileCutter struct {
	entries map[string]Entry
}

// NewFileCutter indexes the entries of an input document by section name
func NewFileCutter(in *Input) *FileCutter {
	fc := &FileCutter{entries: make(map[string]Entry, len(in.Sections))}
	for _, e := range in.Sections {
		fc.entries[e.Name] = e
	}
	return fc
}

// Cut returns the stored intersection of the surface with the section.
// Stored 2D profiles are lifted back to mine coordinates along the line.
func (fc *FileCutter) Cut(ctx context.Context, line Line, surface Surface) ([]Segment3D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := fc.entries[line.Name]
	if !ok {
		return nil, fmt.Errorf("section %q not found in input", line.Name)
	}

	var in SurfaceInput
	switch surface {
	case SurfaceDesign:
		in = e.Design
	case SurfaceAsBuilt:
		in = e.AsBuilt
	default:
		return nil, fmt.Errorf("unknown surface %q", surface)
	}

	if len(in.Segments) > 0 {
		return append([]Segment3D(nil), in.Segments...), nil
	}

	var segs []Segment3D
	for i := 0; i+1 < len(in.Profile); i++ {
		a, b := in.Profile[i], in.Profile[i+1]
		segs = append(segs, Segment3D{
			A: line.PointAt(a[0], a[1]),
			B: line.PointAt(b[0], b[1]),
		})
	}
	return segs, nil
}
