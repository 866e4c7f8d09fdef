package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/profile"
)

var (
	designColor  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	asBuiltColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	crestColor   = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	toeColor     = color.RGBA{R: 139, G: 69, B: 19, A: 255}
)

// ProfileChartData holds what is drawn on a section chart
type ProfileChartData struct {
	Section string

	// Simplified profiles
	Design  []profile.Point
	AsBuilt []profile.Point

	// Extracted benches, drawn as reconciled profiles with crest and toe markers
	DesignBenches  []bench.BenchParams
	AsBuiltBenches []bench.BenchParams
}

// ExportProfileChart exports a section chart to an image file. The format
// follows the file extension (.png, .svg, .pdf); anything else is saved as PNG.
func ExportProfileChart(data ProfileChartData, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Section %s", data.Section)
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Elevation (m)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if err := addProfile(p, "design", data.Design, designColor, nil); err != nil {
		return err
	}
	if err := addProfile(p, "as-built", data.AsBuilt, asBuiltColor, nil); err != nil {
		return err
	}

	dashes := []vg.Length{vg.Points(4), vg.Points(3)}
	if err := addProfile(p, "design (reconciled)", bench.BuildProfile(data.DesignBenches), designColor, dashes); err != nil {
		return err
	}
	if err := addProfile(p, "as-built (reconciled)", bench.BuildProfile(data.AsBuiltBenches), asBuiltColor, dashes); err != nil {
		return err
	}

	if err := addBenchMarkers(p, data.AsBuiltBenches); err != nil {
		return err
	}

	ext := filepath.Ext(filename)
	width := 10 * vg.Inch
	height := 6 * vg.Inch

	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	switch ext {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

func addProfile(p *plot.Plot, name string, pts []profile.Point, c color.Color, dashes []vg.Length) error {
	if len(pts) < 2 {
		return nil
	}
	line, err := plotter.NewLine(toXYs(pts))
	if err != nil {
		return fmt.Errorf("%s profile: %w", name, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	line.LineStyle.Dashes = dashes
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// addBenchMarkers marks crests and toes and labels each crest with its bench number
func addBenchMarkers(p *plot.Plot, benches []bench.BenchParams) error {
	if len(benches) == 0 {
		return nil
	}

	crests := make(plotter.XYs, len(benches))
	toes := make(plotter.XYs, len(benches))
	labels := make([]string, len(benches))
	for i, b := range benches {
		crests[i] = plotter.XY{X: b.CrestDistance, Y: b.CrestElevation}
		toes[i] = plotter.XY{X: b.ToeDistance, Y: b.ToeElevation}
		labels[i] = fmt.Sprintf("B%d", b.BenchNumber)
	}

	crestScatter, err := plotter.NewScatter(crests)
	if err != nil {
		return err
	}
	crestScatter.GlyphStyle.Color = crestColor
	crestScatter.GlyphStyle.Radius = vg.Points(3)
	crestScatter.GlyphStyle.Shape = draw.TriangleGlyph{}
	p.Add(crestScatter)
	p.Legend.Add("crest", crestScatter)

	toeScatter, err := plotter.NewScatter(toes)
	if err != nil {
		return err
	}
	toeScatter.GlyphStyle.Color = toeColor
	toeScatter.GlyphStyle.Radius = vg.Points(3)
	toeScatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(toeScatter)
	p.Legend.Add("toe", toeScatter)

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: crests, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}

func toXYs(pts []profile.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.D, Y: pt.Z}
	}
	return xys
}
