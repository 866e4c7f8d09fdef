package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gorecon/internal/profile"
)

// ASCIIOptions controls the size of a terminal sketch
type ASCIIOptions struct {
	Width  int // columns of the plotting area
	Height int // rows of the plotting area
}

// DefaultASCIIOptions fits a standard 100 column terminal
func DefaultASCIIOptions() ASCIIOptions {
	return ASCIIOptions{Width: 80, Height: 20}
}

// DrawASCIIProfile sketches one or two profiles in the terminal. The
// profiles are sampled on a common distance grid so that columns line up;
// beyond its own extent a profile is held at its end elevation.
func DrawASCIIProfile(title string, design, asBuilt []profile.Point, opts ASCIIOptions) string {
	if opts.Width <= 1 {
		opts.Width = DefaultASCIIOptions().Width
	}
	if opts.Height <= 1 {
		opts.Height = DefaultASCIIOptions().Height
	}

	minD, maxD, ok := extent(design, asBuilt)
	if !ok {
		return fmt.Sprintf("  %s: no profile\n", title)
	}

	var series [][]float64
	var legends []string
	var colors []asciigraph.AnsiColor
	if len(design) > 0 {
		series = append(series, sample(design, minD, maxD, opts.Width))
		legends = append(legends, "design")
		colors = append(colors, asciigraph.Blue)
	}
	if len(asBuilt) > 0 {
		series = append(series, sample(asBuilt, minD, maxD, opts.Width))
		legends = append(legends, "as-built")
		colors = append(colors, asciigraph.Red)
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(fmt.Sprintf("%s  (distance %.1f to %.1f m)", title, minD, maxD)),
	)
	return graph + "\n"
}

// extent returns the distance range covered by the profiles
func extent(profiles ...[]profile.Point) (minD, maxD float64, ok bool) {
	for _, pts := range profiles {
		for _, p := range pts {
			if !ok {
				minD, maxD, ok = p.D, p.D, true
				continue
			}
			minD = min(minD, p.D)
			maxD = max(maxD, p.D)
		}
	}
	return minD, maxD, ok
}

// sample interpolates elevations at n evenly spaced distances
func sample(pts []profile.Point, minD, maxD float64, n int) []float64 {
	out := make([]float64, n)
	step := 0.0
	if n > 1 {
		step = (maxD - minD) / float64(n-1)
	}
	for i := range out {
		out[i] = elevationAt(pts, minD+float64(i)*step)
	}
	return out
}

// elevationAt interpolates a distance-sorted polyline. On a vertical step the
// first point at that distance wins.
func elevationAt(pts []profile.Point, d float64) float64 {
	if d <= pts[0].D {
		return pts[0].Z
	}
	last := pts[len(pts)-1]
	if d >= last.D {
		return last.Z
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].D >= d })
	a, b := pts[i-1], pts[i]
	if b.D == a.D {
		return a.Z
	}
	t := (d - a.D) / (b.D - a.D)
	return a.Z + t*(b.Z-a.Z)
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
