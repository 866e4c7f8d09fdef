package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/config"
	"github.com/alexiusacademia/gorecon/internal/logging"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
	"go.uber.org/zap"
)

const ruler = "───────────────────────────────────────────────────────────────"

// loadConfig reads the configuration file and applies global flag overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Logging.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *zap.Logger {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return logging.NewNop()
	}
	return log
}

// parsePoint parses "distance,elevation"
func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected distance,elevation, got %q", s)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid distance %q: %w", parts[0], err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid elevation %q: %w", parts[1], err)
	}
	return d, z, nil
}

func fmtPtr(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

func printHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func printBenches(out io.Writer, r bench.ExtractionResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tCrest Z\tCrest D\tToe Z\tToe D\tHeight\tFace°\tBerm\tRamp\n")
	fmt.Fprintf(w, "  ─\t───────\t───────\t─────\t─────\t──────\t─────\t────\t────\n")
	for _, b := range r.Benches {
		ramp := ""
		if b.IsRamp {
			ramp = fmt.Sprintf("yes (%s%%)", fmtPtr(b.RampGradient, "%.1f"))
		}
		berm := fmtPtr(b.BermWidth, "%.2f")
		if b.UnreliableBerm {
			berm = "⚠ discarded"
		}
		fmt.Fprintf(w, "  %d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%s\t%s\n",
			b.BenchNumber, b.CrestElevation, b.CrestDistance, b.ToeElevation, b.ToeDistance,
			b.BenchHeight, b.FaceAngle, berm, ramp)
	}
	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Inter-ramp angle:\t%s\n", fmtPtr(r.InterRampAngle, "%.1f°"))
	fmt.Fprintf(w, "  Overall angle:\t%s\n", fmtPtr(r.OverallAngle, "%.1f°"))
	if r.Incomplete {
		fmt.Fprintf(w, "  Classification:\t⚠ incomplete\n")
	}
	if r.Stale {
		fmt.Fprintf(w, "  Aggregates:\t⚠ stale after edit\n")
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printComparison(out io.Writer, c reconcile.SectionComparison) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Design\tAs-Built\tLevel\tΔZ\tHeight\tFace\tBerm/Ramp\tStatus\n")
	fmt.Fprintf(w, "  ──────\t────────\t─────\t──\t──────\t────\t─────────\t──────\n")
	for _, r := range c.Records {
		design, asBuilt := "—", "—"
		if r.Design != nil {
			design = strconv.Itoa(r.Design.BenchNumber)
		}
		if r.AsBuilt != nil {
			asBuilt = strconv.Itoa(r.AsBuilt.BenchNumber)
		}
		if r.Outcome != reconcile.OutcomeMatch {
			fmt.Fprintf(w, "  %s\t%s\t%.2f\t\t\t\t\t%s\n", design, asBuilt, r.Level(), r.Label)
			continue
		}
		berm := r.BermWidth
		if berm == nil {
			berm = r.RampWidth
		}
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%s\t%s\t%s\t%s\t%s\n",
			design, asBuilt, r.Level(), fmtPtr(r.ElevationDiff, "%.2f"),
			fmtEval(r.Height), fmtEval(r.FaceAngle), fmtEval(berm), r.Status())
	}
	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Inter-ramp angle:\t%s\n", fmtEval(c.InterRamp))
	fmt.Fprintf(w, "  Overall angle:\t%s\n", fmtEval(c.Overall))
	fmt.Fprintf(w, "  Section status:\t%s\n", c.Status())
	w.Flush()
	fmt.Fprintln(out)
}

func fmtEval(e *reconcile.Evaluation) string {
	if e == nil {
		return "—"
	}
	marker := "✓"
	switch e.Status.Rank() {
	case 1:
		marker = "~"
	case 2:
		marker = "✗"
	}
	return fmt.Sprintf("%.2f (%+.2f) %s", e.Measured, e.Deviation, marker)
}

func exitError(format string, args ...any) {
	fmt.Printf("Error "+format+"\n", args...)
	os.Exit(1)
}
