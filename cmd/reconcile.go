package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/gorecon/internal/batch"
	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/diagram"
	"github.com/alexiusacademia/gorecon/internal/export"
	"github.com/alexiusacademia/gorecon/internal/logging"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
	"github.com/alexiusacademia/gorecon/internal/section"
	"github.com/spf13/cobra"
)

var (
	reconcileInput     string
	reconcileXLSX      string
	reconcileJSON      string
	reconcileWorkers   int
	reconcileThreshold float64
	reconcileQuiet     bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare as-built benches against the design",
	Long: `Reconcile every section of the input: extract both surfaces, pair
design and as-built benches by crest elevation and grade each attribute.

Pairs whose crest elevations differ by the match threshold or more are
reported as a design bench not built (NO CONSTRUIDO) and an additional
as-built bench (BANCO ADICIONAL).

Examples:
  gorecon reconcile -i sections.json
  gorecon reconcile -i sections.json -c gorecon.yaml --xlsx report.xlsx
  gorecon reconcile -i sections.json -w 4 --json report.json`,
	Run: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&reconcileInput, "input", "i", "", "Path to sections JSON file [required]")
	reconcileCmd.MarkFlagRequired("input")
	reconcileCmd.Flags().IntVarP(&reconcileWorkers, "workers", "w", 0, "Sections processed in parallel (0 = all CPUs)")
	reconcileCmd.Flags().Float64VarP(&reconcileThreshold, "threshold", "t", 0, "Match threshold in metres (overrides configuration)")

	reconcileCmd.Flags().StringVar(&reconcileXLSX, "xlsx", "", "Write comparison workbook")
	reconcileCmd.Flags().StringVar(&reconcileJSON, "json", "", "Write comparison records to a JSON file")
	reconcileCmd.Flags().BoolVarP(&reconcileQuiet, "quiet", "q", false, "Only print the summary")
}

func runReconcile(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitError("loading configuration: %v", err)
	}
	if reconcileThreshold > 0 {
		cfg.Matching.MatchThreshold = reconcileThreshold
	}
	log := newLogger(cfg)
	defer logging.Sync(log)

	input, err := section.LoadFromFile(reconcileInput)
	if err != nil {
		exitError("loading sections: %v", err)
	}

	report, err := batch.Run(context.Background(), input.Lines(), section.NewFileCutter(input), batch.Options{
		Settings:   cfg.Settings(),
		Tolerances: cfg.Tolerances,
		Workers:    reconcileWorkers,
		Logger:     log,
	})
	if err != nil {
		if errors.Is(err, reconcile.ErrAssignmentInfeasible) {
			exitError("matching benches: %v", err)
		}
		exitError("reconciling sections: %v", err)
	}

	printHeader("BENCH RECONCILIATION")
	if !reconcileQuiet {
		for _, s := range report.Sections {
			fmt.Printf("SECTION %s", s.Line.Name)
			if s.Line.Sector != "" {
				fmt.Printf(" (sector %s)", s.Line.Sector)
			}
			fmt.Println(":")
			fmt.Println(ruler)
			printComparison(os.Stdout, s.Comparison)
		}
	}

	fmt.Println("SUMMARY:")
	fmt.Println(ruler)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Sections:\t%d\n", len(report.Sections))
	fmt.Fprintf(w, "  Matched benches:\t%d\n", report.Summary.Matches)
	fmt.Fprintf(w, "  %s:\t%d\n", reconcile.LabelMissing, report.Summary.Missing)
	fmt.Fprintf(w, "  %s:\t%d\n", reconcile.LabelExtra, report.Summary.Extra)
	w.Flush()
	fmt.Println()

	statuses := make([]criteria.Status, 0, len(report.Summary.Statuses))
	for st := range report.Summary.Statuses {
		statuses = append(statuses, st)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Rank() < statuses[j].Rank() })
	var lines []string
	for _, st := range statuses {
		lines = append(lines, fmt.Sprintf("%-22s %d", st, report.Summary.Statuses[st]))
	}
	if len(lines) > 0 {
		fmt.Print(diagram.DrawSummaryBox("EVALUATED ATTRIBUTES", lines))
		fmt.Println()
	}

	if reconcileXLSX != "" {
		data := export.WorkbookData{RunID: report.RunID, Comparisons: report.Comparisons()}
		if err := export.WriteExcelFile(reconcileXLSX, data); err != nil {
			exitError("writing workbook: %v", err)
		}
		fmt.Printf("  Workbook written to: %s\n", reconcileXLSX)
	}
	if reconcileJSON != "" {
		if err := export.WriteJSONFile(reconcileJSON, report); err != nil {
			exitError("writing JSON: %v", err)
		}
		fmt.Printf("  Report written to: %s\n", reconcileJSON)
	}
	fmt.Printf("  Run: %s (%s)\n", report.RunID, report.Elapsed.Round(time.Millisecond))
	fmt.Println()
}
