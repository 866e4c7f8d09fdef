package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/alexiusacademia/gorecon/internal/batch"
	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/logging"
	"github.com/alexiusacademia/gorecon/internal/profile"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
	"github.com/alexiusacademia/gorecon/internal/section"
	"github.com/spf13/cobra"
)

var (
	editInput   string
	editSection string
	editBench   int
	editCrest   string
	editToe     string
	editRefresh bool
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Correct the crest or toe of an as-built bench",
	Long: `Move the crest and/or toe of one as-built bench and re-evaluate it.

Only the edited bench and the bench above it are re-derived; every other
row of the comparison is kept as is. Inter-ramp and overall angles stay
stale until --refresh requests a full re-evaluation.

Coordinates are given as distance,elevation along the section.

Examples:
  gorecon edit -i sections.json -s S-04 -b 3 --crest 41.5,2712.0
  gorecon edit -i sections.json -s S-04 -b 3 --toe 47.2,2697.1 --refresh`,
	Run: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editInput, "input", "i", "", "Path to sections JSON file [required]")
	editCmd.Flags().StringVarP(&editSection, "section", "s", "", "Section name [required]")
	editCmd.Flags().IntVarP(&editBench, "bench", "b", 0, "As-built bench number [required]")
	editCmd.MarkFlagRequired("input")
	editCmd.MarkFlagRequired("section")
	editCmd.MarkFlagRequired("bench")

	editCmd.Flags().StringVar(&editCrest, "crest", "", "New crest position (distance,elevation)")
	editCmd.Flags().StringVar(&editToe, "toe", "", "New toe position (distance,elevation)")
	editCmd.Flags().BoolVar(&editRefresh, "refresh", false, "Re-derive every berm and aggregate angle after the edit")
}

func runEdit(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitError("loading configuration: %v", err)
	}
	log := newLogger(cfg)
	defer logging.Sync(log)

	e := bench.Edit{BenchNumber: editBench}
	if editCrest != "" {
		d, z, err := parsePoint(editCrest)
		if err != nil {
			exitError("parsing --crest: %v", err)
		}
		e.Crest = &profile.Point{D: d, Z: z}
	}
	if editToe != "" {
		d, z, err := parsePoint(editToe)
		if err != nil {
			exitError("parsing --toe: %v", err)
		}
		e.Toe = &profile.Point{D: d, Z: z}
	}

	input, err := section.LoadFromFile(editInput)
	if err != nil {
		exitError("loading sections: %v", err)
	}
	entry, ok := input.Find(editSection)
	if !ok {
		exitError("section %q not found in %s", editSection, editInput)
	}

	s := cfg.Settings()
	res, err := batch.ProcessSection(context.Background(), entry.Line, section.NewFileCutter(input), s, cfg.Tolerances, log)
	if err != nil {
		exitError("reconciling section: %v", err)
	}

	edited, touched, err := bench.ApplyEdit(res.AsBuilt, e, s)
	if err != nil {
		exitError("applying edit: %v", err)
	}

	var cmp reconcile.SectionComparison
	if editRefresh {
		edited = bench.Refresh(edited, s)
		cmp, err = reconcile.Reconcile(res.Design, edited, s, cfg.Tolerances)
		if err != nil {
			exitError("re-evaluating section: %v", err)
		}
	} else {
		cmp = reconcile.Reevaluate(res.Comparison, edited, touched, cfg.Tolerances)
	}

	printHeader("AS-BUILT BENCH EDIT")
	fmt.Printf("  Section: %s\n", entry.Name)
	fmt.Printf("  Edited bench: %d\n", editBench)
	fmt.Printf("  Re-derived benches: %v\n", touched)
	fmt.Println()

	fmt.Println("AS-BUILT BENCHES:")
	fmt.Println(ruler)
	printBenches(os.Stdout, edited)

	if editRefresh {
		fmt.Println("COMPARISON (full re-evaluation):")
		fmt.Println(ruler)
		printComparison(os.Stdout, cmp)
		return
	}

	fmt.Println("RE-EVALUATED ROWS:")
	fmt.Println(ruler)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  As-Built\tHeight\tFace\tBerm/Ramp\tStatus\n")
	fmt.Fprintf(w, "  ────────\t──────\t────\t─────────\t──────\n")
	for _, r := range cmp.Records {
		if r.AsBuilt == nil || !slices.Contains(touched, r.AsBuilt.BenchNumber) {
			continue
		}
		berm := r.BermWidth
		if berm == nil {
			berm = r.RampWidth
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n",
			r.AsBuilt.BenchNumber, fmtEval(r.Height), fmtEval(r.FaceAngle), fmtEval(berm), r.Status())
	}
	w.Flush()
	fmt.Println()
}
