package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/spf13/cobra"
)

var (
	toleranceAttribute string
	toleranceMeasured  float64
	toleranceDesign    float64
)

var toleranceCmd = &cobra.Command{
	Use:   "tolerance",
	Short: "Show the tolerance table or grade a single value",
	Long: `Print the acceptance band of every attribute, or grade one measured
value against its design value.

A deviation inside [-neg, +pos] is CUMPLE, inside the band widened by 1.5
is FUERA DE TOLERANCIA, and anything else is NO CUMPLE.

Attributes:
  bench_height, face_angle, berm_width, inter_ramp_angle,
  overall_angle, ramp_width, ramp_gradient

Examples:
  # Show the tolerance table
  gorecon tolerance

  # Grade a 14.2 m bench against a 15 m design
  gorecon tolerance --attribute bench_height --measured 14.2 --design 15

  # Grade against the table target
  gorecon tolerance --attribute face_angle --measured 63`,
	Run: runTolerance,
}

func init() {
	rootCmd.AddCommand(toleranceCmd)

	toleranceCmd.Flags().StringVarP(&toleranceAttribute, "attribute", "a", "", "Attribute to grade")
	toleranceCmd.Flags().Float64VarP(&toleranceMeasured, "measured", "m", 0, "Measured value")
	toleranceCmd.Flags().Float64VarP(&toleranceDesign, "design", "d", 0, "Design value (defaults to the table target)")
}

func runTolerance(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitError("loading configuration: %v", err)
	}
	tol := cfg.Tolerances

	if toleranceAttribute == "" {
		printToleranceTable(tol)
		return
	}

	spec, ok := tol.Spec(criteria.Attribute(toleranceAttribute))
	if !ok {
		fmt.Printf("Error: unknown attribute %q.\n", toleranceAttribute)
		fmt.Println("Use 'gorecon tolerance --help' for the list of attributes.")
		return
	}
	if !cmd.Flags().Changed("measured") {
		fmt.Println("Error: Please provide the measured value with --measured.")
		return
	}

	design := spec.Target
	if cmd.Flags().Changed("design") {
		design = toleranceDesign
	}
	dev, status := spec.Check(toleranceMeasured, design)

	printHeader("TOLERANCE CHECK")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Attribute:\t%s\n", toleranceAttribute)
	fmt.Fprintf(w, "  Design:\t%.2f %s\n", design, spec.Unit)
	fmt.Fprintf(w, "  Measured:\t%.2f %s\n", toleranceMeasured, spec.Unit)
	fmt.Fprintf(w, "  Deviation:\t%+.2f %s\n", dev, spec.Unit)
	fmt.Fprintf(w, "  Band:\t[%+.2f, %+.2f]\n", spec.Neg, spec.Pos)
	fmt.Fprintf(w, "  Outer band:\t[%+.2f, %+.2f]\n", criteria.OuterBandFactor*spec.Neg, criteria.OuterBandFactor*spec.Pos)
	w.Flush()
	fmt.Println()

	fmt.Printf("  ╔═══════════════════════════════════╗\n")
	fmt.Printf("  ║  STATUS = %-24s║\n", status)
	fmt.Printf("  ╚═══════════════════════════════════╝\n")
	fmt.Println()
}

func printToleranceTable(tol criteria.Tolerances) {
	printHeader("TOLERANCE TABLE")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Attribute\tTarget\tNeg\tPos\tOuter Neg\tOuter Pos\tUnit\n")
	fmt.Fprintf(w, "  ─────────\t──────\t───\t───\t─────────\t─────────\t────\n")
	for _, attr := range criteria.Attributes {
		spec, _ := tol.Spec(attr)
		fmt.Fprintf(w, "  %s\t%.2f\t%+.2f\t%+.2f\t%+.2f\t%+.2f\t%s\n",
			attr, spec.Target, spec.Neg, spec.Pos,
			criteria.OuterBandFactor*spec.Neg, criteria.OuterBandFactor*spec.Pos, spec.Unit)
	}
	w.Flush()
	fmt.Println()
}
