package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/alexiusacademia/gorecon/internal/batch"
	"github.com/alexiusacademia/gorecon/internal/bench"
	"github.com/alexiusacademia/gorecon/internal/diagram"
	"github.com/alexiusacademia/gorecon/internal/export"
	"github.com/alexiusacademia/gorecon/internal/logging"
	"github.com/alexiusacademia/gorecon/internal/section"
	"github.com/spf13/cobra"
)

var (
	extractInput     string
	extractSection   string
	extractJSON      string
	extractPlot      string
	extractShowASCII bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract benches from the design and as-built profiles",
	Long: `Extract the benches of both surfaces along each section line.

For every bench the crest, toe, height, face angle and berm width are
reported, together with ramps and the inter-ramp and overall angles.

Examples:
  gorecon extract -i sections.json
  gorecon extract -i sections.json -s S-04 --ascii
  gorecon extract -i sections.json -s S-04 --plot s04.png --json s04.json`,
	Run: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "Path to sections JSON file [required]")
	extractCmd.MarkFlagRequired("input")
	extractCmd.Flags().StringVarP(&extractSection, "section", "s", "", "Only process the named section")

	extractCmd.Flags().StringVar(&extractJSON, "json", "", "Write extraction results to a JSON file")
	extractCmd.Flags().StringVar(&extractPlot, "plot", "", "Export profile chart to file (png, svg, pdf); requires --section")
	extractCmd.Flags().BoolVar(&extractShowASCII, "ascii", false, "Show ASCII profile sketch")
}

type extraction struct {
	Line    section.Line           `json:"line"`
	Design  bench.ExtractionResult `json:"design"`
	AsBuilt bench.ExtractionResult `json:"as_built"`
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitError("loading configuration: %v", err)
	}
	log := newLogger(cfg)
	defer logging.Sync(log)

	input, err := section.LoadFromFile(extractInput)
	if err != nil {
		exitError("loading sections: %v", err)
	}

	lines := input.Lines()
	if extractSection != "" {
		e, ok := input.Find(extractSection)
		if !ok {
			exitError("section %q not found in %s", extractSection, extractInput)
		}
		lines = []section.Line{e.Line}
	}
	if extractPlot != "" && len(lines) != 1 {
		exitError("--plot requires --section")
	}

	s := cfg.Settings()
	cutter := section.NewFileCutter(input)
	ctx := context.Background()

	var results []extraction
	for _, line := range lines {
		design, err := batch.ExtractSurface(ctx, line, cutter, section.SurfaceDesign, s, log)
		if err != nil {
			exitError("extracting design: %v", err)
		}
		asBuilt, err := batch.ExtractSurface(ctx, line, cutter, section.SurfaceAsBuilt, s, log)
		if err != nil {
			exitError("extracting as-built: %v", err)
		}
		results = append(results, extraction{Line: line, Design: design, AsBuilt: asBuilt})
	}

	printHeader("BENCH EXTRACTION")
	for _, r := range results {
		dx, dy := r.Line.Direction()
		fmt.Printf("  Section: %s", r.Line.Name)
		if r.Line.Sector != "" {
			fmt.Printf("  (sector %s)", r.Line.Sector)
		}
		fmt.Printf("  azimuth %.1f°, direction (%.3f, %.3f)\n", r.Line.Azimuth, dx, dy)
		fmt.Println()

		fmt.Println("DESIGN BENCHES:")
		fmt.Println(ruler)
		printBenches(os.Stdout, r.Design)

		fmt.Println("AS-BUILT BENCHES:")
		fmt.Println(ruler)
		printBenches(os.Stdout, r.AsBuilt)

		if extractShowASCII {
			fmt.Print(diagram.DrawASCIIProfile(r.Line.Name, r.Design.Simplified, r.AsBuilt.Simplified, diagram.DefaultASCIIOptions()))
			fmt.Println()
		}
	}

	if extractJSON != "" {
		if err := export.WriteJSONFile(extractJSON, results); err != nil {
			exitError("writing JSON: %v", err)
		}
		fmt.Printf("  Extraction written to: %s\n", extractJSON)
	}

	if extractPlot != "" {
		r := results[0]
		data := diagram.ProfileChartData{
			Section:        r.Line.Name,
			Design:         r.Design.Simplified,
			AsBuilt:        r.AsBuilt.Simplified,
			DesignBenches:  r.Design.Benches,
			AsBuiltBenches: r.AsBuilt.Benches,
		}
		if err := diagram.ExportProfileChart(data, extractPlot); err != nil {
			exitError("exporting chart: %v", err)
		}
		fmt.Printf("  Chart exported to: %s\n", extractPlot)
	}
	fmt.Println()
}
