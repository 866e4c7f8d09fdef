package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorecon/internal/section"
	"github.com/spf13/cobra"
)

var sectionsInput string

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the section lines of an input file",
	Long: `List every section line with its origin, azimuth, length and
horizontal direction vector (sin az, cos az).

Examples:
  gorecon sections -i sections.json`,
	Run: runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)

	sectionsCmd.Flags().StringVarP(&sectionsInput, "input", "i", "", "Path to sections JSON file [required]")
	sectionsCmd.MarkFlagRequired("input")
}

func runSections(cmd *cobra.Command, args []string) {
	input, err := section.LoadFromFile(sectionsInput)
	if err != nil {
		fmt.Printf("Error loading sections: %v\n", err)
		return
	}

	printHeader("SECTION LINES")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name\tSector\tOrigin X\tOrigin Y\tAzimuth\tLength\tDirection\tDesign\tAs-Built\n")
	fmt.Fprintf(w, "  ────\t──────\t────────\t────────\t───────\t──────\t─────────\t──────\t────────\n")
	for _, e := range input.Sections {
		dx, dy := e.Direction()
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%.2f\t%.1f°\t%.1f\t(%.3f, %.3f)\t%s\t%s\n",
			e.Name, e.Sector, e.Origin.X, e.Origin.Y, e.Azimuth, e.Length, dx, dy,
			describeSurface(e.Design), describeSurface(e.AsBuilt))
	}
	w.Flush()
	fmt.Println()
	fmt.Printf("  %d sections\n", len(input.Sections))
	fmt.Println()
}

func describeSurface(in section.SurfaceInput) string {
	switch {
	case len(in.Segments) > 0:
		return fmt.Sprintf("%d segments", len(in.Segments))
	case len(in.Profile) > 0:
		return fmt.Sprintf("%d points", len(in.Profile))
	}
	return "—"
}
