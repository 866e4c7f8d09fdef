package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/gorecon/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Global options
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "gorecon",
	Short: "Open-pit bench reconciliation tool",
	Long: `gorecon - Go Open-Pit Bench Reconciliation

A CLI tool that compares the as-built geometry of an open-pit wall
against its design, section by section.

For every section line this tool:
  - Simplifies the design and as-built profiles (Ramer-Douglas-Peucker)
  - Classifies segments into faces and berms and merges them
  - Extracts benches (crest, toe, height, face angle, berm width)
  - Detects ramps and computes inter-ramp and overall slope angles
  - Pairs design and as-built benches by crest elevation
  - Grades every attribute as CUMPLE, FUERA DE TOLERANCIA or NO CUMPLE`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gorecon v%-47s║\n", version.Version)
		fmt.Println("  ║   Go Open-Pit Bench Reconciliation                        ║")
		fmt.Printf("  ║   %s ©  %-36s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool that reconciles as-built open-pit benches")
		fmt.Println("  against the mine design along section lines.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Bench extraction from design and as-built profiles")
		fmt.Println("    • Ramp detection, inter-ramp and overall slope angles")
		fmt.Println("    • Design to as-built bench matching with tiered tolerances")
		fmt.Println("    • Manual crest/toe corrections with partial re-evaluation")
		fmt.Println("    • Excel, JSON and chart exports")
		fmt.Println()
		fmt.Println("  Use 'gorecon --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
}
