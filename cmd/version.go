package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gorecon/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gorecon",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
		fmt.Println("Open-Pit Bench Reconciliation Tool")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
