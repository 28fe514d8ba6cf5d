package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "0.4.2"

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Declarative configuration and validation for data pipelines",
	Long: `
Lattice configures multi-entity data-transformation pipelines declaratively.
Each entity declares its source, natural and foreign keys and dependencies;
lattice builds the dependency graph, validates the configuration and the
realized data, and tracks per-entity progress on a task board.

Common commands:
  lattice init        Scaffold lattice.yaml and the entities directory
  lattice graph       Show the dependency graph and processing order
  lattice validate    Validate the configuration (--data adds data checks)
  lattice status      Show the task board
  lattice studio      Serve the board and graph over HTTP`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		godotenv.Load()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("lattice %s\n", Version))
}
