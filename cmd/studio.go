package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/studio"
)

var studioPort int

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Serve the task board and dependency graph over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		port := cfg.Studio.Port
		if studioPort != 0 {
			port = studioPort
		}

		color.Cyan("🎛️  Lattice studio listening on http://localhost:%d", port)
		color.Cyan("   GET /api/graph, /api/validation, /api/status")
		return studio.NewServer(cfg, port).Start()
	},
}

func init() {
	studioCmd.Flags().IntVar(&studioPort, "port", 0, "Override the configured port")
	rootCmd.AddCommand(studioCmd)
}
