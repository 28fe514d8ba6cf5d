package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/dataset"
	"github.com/Lattice-Labs/lattice/internal/project"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project setup and database connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		color.Green("✅ lattice.yaml loaded (provider: %s)", cfg.Database.Provider)

		store := project.NewStore(cfg.EntitiesDir, cfg.StatePath)
		configs, err := store.LoadConfigs()
		if err != nil {
			color.Red("❌ entities: %v", err)
			return nil
		}
		color.Green("✅ %d entities declared in %s/", len(configs), cfg.EntitiesDir)

		conn, err := dataset.NewConnection(cfg.Database.Provider, cfg.Database.URLEnv)
		if err != nil {
			color.Yellow("⚠️  database unreachable: %v", err)
			color.Yellow("   structural validation still works, --data checks will not")
			return nil
		}
		defer conn.Close()
		color.Green("✅ database reachable via %s", cfg.Database.URLEnv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
