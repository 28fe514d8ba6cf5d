package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/project"
	"github.com/Lattice-Labs/lattice/internal/rules"
	"github.com/Lattice-Labs/lattice/internal/submission"
)

var submitCmd = &cobra.Command{
	Use:   "submit <entity>",
	Short: "Check a realized entity against the submission target",
	Long: `Realize an entity and run the submission rules against the target
schema (primary keys, required columns, type compatibility). The dataset
is only reported on, never uploaded; hand it to the ingestion pipeline
once the check passes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		name := args[0]
		store := project.NewStore(cfg.EntitiesDir, cfg.StatePath)
		configs, err := store.LoadConfigs()
		if err != nil {
			return err
		}
		entityCfg, ok := configs[name]
		if !ok {
			return fmt.Errorf("unknown entity: %s", name)
		}

		target, err := submission.LoadTarget(cfg.TargetPath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		engine, cleanup, err := openEngine(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		ds, err := engine.Fetch(ctx, entityCfg)
		if err != nil {
			return fmt.Errorf("failed to realize %s: %w", name, err)
		}

		color.Cyan("📤 Checking %s against target %s (%d rows)", name, target.Name, len(ds.Rows))
		result := submission.Validate(&submission.Unit{
			Entity:  name,
			Dataset: ds,
			Target:  target,
		}, &rules.Context{SampleLimit: cfg.Validation.SampleLimit})

		printResult(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
