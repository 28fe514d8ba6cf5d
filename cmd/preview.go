package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/analysis"
	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/dataset"
	"github.com/Lattice-Labs/lattice/internal/project"
)

var previewRows int

var previewCmd = &cobra.Command{
	Use:   "preview <entity>",
	Short: "Realize an entity and cache a preview",
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

		cache := dataset.NewCache(cfg.PreviewPath)
		if err := cache.Put(name, ds); err != nil {
			return err
		}

		color.Green("✅ Cached preview for %s (%d rows)", name, len(ds.Rows))
		fmt.Printf("  %s\n", strings.Join(ds.Columns, " | "))
		limit := previewRows
		if limit > len(ds.Rows) {
			limit = len(ds.Rows)
		}
		for _, row := range ds.Rows[:limit] {
			cells := make([]string, len(ds.Columns))
			for i, col := range ds.Columns {
				cells[i] = fmt.Sprintf("%v", row[col])
			}
			fmt.Printf("  %s\n", strings.Join(cells, " | "))
		}
		return nil
	},
	Args: cobra.ExactArgs(1),
}

// openEngine returns a rowless engine for fixed-only projects and a
// connected one otherwise.
func openEngine(ctx context.Context, cfg *config.Config) (*dataset.Engine, func(), error) {
	engine, cleanup, err := analysis.Engine(ctx, cfg)
	if err != nil {
		// fixed entities can still be previewed without a database
		return dataset.NewEngine(nil, cfg.Validation.RowLimit), func() {}, nil
	}
	return engine, cleanup, nil
}

func init() {
	previewCmd.Flags().IntVar(&previewRows, "rows", 10, "Rows to print")
	rootCmd.AddCommand(previewCmd)
}
