package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/analysis"
	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/rules"
)

var validateWithData bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pipeline configuration",
	Long: `Run the structural rules against all declared entities. With --data,
also realize every entity and run the data-aware validators (column
existence, key uniqueness, referential integrity, type checks).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		a, err := analysis.Run(context.Background(), cfg, analysis.Options{WithData: validateWithData})
		if err != nil {
			return err
		}
		defer a.Close()

		printResult(a.Result)
		return nil
	},
}

func printResult(result *rules.Result) {
	for _, issue := range result.All() {
		switch issue.Severity {
		case rules.SeverityError:
			color.Red("  ❌ [%s] %s", issue.Code, issue.Message)
		case rules.SeverityWarning:
			color.Yellow("  ⚠️  [%s] %s", issue.Code, issue.Message)
		default:
			color.Cyan("  ℹ️  [%s] %s", issue.Code, issue.Message)
		}
		if issue.Suggestion != "" {
			fmt.Printf("      💡 %s\n", issue.Suggestion)
		}
	}

	errCount, warnCount, infoCount := result.Counts()
	if result.Valid() {
		color.Green("\n✅ Configuration is valid (%d warnings, %d infos)", warnCount, infoCount)
		return
	}
	color.Red("\n❌ Validation failed: %d errors, %d warnings, %d infos", errCount, warnCount, infoCount)
}

func init() {
	validateCmd.Flags().BoolVar(&validateWithData, "data", false, "Also validate realized datasets")
	rootCmd.AddCommand(validateCmd)
}
