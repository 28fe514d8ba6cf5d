package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/analysis"
	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/tasks"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the entity task board",
	Long: `Show each entity's task status (done/todo/ignored), its derived
priority, what blocks it, and overall completion counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		a, err := analysis.Run(context.Background(), cfg, analysis.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		statuses := a.Tracker.Statuses()
		names := make([]string, 0, len(statuses))
		for name := range statuses {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			printStatus(statuses[name])
		}

		stats := a.Tracker.Stats()
		color.Cyan("\n📊 %d/%d done (%d ignored), required: %d/%d",
			stats.Done, stats.Total, stats.Ignored, stats.RequiredDone, stats.RequiredTotal)
		return nil
	},
}

func printStatus(status *tasks.EntityStatus) {
	icon := "⬜"
	switch status.Status {
	case tasks.StatusDone:
		icon = "✅"
	case tasks.StatusIgnored:
		icon = "🚫"
	}

	line := fmt.Sprintf("%s %-20s %s", icon, status.Name, status.Priority)
	switch status.Priority {
	case tasks.PriorityCritical:
		color.Red(line)
	case tasks.PriorityReady:
		color.Green(line)
	case tasks.PriorityWaiting:
		color.Yellow(line)
	default:
		fmt.Println(line)
	}

	if len(status.BlockedBy) > 0 {
		fmt.Printf("     ⏳ blocked by: %s\n", strings.Join(status.BlockedBy, ", "))
	}
	for _, msg := range status.Issues {
		fmt.Printf("     • %s\n", msg)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
