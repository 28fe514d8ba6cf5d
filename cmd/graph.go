package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/analysis"
	"github.com/Lattice-Labs/lattice/internal/config"
)

var graphJSON bool

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the entity dependency graph",
	Long: `Build the dependency graph over all declared entities and print the
nodes, edges, detected cycles and the processing order.`,
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

		if graphJSON {
			data, err := json.MarshalIndent(a.Graph, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		g := a.Graph
		color.Cyan("🔗 %d entities, %d dependencies", len(g.Nodes), len(g.Edges))

		names := make([]string, 0, len(g.Nodes))
		for name := range g.Nodes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			node := g.Nodes[name]
			if len(node.DependsOn) == 0 {
				fmt.Printf("  %s\n", name)
				continue
			}
			fmt.Printf("  %s ← %s\n", name, strings.Join(node.DependsOn, ", "))
		}

		if g.HasCycles {
			color.Red("\n❌ Circular dependencies detected:")
			for _, cycle := range g.Cycles {
				color.Red("  %s", strings.Join(cycle, " → "))
			}
			return nil
		}

		color.Green("\n📋 Processing order: %s", strings.Join(g.TopologicalOrder, " → "))
		return nil
	},
}

func init() {
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Print the graph as JSON")
	rootCmd.AddCommand(graphCmd)
}
