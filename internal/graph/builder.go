package graph

import (
	"sort"
	"strings"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// Build constructs the dependency graph for a configuration snapshot.
// It never fails: edges pointing at undeclared entities stay in the edge
// list with no matching node, so the rule system can report them later.
func Build(configs map[string]*entity.Config) *Graph {
	g := &Graph{
		Nodes: make(map[string]*Node, len(configs)),
	}

	names := sortedNames(configs)

	for _, name := range names {
		cfg := configs[name]
		g.Nodes[name] = &Node{
			Name:      name,
			DependsOn: cfg.Dependencies(),
		}
	}

	for _, name := range names {
		cfg := configs[name]
		seen := make(map[string]bool)
		for _, fk := range cfg.ForeignKeys {
			if fk.Target == "" {
				continue
			}
			g.Edges = append(g.Edges, Edge{
				Source:     name,
				Target:     fk.Target,
				LocalKeys:  fk.LocalKeys,
				RemoteKeys: fk.RemoteKeys,
				Label:      edgeLabel(fk.LocalKeys, fk.RemoteKeys),
			})
			seen[fk.Target] = true
		}
		for _, dep := range cfg.DependsOn {
			if dep == "" || seen[dep] {
				continue
			}
			g.Edges = append(g.Edges, Edge{Source: name, Target: dep, Label: "depends on"})
			seen[dep] = true
		}
	}

	buildSourceGraph(g, configs, names)

	g.Cycles = findCycles(g)
	g.HasCycles = len(g.Cycles) > 0
	if !g.HasCycles {
		g.TopologicalOrder = topologicalOrder(g)
	}
	estimateDepths(g)

	return g
}

// buildSourceGraph derives the secondary entity <- source graph used only
// for visualization.
func buildSourceGraph(g *Graph, configs map[string]*entity.Config, names []string) {
	seen := make(map[string]bool)
	for _, name := range names {
		cfg := configs[name]
		src := cfg.Source
		kind := string(cfg.Kind)
		if cfg.Kind == entity.KindFixed {
			src = name + " (fixed)"
		}
		if src == "" {
			continue
		}
		if !seen[src] {
			seen[src] = true
			g.SourceNodes = append(g.SourceNodes, SourceNode{Name: src, Kind: kind})
		}
		g.SourceEdges = append(g.SourceEdges, SourceEdge{Source: name, Target: src})
	}
}

func edgeLabel(local, remote []string) string {
	if len(local) == 0 && len(remote) == 0 {
		return ""
	}
	return strings.Join(local, ",") + " → " + strings.Join(remote, ",")
}

// resolvedDeps returns the dependencies of name that exist as nodes,
// sorted for deterministic traversal.
func (g *Graph) resolvedDeps(name string) []string {
	node, ok := g.Nodes[name]
	if !ok {
		return nil
	}
	var deps []string
	for _, dep := range node.DependsOn {
		if _, ok := g.Nodes[dep]; ok {
			deps = append(deps, dep)
		}
	}
	sort.Strings(deps)
	return deps
}

func sortedNames(configs map[string]*entity.Config) []string {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
