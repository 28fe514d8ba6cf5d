package graph

import (
	"testing"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

func TestBuildSimpleChain(t *testing.T) {
	configs := map[string]*entity.Config{
		"location": {Name: "location", Kind: entity.KindTable, Source: "locations"},
		"site": {
			Name: "site", Kind: entity.KindTable, Source: "sites",
			ForeignKeys: []entity.ForeignKey{
				{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
			},
		},
	}

	g := Build(configs)

	if g.HasCycles {
		t.Errorf("Expected no cycles, got %v", g.Cycles)
	}
	if len(g.TopologicalOrder) != 2 {
		t.Fatalf("Expected 2 entities in order, got %v", g.TopologicalOrder)
	}
	if g.TopologicalOrder[0] != "location" || g.TopologicalOrder[1] != "site" {
		t.Errorf("Expected order [location site], got %v", g.TopologicalOrder)
	}
	if len(g.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(g.Edges))
	}
	if g.Edges[0].Label != "location_id → id" {
		t.Errorf("Expected edge label 'location_id → id', got %q", g.Edges[0].Label)
	}
}

func TestBuildDetectsCycle(t *testing.T) {
	configs := map[string]*entity.Config{
		"a": {Name: "a", Kind: entity.KindTable, Source: "a", DependsOn: []string{"b"}},
		"b": {Name: "b", Kind: entity.KindTable, Source: "b", DependsOn: []string{"a"}},
	}

	g := Build(configs)

	if !g.HasCycles {
		t.Fatal("Expected cycle to be detected")
	}
	if len(g.Cycles) == 0 {
		t.Fatal("HasCycles is true but no cycles reported")
	}
	cycle := g.Cycles[0]
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("Cycle must be a closed walk, got %v", cycle)
	}
	hasA, hasB := false, false
	for _, name := range cycle {
		if name == "a" {
			hasA = true
		}
		if name == "b" {
			hasB = true
		}
	}
	if !hasA || !hasB {
		t.Errorf("Expected cycle to contain both a and b, got %v", cycle)
	}
	if g.TopologicalOrder != nil {
		t.Errorf("Topological order must not be exposed with cycles, got %v", g.TopologicalOrder)
	}
}

func TestTopologicalOrderRespectsAllEdges(t *testing.T) {
	configs := map[string]*entity.Config{
		"measurement": {Name: "measurement", Kind: entity.KindTable, Source: "measurements",
			DependsOn: []string{"sample", "parameter"}},
		"sample": {Name: "sample", Kind: entity.KindTable, Source: "samples",
			ForeignKeys: []entity.ForeignKey{
				{Target: "site", LocalKeys: []string{"site_code"}, RemoteKeys: []string{"code"}},
			}},
		"parameter": {Name: "parameter", Kind: entity.KindFixed},
		"site":      {Name: "site", Kind: entity.KindTable, Source: "sites"},
	}

	g := Build(configs)

	if g.HasCycles {
		t.Fatalf("Expected acyclic graph, got cycles %v", g.Cycles)
	}
	if len(g.TopologicalOrder) != len(configs) {
		t.Fatalf("Order must be a permutation of all nodes, got %v", g.TopologicalOrder)
	}
	pos := make(map[string]int)
	for i, name := range g.TopologicalOrder {
		pos[name] = i
	}
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.Target]; !ok {
			continue
		}
		if pos[e.Target] >= pos[e.Source] {
			t.Errorf("Edge %s -> %s violated by order %v", e.Source, e.Target, g.TopologicalOrder)
		}
	}
}

func TestDanglingDependencyKeptAsEdge(t *testing.T) {
	configs := map[string]*entity.Config{
		"sample": {Name: "sample", Kind: entity.KindTable, Source: "samples",
			DependsOn: []string{"ghost"}},
	}

	g := Build(configs)

	if g.HasCycles {
		t.Error("Dangling dependency must not report a cycle")
	}
	if len(g.Edges) != 1 || g.Edges[0].Target != "ghost" {
		t.Fatalf("Expected dangling edge to ghost, got %v", g.Edges)
	}
	if _, ok := g.Nodes["ghost"]; ok {
		t.Error("Undeclared target must not become a node")
	}
	if len(g.TopologicalOrder) != 1 {
		t.Errorf("Expected order over declared nodes only, got %v", g.TopologicalOrder)
	}
}

func TestDepthPushesDependenciesDeeper(t *testing.T) {
	configs := map[string]*entity.Config{
		"location": {Name: "location", Kind: entity.KindTable, Source: "locations"},
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			DependsOn: []string{"location"}},
	}

	g := Build(configs)

	if g.Nodes["site"].Depth != 0 {
		t.Errorf("Expected site depth 0, got %d", g.Nodes["site"].Depth)
	}
	if g.Nodes["location"].Depth != 1 {
		t.Errorf("Expected location depth 1, got %d", g.Nodes["location"].Depth)
	}
}

func TestDepthFallbackWithCycles(t *testing.T) {
	configs := map[string]*entity.Config{
		"a": {Name: "a", Kind: entity.KindTable, Source: "a", DependsOn: []string{"b"}},
		"b": {Name: "b", Kind: entity.KindTable, Source: "b", DependsOn: []string{"a"}},
		"c": {Name: "c", Kind: entity.KindTable, Source: "c"},
	}

	g := Build(configs)

	if g.Nodes["a"].Depth != 1 || g.Nodes["b"].Depth != 1 {
		t.Errorf("Expected fallback depth 1 for cycle members, got a=%d b=%d",
			g.Nodes["a"].Depth, g.Nodes["b"].Depth)
	}
	if g.Nodes["c"].Depth != 0 {
		t.Errorf("Expected depth 0 for dependency-free node, got %d", g.Nodes["c"].Depth)
	}
}

func TestSourceGraph(t *testing.T) {
	configs := map[string]*entity.Config{
		"site":   {Name: "site", Kind: entity.KindTable, Source: "sites"},
		"sample": {Name: "sample", Kind: entity.KindTable, Source: "sites"},
	}

	g := Build(configs)

	if len(g.SourceNodes) != 1 {
		t.Fatalf("Expected shared source node to be deduplicated, got %v", g.SourceNodes)
	}
	if len(g.SourceEdges) != 2 {
		t.Errorf("Expected 2 source edges, got %v", g.SourceEdges)
	}
}
