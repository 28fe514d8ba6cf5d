package graph

// estimateDepths assigns a layout depth to every node. Dependencies are
// pushed deeper than their dependents by walking the topological order.
// With cycles there is no order to walk, so each node falls back to
// depth 1 when it has any dependency, 0 otherwise. Best-effort layout
// aid only, nothing downstream relies on it.
func estimateDepths(g *Graph) {
	if g.HasCycles || g.TopologicalOrder == nil {
		for _, node := range g.Nodes {
			if len(node.DependsOn) > 0 {
				node.Depth = 1
			}
		}
		return
	}

	for _, name := range g.TopologicalOrder {
		node := g.Nodes[name]
		for _, dep := range g.resolvedDeps(name) {
			depNode := g.Nodes[dep]
			if depNode.Depth < node.Depth+1 {
				depNode.Depth = node.Depth + 1
			}
		}
	}
}
