package graph

import "sort"

// topologicalOrder runs Kahn's algorithm over the resolved dependency
// edges. Dependencies come before their dependents. The result is only
// complete when the graph is acyclic; callers must check HasCycles first.
func topologicalOrder(g *Graph) []string {
	inDegree := make(map[string]int, len(g.Nodes))
	dependents := make(map[string][]string, len(g.Nodes))

	for name := range g.Nodes {
		inDegree[name] = 0
	}
	for name := range g.Nodes {
		for _, dep := range g.resolvedDeps(name) {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.Nodes))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		next := dependents[name]
		sort.Strings(next)
		for _, dep := range next {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	return order
}
