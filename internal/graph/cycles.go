package graph

import "sort"

// findCycles reports every dependency cycle as a closed walk of entity
// names (first element equals last). DFS roots and neighbors are visited
// in sorted name order so equal graphs produce equal reports.
func findCycles(g *Graph) [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var visit func(name string)
	visit = func(name string) {
		visited[name] = true
		onStack[name] = true
		path = append(path, name)

		for _, dep := range g.resolvedDeps(name) {
			if onStack[dep] {
				// The cycle is the path slice from dep's first occurrence
				// through the current node, closed with dep again.
				start := 0
				for i, n := range path {
					if n == dep {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, dep)
				cycles = append(cycles, cycle)
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}

		path = path[:len(path)-1]
		onStack[name] = false
	}

	roots := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		roots = append(roots, name)
	}
	sort.Strings(roots)

	for _, root := range roots {
		if !visited[root] {
			visit(root)
		}
	}

	return cycles
}
