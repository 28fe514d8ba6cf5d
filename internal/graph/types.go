package graph

// Node is one entity in the dependency graph.
type Node struct {
	Name      string   `json:"name"`
	DependsOn []string `json:"depends_on,omitempty"`
	Depth     int      `json:"depth"`
}

// Edge records that Source depends on Target, carrying the foreign key
// column pairing when the dependency came from a foreign key.
type Edge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	LocalKeys  []string `json:"local_keys,omitempty"`
	RemoteKeys []string `json:"remote_keys,omitempty"`
	Label      string   `json:"label,omitempty"`
}

// SourceNode is a data source (table, query or fixed rows) feeding an
// entity. The source graph is informational only, used by visualization.
type SourceNode struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// SourceEdge links an entity to the source it materializes from.
type SourceEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the dependency graph over all declared entities.
// TopologicalOrder is only authoritative when HasCycles is false.
type Graph struct {
	Nodes            map[string]*Node `json:"nodes"`
	Edges            []Edge           `json:"edges"`
	HasCycles        bool             `json:"has_cycles"`
	Cycles           [][]string       `json:"cycles,omitempty"`
	TopologicalOrder []string         `json:"topological_order,omitempty"`
	SourceNodes      []SourceNode     `json:"source_nodes,omitempty"`
	SourceEdges      []SourceEdge     `json:"source_edges,omitempty"`
}
