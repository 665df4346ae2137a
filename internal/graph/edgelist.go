package graph

// EdgeList is the exact shape owed to the external graph-layout renderer:
// a flat list of nodes and directed edges, nothing more.
type EdgeList struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type Node struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Symbols int    `json:"symbols"`
}

type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Line     int    `json:"line"`
	Resolved bool   `json:"resolved"`
}

// EdgeList exports the graph in deterministic order: nodes by module ID
// (sorted file path), edges per module in statement order.
func (g *DependencyGraph) EdgeList() EdgeList {
	el := EdgeList{
		Nodes: make([]Node, 0, len(g.modules)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, mod := range g.modules {
		el.Nodes = append(el.Nodes, Node{
			Name:    mod.Name,
			Path:    mod.Path,
			Symbols: len(mod.Symbols),
		})
		for _, edge := range mod.Imports {
			el.Edges = append(el.Edges, Edge{
				From:     mod.Name,
				To:       edge.Target,
				Line:     edge.Line,
				Resolved: edge.Resolved,
			})
		}
	}
	return el
}
