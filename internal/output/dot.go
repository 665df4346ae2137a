package output

import (
	"fmt"
	"strings"

	"refimpact/internal/graph"
)

type DOTGenerator struct {
	graph *graph.DependencyGraph
}

func NewDOTGenerator(g *graph.DependencyGraph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

// Generate renders the import graph in Graphviz DOT form. Modules and edges
// on a cycle are highlighted; unresolved targets render as dashed grey edges
// to external nodes.
func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleEdges := make(map[string]map[string]bool)
	cycleModules := make(map[string]bool)
	for _, cycle := range cycles {
		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			if cycleEdges[from] == nil {
				cycleEdges[from] = make(map[string]bool)
			}
			cycleEdges[from][to] = true
			cycleModules[from] = true
		}
	}

	el := d.graph.EdgeList()

	internal := make(map[string]bool, len(el.Nodes))
	for _, n := range el.Nodes {
		internal[n.Name] = true
	}

	buf.WriteString("  subgraph cluster_project {\n")
	buf.WriteString("    label=\"Project Modules\";\n")
	buf.WriteString("    style=filled;\n")
	buf.WriteString("    color=\"whitesmoke\";\n")
	buf.WriteString("    node [fillcolor=\"white\", style=\"rounded,filled\"];\n")
	for _, n := range el.Nodes {
		label := fmt.Sprintf("%s\\n(%d symbols)", n.Name, n.Symbols)
		if cycleModules[n.Name] {
			fmt.Fprintf(&buf, "    %q [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", penwidth=2.0];\n", n.Name, label)
		} else {
			fmt.Fprintf(&buf, "    %q [label=\"%s\", color=\"darkslategrey\"];\n", n.Name, label)
		}
	}
	buf.WriteString("  }\n\n")

	buf.WriteString("  // Unresolved targets (external packages, dynamic imports)\n")
	buf.WriteString("  node [fillcolor=\"gainsboro\", style=\"rounded,filled\", color=\"grey\"];\n")
	seen := make(map[string]bool)
	for _, e := range el.Edges {
		if internal[e.To] || seen[e.To] {
			continue
		}
		seen[e.To] = true
		fmt.Fprintf(&buf, "  %q;\n", e.To)
	}
	buf.WriteString("\n")

	for _, e := range el.Edges {
		switch {
		case cycleEdges[e.From] != nil && cycleEdges[e.From][e.To]:
			fmt.Fprintf(&buf, "  %q -> %q [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", e.From, e.To)
		case e.Resolved:
			fmt.Fprintf(&buf, "  %q -> %q [color=\"forestgreen\", penwidth=1.8];\n", e.From, e.To)
		default:
			fmt.Fprintf(&buf, "  %q -> %q [color=\"grey\", style=dashed];\n", e.From, e.To)
		}
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_module [label=\"Project Module\", fillcolor=\"white\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_external [label=\"External Target\", fillcolor=\"gainsboro\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_cycle [label=\"Import Cycle\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\"];\n")
	buf.WriteString("  }\n")

	buf.WriteString("}\n")

	return buf.String(), nil
}
