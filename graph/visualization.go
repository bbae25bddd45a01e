package graph

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Exporter renders a graph in different formats. It only reads the wiring:
// nothing is evaluated and no cache is touched.
type Exporter struct {
	graph *Graph
}

// NewExporter creates a new graph exporter for the given graph
func NewExporter(g *Graph) *Exporter {
	return &Exporter{graph: g}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
}

// Edge is a producer to consumer link between two member nodes.
type Edge struct {
	From *Node
	To   *Node
}

// Edges lists every edge between members, ordered by producer then by the
// producer's successor order.
func (ge *Exporter) Edges() []Edge {
	var edges []Edge
	for _, n := range ge.graph.nodes {
		for _, succ := range n.successors {
			if ge.graph.Contains(succ) {
				edges = append(edges, Edge{From: n, To: succ})
			}
		}
	}
	return edges
}

var unsafeIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

func ident(n *Node) string {
	return unsafeIdent.ReplaceAllString(n.id, "_")
}

// DrawMermaid generates a Mermaid diagram representation of the graph
func (ge *Exporter) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{
		Direction: "TD",
	})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options
func (ge *Exporter) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	for _, n := range ge.graph.nodes {
		switch {
		case slices.Contains(ge.graph.inputs, n):
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", ident(n), n.Label()))
		case slices.Contains(ge.graph.outputs, n):
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", ident(n), n.Label()))
		default:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ident(n), n.Label()))
		}
	}

	for _, e := range ge.Edges() {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", ident(e.From), ident(e.To)))
	}

	for _, n := range ge.graph.inputs {
		sb.WriteString(fmt.Sprintf("    style %s fill:#90EE90\n", ident(n)))
	}
	for _, n := range ge.graph.outputs {
		sb.WriteString(fmt.Sprintf("    style %s fill:#FFB6C1\n", ident(n)))
	}
	for _, n := range ge.graph.nodes {
		if n.muted {
			sb.WriteString(fmt.Sprintf("    style %s stroke-dasharray: 5 5\n", ident(n)))
		}
	}

	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph
func (ge *Exporter) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")

	for _, n := range ge.graph.nodes {
		attrs := fmt.Sprintf("label=%q", n.Label())
		switch {
		case slices.Contains(ge.graph.inputs, n):
			attrs += ", shape=ellipse, style=filled, fillcolor=lightgreen"
		case slices.Contains(ge.graph.outputs, n):
			attrs += ", style=filled, fillcolor=lightpink"
		}
		if n.muted {
			attrs += ", color=gray"
		}
		sb.WriteString(fmt.Sprintf("    %s [%s];\n", ident(n), attrs))
	}

	for _, e := range ge.Edges() {
		sb.WriteString(fmt.Sprintf("    %s -> %s;\n", ident(e.From), ident(e.To)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// DrawASCII generates an ASCII tree of the graph, walking successors from each input.
func (ge *Exporter) DrawASCII() string {
	if len(ge.graph.inputs) == 0 {
		return "No inputs\n"
	}

	var sb strings.Builder
	visited := make(map[*Node]bool)

	sb.WriteString("Graph Data Flow:\n")
	for i, in := range ge.graph.inputs {
		ge.drawASCIINode(in, "", i == len(ge.graph.inputs)-1, visited, &sb)
	}
	return sb.String()
}

func (ge *Exporter) drawASCIINode(n *Node, prefix string, isLast bool, visited map[*Node]bool, sb *strings.Builder) {
	connector := "├──"
	nextPrefix := prefix + "│   "
	if isLast {
		connector = "└──"
		nextPrefix = prefix + "    "
	}

	if visited[n] {
		// Shared subtrees are drawn once
		sb.WriteString(fmt.Sprintf("%s%s %s (see above)\n", prefix, connector, n.Label()))
		return
	}
	visited[n] = true

	sb.WriteString(fmt.Sprintf("%s%s %s\n", prefix, connector, n.Label()))

	var children []*Node
	for _, succ := range n.successors {
		if ge.graph.Contains(succ) {
			children = append(children, succ)
		}
	}
	for i, child := range children {
		ge.drawASCIINode(child, nextPrefix, i == len(children)-1, visited, sb)
	}
}

// DagreNode is a node entry of DagreData.
type DagreNode struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Variant string `json:"variant"`
	// Type is "input", "output" or empty
	Type  string `json:"type,omitempty"`
	Muted bool   `json:"muted,omitempty"`
}

// DagreEdge is an edge entry of DagreData.
type DagreEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Dagre is a JSON-ready layout payload for dagre-style renderers.
type Dagre struct {
	Nodes []DagreNode `json:"nodes"`
	Edges []DagreEdge `json:"edges"`
}

// DagreData returns the nodes and edges of the graph for a dagre renderer.
func (ge *Exporter) DagreData() Dagre {
	d := Dagre{
		Nodes: make([]DagreNode, 0, len(ge.graph.nodes)),
		Edges: []DagreEdge{},
	}
	for _, n := range ge.graph.nodes {
		dn := DagreNode{ID: n.id, Label: n.Label(), Variant: n.variant, Muted: n.muted}
		switch {
		case slices.Contains(ge.graph.inputs, n):
			dn.Type = "input"
		case slices.Contains(ge.graph.outputs, n):
			dn.Type = "output"
		}
		d.Nodes = append(d.Nodes, dn)
	}
	for _, e := range ge.Edges() {
		d.Edges = append(d.Edges, DagreEdge{Source: e.From.id, Target: e.To.id})
	}
	return d
}
