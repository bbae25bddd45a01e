package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualization(t *testing.T) {
	x := NewVariable(WithName("x"))
	a := Must(NewIdentity(WithName("a")).Call(x))
	b := Must(NewIdentity(WithName("b")).Call(x))
	y := Must(Plus(a, b, WithName("y")))
	g := New([]*Node{x}, []*Node{y})
	require.NoError(t, b.Mute(nil))

	exporter := NewExporter(g)

	edges := exporter.Edges()
	assert.Len(t, edges, 4)

	mermaid := exporter.DrawMermaid()
	assert.Contains(t, mermaid, "flowchart TD")
	assert.Contains(t, mermaid, x.ID()+"([\"x-("+x.ID()+")\"])")
	assert.Contains(t, mermaid, y.ID()+"[[\"y-("+y.ID()+")\"]]")
	assert.Contains(t, mermaid, x.ID()+" --> "+a.ID())
	assert.Contains(t, mermaid, b.ID()+" --> "+y.ID())
	assert.Contains(t, mermaid, "style "+b.ID()+" stroke-dasharray: 5 5")

	mermaidLR := exporter.DrawMermaidWithOptions(MermaidOptions{Direction: "LR"})
	assert.Contains(t, mermaidLR, "flowchart LR")

	dot := exporter.DrawDOT()
	assert.Contains(t, dot, "digraph G {")
	assert.Contains(t, dot, x.ID()+" -> "+b.ID()+";")
	assert.Contains(t, dot, "fillcolor=lightgreen")

	ascii := exporter.DrawASCII()
	assert.Contains(t, ascii, "└── "+x.Label())
	assert.Contains(t, ascii, y.Label())
	assert.Contains(t, ascii, "(see above)")

	dagre := exporter.DagreData()
	require.Len(t, dagre.Nodes, 4)
	assert.Len(t, dagre.Edges, 4)
	types := make(map[string]string)
	for _, n := range dagre.Nodes {
		types[n.ID] = n.Type
	}
	assert.Equal(t, "input", types[x.ID()])
	assert.Equal(t, "output", types[y.ID()])
	assert.Equal(t, "", types[a.ID()])

	raw, err := json.Marshal(dagre)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"source":"`+x.ID()+`"`)

	for _, n := range g.Nodes() {
		assert.False(t, n.Evaluated())
	}
}

func TestVisualizationSanitizesIdentifiers(t *testing.T) {
	src := NewNode("my-source", 0, EvalFunc(func([]any) (any, error) { return 1, nil }))
	out := Must(NewIdentity().Call(src))
	g := New([]*Node{src}, []*Node{out})

	mermaid := NewExporter(g).DrawMermaid()
	assert.Contains(t, mermaid, "my_source_")
	assert.NotContains(t, mermaid, "my-source_0 -->")

	assert.Equal(t, "No inputs\n", NewExporter(New(nil, []*Node{out})).DrawASCII())
}
