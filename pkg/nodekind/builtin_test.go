package nodekind

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

func connect(t *testing.T, g *graph.Graph, from *graph.Node, to *graph.Node, port string) {
	t.Helper()
	require.NoError(t, g.ConnectPorts(from.Output("out"), to.Input(port)))
}

func TestBuiltins_Evaluate(t *testing.T) {
	reg := Default()
	g := graph.New(graph.WithResolver(reg))
	hook := reg.Hook()

	c1, _ := g.AddNode(Constant)
	c2, _ := g.AddNode(Constant)
	add, _ := g.AddNode(Add)
	mul, _ := g.AddNode(Multiply)
	clamp, _ := g.AddNode(Clamp)
	out, _ := g.AddNode(Output)

	c1.Payload[ValueKey] = 2
	c2.Payload[ValueKey] = "3.5"
	connect(t, g, c1, add, "a")
	connect(t, g, c2, add, "b")
	connect(t, g, add, mul, "a")
	mul.Payload["b"] = 0.1
	connect(t, g, mul, clamp, "in")
	clamp.Payload["max"] = 10
	connect(t, g, clamp, out, "in")

	for _, n := range []*graph.Node{c1, c2, add, mul, clamp, out} {
		require.NoError(t, hook(n), "node %s", n.Kind)
	}

	assert.Equal(t, 5.5, add.Payload[ValueKey])
	assert.InDelta(t, 0.55, mul.Payload[ValueKey], 1e-9)
	assert.InDelta(t, 0.55, out.Payload[ValueKey], 1e-9)

	mul.Payload["b"] = 100.0
	require.NoError(t, hook(mul))
	require.NoError(t, hook(clamp))
	assert.Equal(t, 10.0, clamp.Payload[ValueKey])
}

func TestBuiltins_Errors(t *testing.T) {
	reg := Default()
	g := graph.New(graph.WithResolver(reg))
	hook := reg.Hook()

	clamp, _ := g.AddNode(Clamp)
	clamp.Payload["min"] = 2.0
	clamp.Payload["max"] = 1.0
	assert.ErrorContains(t, hook(clamp), "empty")

	add, _ := g.AddNode(Add)
	add.Payload["a"] = []int{1}
	assert.ErrorContains(t, hook(add), "not numeric")

	stray, err := graph.NewNode("stray", "Stray", nil, nil)
	require.NoError(t, err)
	assert.Error(t, hook(stray))
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		err  bool
	}{
		{nil, 0, false},
		{1.5, 1.5, false},
		{float32(2), 2, false},
		{3, 3, false},
		{int64(4), 4, false},
		{json.Number("5.25"), 5.25, false},
		{"6", 6, false},
		{"six", 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		got, err := Float(tt.in)
		if tt.err {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
