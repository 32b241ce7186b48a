package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// Two sources compete for one single input: the second connect replaces the
// first, and the displaced source is marked dirty along with both new ends.
func TestConnect_SingleInputReplacesExisting(t *testing.T) {
	s, _ := newTestSession(t)
	a := mustCreate(t, s, "source")
	c := mustCreate(t, s, "source")
	b := mustCreate(t, s, "sink")

	require.NoError(t, s.Connect(a, "out", b, "in"))
	settle(t, s)

	require.NoError(t, s.Connect(c, "out", b, "in"))

	in, _ := s.Graph().Port(b, "in", graph.Input)
	assert.Equal(t, []graph.Connection{{NodeID: c, PortName: "out"}}, in.Connections())
	aOut, _ := s.Graph().Port(a, "out", graph.Output)
	assert.Zero(t, aOut.ConnectionCount())

	for _, id := range []string{a, b, c} {
		assert.True(t, s.Propagator().IsDirty(id), "%s should be dirty", id)
	}
	assertSymmetric(t, s.Graph())
}

func TestConnect_SingleOutputEvictsItsOwnConnection(t *testing.T) {
	s, _ := newTestSession(t)
	x := mustCreate(t, s, "exclusive")
	b1 := mustCreate(t, s, "bus")
	b2 := mustCreate(t, s, "bus")

	require.NoError(t, s.Connect(x, "out", b1, "in"))
	settle(t, s)
	require.NoError(t, s.Connect(x, "out", b2, "in"))

	out, _ := s.Graph().Port(x, "out", graph.Output)
	assert.Equal(t, []graph.Connection{{NodeID: b2, PortName: "in"}}, out.Connections())
	b1In, _ := s.Graph().Port(b1, "in", graph.Input)
	assert.Zero(t, b1In.ConnectionCount())
	assert.True(t, s.Propagator().IsDirty(b1))
	assertSymmetric(t, s.Graph())
}

func TestConnect_MultiPortsAccumulate(t *testing.T) {
	s, _ := newTestSession(t)
	src := mustCreate(t, s, "source")
	bus := mustCreate(t, s, "bus")
	other := mustCreate(t, s, "source")

	require.NoError(t, s.Connect(src, "out", bus, "in"))
	require.NoError(t, s.Connect(other, "out", bus, "in"))

	in, _ := s.Graph().Port(bus, "in", graph.Input)
	assert.Equal(t, 2, in.ConnectionCount())
}

func TestConnect_ExistingEdgeIsNoop(t *testing.T) {
	s, _ := newTestSession(t)
	a := mustCreate(t, s, "source")
	b := mustCreate(t, s, "sink")
	require.NoError(t, s.Connect(a, "out", b, "in"))
	settle(t, s)

	require.NoError(t, s.Connect(a, "out", b, "in"))

	assert.Zero(t, s.Propagator().Len())
	assert.Len(t, s.Graph().Connections(), 1)
}

func TestConnect_MissingPortLeavesGraphUntouched(t *testing.T) {
	s, reg := newMetricsSession(t)
	a := mustCreate(t, s, "source")
	b := mustCreate(t, s, "sink")
	require.NoError(t, s.Connect(a, "out", b, "in"))
	settle(t, s)
	before := s.Graph().Connections()

	err := s.Connect(a, "nope", b, "in")
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrPortNotFound))

	err = s.Connect(a, "out", "ghost", "in")
	assert.True(t, errors.Is(err, graph.ErrNodeNotFound))

	assert.Equal(t, before, s.Graph().Connections())
	assert.Zero(t, s.Propagator().Len())
	assert.Equal(t, 2.0, counterValue(t, reg.GraphRejectedConnections.WithLabelValues("not_found")))
}

func TestConnectPorts_WrongDirection(t *testing.T) {
	s, reg := newMetricsSession(t)
	a := mustCreate(t, s, "pass")
	b := mustCreate(t, s, "pass")
	require.NoError(t, s.Connect(a, "out", b, "in"))
	settle(t, s)

	aIn, _ := s.Graph().Port(a, "in", graph.Input)
	bOut, _ := s.Graph().Port(b, "out", graph.Output)
	err := s.ConnectPorts(aIn, bOut)
	assert.True(t, errors.Is(err, graph.ErrInvalidPortPair))

	// the rejected call must not have evicted a's existing input
	assert.Len(t, s.Graph().Connections(), 1)
	assert.Equal(t, 1.0, counterValue(t, reg.GraphRejectedConnections.WithLabelValues("direction")))
}

func TestConnectPorts_DetachedNode(t *testing.T) {
	s, _ := newTestSession(t)
	b := mustCreate(t, s, "sink")
	loose, err := graph.NewNode("source", "Loose", nil, []graph.PortSpec{{Name: "out"}})
	require.NoError(t, err)

	in, _ := s.Graph().Port(b, "in", graph.Input)
	err = s.ConnectPorts(loose.Output("out"), in)
	assert.True(t, errors.Is(err, graph.ErrNodeNotFound))
	assert.Zero(t, in.ConnectionCount())

	assert.True(t, errors.Is(s.ConnectPorts(nil, in), graph.ErrPortNotFound))
}

func TestConnect_SelfLoopAllowed(t *testing.T) {
	s, _ := newTestSession(t)
	p := mustCreate(t, s, "pass")

	require.NoError(t, s.Connect(p, "out", p, "in"))

	assert.Equal(t, []string{p}, s.Graph().Successors(p))
	assertSymmetric(t, s.Graph())
}

func TestDisconnect(t *testing.T) {
	s, _ := newTestSession(t)
	a := mustCreate(t, s, "source")
	b := mustCreate(t, s, "sink")
	require.NoError(t, s.Connect(a, "out", b, "in"))
	settle(t, s)

	require.NoError(t, s.Disconnect(a, "out", b, "in"))
	assert.Empty(t, s.Graph().Connections())
	assert.True(t, s.Propagator().IsDirty(a))
	assert.True(t, s.Propagator().IsDirty(b))
	settle(t, s)

	// nothing left to remove: no marks
	require.NoError(t, s.Disconnect(a, "out", b, "in"))
	assert.Zero(t, s.Propagator().Len())

	err := s.Disconnect(a, "missing", b, "in")
	assert.True(t, errors.Is(err, graph.ErrPortNotFound))
}
