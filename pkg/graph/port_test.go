package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPort(mult Multiplicity) *Port {
	n := &Node{id: "owner"}
	return newPort(n, PortSpec{Name: "p", Multiplicity: mult}, Output)
}

func TestPort_ConnectIsIdempotent(t *testing.T) {
	p := newTestPort(Multi)

	p.Connect("b", "in")
	p.Connect("b", "in")
	p.Connect("c", "in")

	assert.Equal(t, 2, p.ConnectionCount())
	assert.Equal(t, []Connection{{"b", "in"}, {"c", "in"}}, p.Connections())
}

func TestPort_ConnectDoesNotEnforceMultiplicity(t *testing.T) {
	p := newTestPort(Single)

	p.Connect("b", "in")
	p.Connect("c", "in")

	// policy belongs to the caller, the port just records
	assert.Equal(t, 2, p.ConnectionCount())
}

func TestPort_DisconnectRemovesAllMatches(t *testing.T) {
	p := newTestPort(Multi)
	// simulate a corrupted list carrying a duplicate
	p.connections = []Connection{{"b", "in"}, {"c", "in"}, {"b", "in"}}

	p.Disconnect("b", "in")

	assert.Equal(t, []Connection{{"c", "in"}}, p.Connections())
	assert.False(t, p.IsConnected("b", "in"))
}

func TestPort_DisconnectTwiceIsNoop(t *testing.T) {
	p := newTestPort(Multi)
	p.Connect("b", "in")

	p.Disconnect("b", "in")
	p.Disconnect("b", "in")

	assert.Zero(t, p.ConnectionCount())
}

func TestPort_DisconnectAll(t *testing.T) {
	p := newTestPort(Multi)
	p.Connect("b", "in")
	p.Connect("c", "x")

	p.DisconnectAll()

	assert.Empty(t, p.Connections())
}

func TestPort_ConnectionsReturnsCopy(t *testing.T) {
	p := newTestPort(Multi)
	p.Connect("b", "in")

	conns := p.Connections()
	conns[0].NodeID = "mutated"

	assert.True(t, p.IsConnected("b", "in"))
}

func TestParseDirectionAndMultiplicity(t *testing.T) {
	d, err := ParseDirection("out")
	assert.NoError(t, err)
	assert.Equal(t, Output, d)
	assert.Equal(t, Input, d.Opposite())

	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	m, err := ParseMultiplicity("multi")
	assert.NoError(t, err)
	assert.Equal(t, Multi, m)

	m, err = ParseMultiplicity("")
	assert.NoError(t, err)
	assert.Equal(t, Single, m)
	assert.Equal(t, "single", m.String())
}
