package algorithms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDAG_EmptyGraph(t *testing.T) {
	assert.True(t, IsDAG(newAdjGraph()))
}

func TestTopologicalSort_Chain(t *testing.T) {
	g := chainGraph(t, "a", "b", "c")

	sorted, err := TopologicalSort(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sorted)
}

func TestTopologicalSort_RejectsCycle(t *testing.T) {
	g := newAdjGraph("a", "b").edge("a", "b").edge("b", "a")

	_, err := TopologicalSort(g)
	assert.True(t, errors.Is(err, ErrNotDAG))
}

func TestTopologicalOrder_DiamondDiscoveryOrder(t *testing.T) {
	// ids listed in an order that violates the edges
	g := newAdjGraph().edge("a", "b").edge("a", "c").edge("b", "d").edge("c", "d")

	sorted, cyclic := TopologicalOrder([]string{"d", "b", "a", "c"}, g.Successors)
	assert.Empty(t, cyclic)
	require.Len(t, sorted, 4)
	pos := make(map[string]int)
	for i, id := range sorted {
		pos[id] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["a"], pos["c"])
	assert.Less(t, pos["b"], pos["d"])
	assert.Less(t, pos["c"], pos["d"])
}

func TestTopologicalOrder_IgnoresEdgesOutsideSubset(t *testing.T) {
	g := newAdjGraph().edge("a", "x").edge("x", "b")

	sorted, cyclic := TopologicalOrder([]string{"b", "a"}, g.Successors)
	assert.Empty(t, cyclic)
	assert.Equal(t, []string{"b", "a"}, sorted, "no edge inside the subset, input order kept")
}

func TestTopologicalOrder_CycleLeftovers(t *testing.T) {
	g := newAdjGraph().edge("a", "b").edge("b", "c").edge("c", "b").edge("c", "d")

	sorted, cyclic := TopologicalOrder([]string{"a", "b", "c", "d"}, g.Successors)
	assert.Equal(t, []string{"a"}, sorted)
	assert.Equal(t, []string{"b", "c", "d"}, cyclic)
}

func TestDownstream(t *testing.T) {
	g := newAdjGraph().edge("a", "b").edge("a", "c").edge("b", "d").edge("c", "d")

	assert.Equal(t, []string{"b", "c", "d"}, Downstream(g.Successors, "a"))
	assert.Empty(t, Downstream(g.Successors, "d"))

	loop := newAdjGraph().edge("a", "b").edge("b", "a")
	assert.Equal(t, []string{"b", "a"}, Downstream(loop.Successors, "a"))
}

func TestReachableWithin(t *testing.T) {
	g := newAdjGraph().edge("a", "b").edge("b", "c").edge("c", "d")

	byHop := ReachableWithin(g.Successors, "a", 2)
	assert.Equal(t, map[int][]string{1: {"b"}, 2: {"c"}}, byHop)
	assert.Empty(t, ReachableWithin(g.Successors, "a", 0))
}

func TestCondensedOrder_DownstreamOfCycleRunsAfterIt(t *testing.T) {
	// b lists d before c, so discovery order puts d ahead of c
	g := newAdjGraph().edge("a", "b").edge("b", "d").edge("b", "c").edge("c", "b").edge("c", "d")

	order, cyclic := CondensedOrder([]string{"a", "b", "d", "c"}, g.Successors)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
	assert.Equal(t, []string{"b", "c"}, cyclic)
}

func TestCondensedOrder_MatchesTopologicalOrderOnDAG(t *testing.T) {
	g := newAdjGraph().edge("a", "b").edge("a", "c").edge("b", "d").edge("c", "d")
	ids := []string{"d", "b", "a", "c"}

	want, _ := TopologicalOrder(ids, g.Successors)
	order, cyclic := CondensedOrder(ids, g.Successors)
	assert.Empty(t, cyclic)
	assert.Equal(t, want, order)
}

func TestCondensedOrder_SelfLoopAndParallelEdges(t *testing.T) {
	g := newAdjGraph().edge("a", "a").edge("a", "b").edge("a", "b")

	order, cyclic := CondensedOrder([]string{"b", "a"}, g.Successors)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []string{"a"}, cyclic)
}

func TestCondensedOrder_UpstreamCycleFeedsChain(t *testing.T) {
	g := newAdjGraph().edge("x", "y").edge("y", "x").edge("y", "z").edge("z", "w")

	order, cyclic := CondensedOrder([]string{"w", "z", "y", "x"}, g.Successors)
	assert.Equal(t, []string{"y", "x", "z", "w"}, order)
	assert.Equal(t, []string{"y", "x"}, cyclic)
}
