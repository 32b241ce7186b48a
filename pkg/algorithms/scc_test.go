package algorithms

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedComponent(c Component) []string {
	out := append([]string(nil), c...)
	sort.Strings(out)
	return out
}

func TestSCC_EmptyGraph(t *testing.T) {
	assert.Empty(t, StronglyConnectedComponents(newAdjGraph()))
}

func TestSCC_ChainIsAllSingletons(t *testing.T) {
	g := chainGraph(t, "a", "b", "c")

	comps := StronglyConnectedComponents(g)
	assert.Len(t, comps, 3)
	assert.Empty(t, CyclicComponents(g))
}

func TestSCC_TwoCycles(t *testing.T) {
	g := newAdjGraph("a", "b", "c", "d", "e").
		edge("a", "b").edge("b", "a").
		edge("b", "c").
		edge("c", "d").edge("d", "e").edge("e", "c")

	cyclic := CyclicComponents(g)
	require.Len(t, cyclic, 2)

	var got [][]string
	for _, c := range cyclic {
		got = append(got, sortedComponent(c))
	}
	assert.ElementsMatch(t, [][]string{{"a", "b"}, {"c", "d", "e"}}, got)
}

func TestSCC_SelfLoopIsCyclic(t *testing.T) {
	g := newAdjGraph("a", "b").edge("a", "a").edge("a", "b")

	cyclic := CyclicComponents(g)
	require.Len(t, cyclic, 1)
	assert.Equal(t, Component{"a"}, cyclic[0])
}
