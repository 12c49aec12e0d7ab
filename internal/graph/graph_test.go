package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNetwork(t *testing.T) {
	t.Parallel()

	n := NewNetwork(OriginalComplement, []NodeID{3, 1, 2, 1})

	assert.Equal(t, OriginalComplement, n.Kind())
	assert.Equal(t, 3, n.NodeCount())
	assert.Equal(t, 0, n.EdgeCount())
	assert.Equal(t, []NodeID{1, 2, 3}, n.Nodes())
}

func TestNetwork_AddEdge(t *testing.T) {
	t.Parallel()

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		n := NewNetwork(FoodPairing, []NodeID{1, 2, 3})

		require.NoError(t, n.AddEdge(2, 1, 0.5))

		assert.True(t, n.HasEdge(1, 2))
		assert.True(t, n.HasEdge(2, 1))
		assert.False(t, n.HasEdge(1, 3))
		w, ok := n.Weight(1, 2)
		assert.True(t, ok)
		assert.Equal(t, 0.5, w)
		assert.Equal(t, []NodeID{2}, n.Neighbors(1))
		assert.Equal(t, []NodeID{1}, n.Neighbors(2))
	})

	t.Run("OverwriteWeight", func(t *testing.T) {
		t.Parallel()
		n := NewNetwork(FoodPairing, []NodeID{1, 2})

		require.NoError(t, n.AddEdge(1, 2, 0.5))
		require.NoError(t, n.AddEdge(2, 1, 0.75))

		assert.Equal(t, 1, n.EdgeCount())
		w, _ := n.Weight(1, 2)
		assert.Equal(t, 0.75, w)
	})

	t.Run("SelfLoop", func(t *testing.T) {
		t.Parallel()
		n := NewNetwork(FoodPairing, []NodeID{1})

		err := n.AddEdge(1, 1, 1)
		assert.ErrorIs(t, err, ErrSelfLoop)
		assert.Equal(t, 0, n.EdgeCount())
	})

	t.Run("UnknownNode", func(t *testing.T) {
		t.Parallel()
		n := NewNetwork(FoodPairing, []NodeID{1})

		err := n.AddEdge(1, 5, 1)
		assert.ErrorIs(t, err, ErrNodeNotFound)
		assert.False(t, n.HasNode(5))
	})
}

func TestNetwork_Edges(t *testing.T) {
	t.Parallel()

	n := NewNetwork(Substitution, []NodeID{1, 2, 3, 4})
	require.NoError(t, n.AddEdge(3, 4, 0.1))
	require.NoError(t, n.AddEdge(2, 1, 0.2))
	require.NoError(t, n.AddEdge(1, 3, 0.3))

	assert.Equal(t, []WeightedEdge{
		{Pair: Pair{A: 1, B: 2}, Weight: 0.2},
		{Pair: Pair{A: 1, B: 3}, Weight: 0.3},
		{Pair: Pair{A: 3, B: 4}, Weight: 0.1},
	}, n.Edges())

	assert.Equal(t, []WeightedEdge{
		{Pair: Pair{A: 1, B: 3}, Weight: 0.3},
		{Pair: Pair{A: 3, B: 4}, Weight: 0.1},
	}, n.IncidentEdges(3))
	assert.Equal(t, 2, n.Degree(1))
	assert.Empty(t, n.IncidentEdges(9))
}

func TestNetwork_WeightsIsCopy(t *testing.T) {
	t.Parallel()

	n := NewNetwork(Substitution, []NodeID{1, 2})
	require.NoError(t, n.AddEdge(1, 2, 1))

	w := n.Weights()
	w[MakePair(1, 2)] = 42

	got, _ := n.Weight(1, 2)
	assert.Equal(t, 1.0, got)
}

func TestNetwork_SatisfiesGraph(t *testing.T) {
	t.Parallel()

	var g Graph = NewNetwork(UpdatedComplement, []NodeID{1, 2})
	require.NoError(t, g.AddEdge(1, 2, 3))
	assert.True(t, g.HasEdge(2, 1))
	assert.Equal(t, []NodeID{1, 2}, g.Nodes())
}
