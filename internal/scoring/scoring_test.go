package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/graph"
)

func recipeGraph(links map[graph.NodeID][]graph.NodeID) *graph.Bipartite {
	g := graph.NewBipartite(graph.KindRecipe)
	for ing, recipes := range links {
		g.AddIngredient(ing)
		for _, r := range recipes {
			g.AddEdge(ing, r)
		}
	}
	return g
}

func flavorGraph(links map[graph.NodeID][]graph.NodeID) *graph.Bipartite {
	g := graph.NewBipartite(graph.KindFlavor)
	for ing, flavors := range links {
		g.AddIngredient(ing)
		for _, f := range flavors {
			g.AddEdge(ing, f)
		}
	}
	return g
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	g := flavorGraph(map[graph.NodeID][]graph.NodeID{
		1: {10, 11, 12},
		2: {11, 12, 13},
		3: {20},
		4: {},
	})

	t.Run("Overlap", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.5, Jaccard(g, 1, 2, 0), 1e-12)
	})

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		for _, p := range [][2]graph.NodeID{{1, 2}, {1, 3}, {2, 4}} {
			assert.Equal(t, Jaccard(g, p[0], p[1], 0), Jaccard(g, p[1], p[0], 0))
		}
	})

	t.Run("Disjoint", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Jaccard(g, 1, 3, 0))
	})

	t.Run("BothEmpty", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Jaccard(g, 4, 4, 0))
		assert.Zero(t, Jaccard(g, 4, 99, 0))
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Jaccard(g, 1, 2, 3))
		assert.InDelta(t, 0.5, Jaccard(g, 1, 2, 2), 1e-12)
	})
}

func TestPMI(t *testing.T) {
	t.Parallel()

	irg := recipeGraph(map[graph.NodeID][]graph.NodeID{
		1: {1, 2, 3, 4, 5},
		2: {3, 4, 5, 6, 7},
		3: {8},
	})

	t.Run("Admitted", func(t *testing.T) {
		t.Parallel()
		ok, score := PMI(irg, 1, 2, 10, 2)
		require.True(t, ok)
		want := math.Log(3) - math.Log(5) - math.Log(5) + math.Log(10)
		assert.InDelta(t, want, score, 1e-12)
		assert.InDelta(t, 0.1823, score, 1e-4)
	})

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		_, ab := PMI(irg, 1, 2, 10, 2)
		_, ba := PMI(irg, 2, 1, 10, 2)
		assert.Equal(t, ab, ba)
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		t.Parallel()
		ok, score := PMI(irg, 1, 2, 10, 4)
		assert.False(t, ok)
		assert.True(t, math.IsInf(score, -1))
	})

	t.Run("NothingShared", func(t *testing.T) {
		t.Parallel()
		ok, score := PMI(irg, 1, 3, 10, 0)
		assert.False(t, ok)
		assert.True(t, math.IsInf(score, -1))
	})
}

func TestFPHF(t *testing.T) {
	t.Parallel()

	ifg := flavorGraph(map[graph.NodeID][]graph.NodeID{
		1: {10, 11, 12, 13},
		2: {10, 11, 12, 13},
		3: {20, 21},
	})
	irg := recipeGraph(map[graph.NodeID][]graph.NodeID{
		1: {1, 2},
		2: {1, 2, 3, 4},
		3: {9},
	})

	t.Run("Admitted", func(t *testing.T) {
		t.Parallel()
		ok, score := FPHF(ifg, irg, 1, 2, 0.5, 0)
		require.True(t, ok)
		// FF = 1, RF = 2/4
		assert.InDelta(t, 0.5*0.25, score, 1e-12)
	})

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		_, ab := FPHF(ifg, irg, 1, 2, 0.3, 0)
		_, ba := FPHF(ifg, irg, 2, 1, 0.3, 0)
		assert.Equal(t, ab, ba)
	})

	t.Run("NoCoOccurrence", func(t *testing.T) {
		t.Parallel()
		ok, score := FPHF(ifg, irg, 1, 3, 0.5, 0)
		assert.False(t, ok)
		assert.Zero(t, score)
	})

	t.Run("TypicalOverlap", func(t *testing.T) {
		t.Parallel()
		ok, _ := FPHF(ifg, irg, 1, 2, 1, 0)
		assert.False(t, ok)
	})

	t.Run("RecipeThreshold", func(t *testing.T) {
		t.Parallel()
		ok, _ := FPHF(ifg, irg, 1, 2, 0.5, 3)
		assert.False(t, ok)
	})
}

func TestCOF(t *testing.T) {
	t.Parallel()

	ifg := flavorGraph(map[graph.NodeID][]graph.NodeID{
		1: {10, 11},
		2: {11, 12},
	})
	irg := recipeGraph(map[graph.NodeID][]graph.NodeID{
		1: {1, 2, 3, 4, 5},
		2: {3, 4, 5, 6, 7},
	})

	ok, score := COF(ifg, irg, 1, 2, 10, 0.5, 2)
	require.True(t, ok)
	_, pmi := PMI(irg, 1, 2, 10, 2)
	// FF = 1/3
	assert.InDelta(t, pmi+math.Abs(1.0/3-0.5), score, 1e-12)

	_, rev := COF(ifg, irg, 2, 1, 10, 0.5, 2)
	assert.Equal(t, score, rev)

	ok, _ = COF(ifg, irg, 1, 2, 10, 0.5, 4)
	assert.False(t, ok)
}

func TestSF(t *testing.T) {
	t.Parallel()

	ifg := flavorGraph(map[graph.NodeID][]graph.NodeID{
		1: {10, 11, 12},
		2: {10, 11, 12},
		3: {10, 11, 12},
		4: {30},
	})
	irg := recipeGraph(map[graph.NodeID][]graph.NodeID{
		1: {1},
		2: {2},
		3: {1},
		4: {1},
	})

	t.Run("NeverTogether", func(t *testing.T) {
		t.Parallel()
		ok, score := SF(ifg, irg, 1, 2, 0)
		require.True(t, ok)
		assert.InDelta(t, 1.0, score, 1e-12)
	})

	t.Run("AlwaysTogether", func(t *testing.T) {
		t.Parallel()
		ok, score := SF(ifg, irg, 1, 3, 0)
		require.True(t, ok)
		assert.InDelta(t, 0.5, score, 1e-12)
	})

	t.Run("FlavorThreshold", func(t *testing.T) {
		t.Parallel()
		ok, score := SF(ifg, irg, 1, 2, 4)
		assert.False(t, ok)
		assert.Zero(t, score)
	})

	t.Run("NoSharedFlavor", func(t *testing.T) {
		t.Parallel()
		ok, _ := SF(ifg, irg, 1, 4, 0)
		assert.False(t, ok)
	})

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		_, ab := SF(ifg, irg, 1, 3, 0)
		_, ba := SF(ifg, irg, 3, 1, 0)
		assert.Equal(t, ab, ba)
	})
}
