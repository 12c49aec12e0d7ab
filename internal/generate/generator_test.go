package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
)

// lineSpace embeds ids at evenly spaced points on a line.
func lineSpace(t *testing.T, ids ...graph.NodeID) *embeddings.Space {
	t.Helper()
	s := embeddings.NewSpace(2)
	for i, id := range ids {
		require.NoError(t, s.Set(id, []float64{float64(i), 0}))
	}
	return s
}

func assertUnique(t *testing.T, ids []graph.NodeID) {
	t.Helper()
	seen := make(map[graph.NodeID]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate %d", id)
		seen[id] = true
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("ReachesTarget", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
		g := NewGenerator(NewSampler(1))

		for target := 1; target <= 10; target++ {
			got, err := g.Generate(space, []graph.NodeID{3}, target)
			require.NoError(t, err)
			assert.Len(t, got, target)
			assertUnique(t, got)
			assert.Equal(t, graph.NodeID(3), got[0])
			for _, id := range got {
				assert.True(t, space.Has(id))
			}
		}
	})

	t.Run("RandomSeeds", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3, 4, 5)
		g := NewGenerator(NewSampler(2))

		got, err := g.Generate(space, nil, 4)
		require.NoError(t, err)
		assert.Len(t, got, 4)
		assertUnique(t, got)
	})

	t.Run("SeedsBeyondTarget", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3)
		g := NewGenerator(NewSampler(2))

		got, err := g.Generate(space, []graph.NodeID{1, 2, 3}, 2)
		require.NoError(t, err)
		assert.Equal(t, []graph.NodeID{1, 2, 3}, got)
	})

	t.Run("DuplicateSeeds", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3)
		g := NewGenerator(NewSampler(2))

		got, err := g.Generate(space, []graph.NodeID{1, 1}, 3)
		require.NoError(t, err)
		assert.Len(t, got, 3)
		assertUnique(t, got)
	})

	t.Run("InsufficientCandidates", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3)
		g := NewGenerator(NewSampler(2))

		_, err := g.Generate(space, []graph.NodeID{1}, 5)
		assert.ErrorIs(t, err, ErrInsufficientCandidates)

		_, err = g.Generate(lineSpace(t, 1), nil, 3)
		assert.ErrorIs(t, err, ErrInsufficientCandidates)
	})

	t.Run("UnembeddedSeed", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3)
		g := NewGenerator(NewSampler(2))

		_, err := g.Generate(space, []graph.NodeID{42}, 3)
		assert.ErrorIs(t, err, embeddings.ErrNotEmbedded)
	})

	t.Run("Reproducible", func(t *testing.T) {
		t.Parallel()
		space := lineSpace(t, 1, 2, 3, 4, 5, 6, 7, 8)

		a, err := NewGenerator(NewSampler(42)).Generate(space, nil, 6)
		require.NoError(t, err)
		b, err := NewGenerator(NewSampler(42)).Generate(space, nil, 6)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("PrefersNearby", func(t *testing.T) {
		t.Parallel()
		s := embeddings.NewSpace(1)
		require.NoError(t, s.Set(1, []float64{0}))
		require.NoError(t, s.Set(2, []float64{0.1}))
		require.NoError(t, s.Set(3, []float64{1000}))
		g := NewGenerator(NewSampler(8))

		near := 0
		for i := 0; i < 200; i++ {
			got, err := g.Generate(s, []graph.NodeID{1}, 2)
			require.NoError(t, err)
			if got[1] == 2 {
				near++
			}
		}
		assert.Greater(t, near, 190)
	})
}

func TestGenerator_GenerateBaseAccent(t *testing.T) {
	t.Parallel()

	t.Run("GrowsBothPhases", func(t *testing.T) {
		t.Parallel()
		base := lineSpace(t, 1, 2, 3, 4, 5)
		accent := lineSpace(t, 1, 2, 3, 4, 5, 6, 7, 8, 9)
		g := NewGenerator(NewSampler(4))

		got, err := g.GenerateBaseAccent(base, accent, []graph.NodeID{1}, 6, 2)
		require.NoError(t, err)
		assert.Len(t, got, 6)
		assertUnique(t, got)
		for _, id := range got[:4] {
			assert.True(t, base.Has(id))
		}
	})

	t.Run("BaseNotInAccentSpace", func(t *testing.T) {
		t.Parallel()
		base := lineSpace(t, 1, 2, 3)
		accent := lineSpace(t, 3, 10, 11, 12)
		g := NewGenerator(NewSampler(4))

		got, err := g.GenerateBaseAccent(base, accent, []graph.NodeID{1, 2, 3}, 5, 2)
		require.NoError(t, err)
		assert.Equal(t, []graph.NodeID{1, 2, 3}, got[:3])
		assert.Len(t, got, 5)
		assertUnique(t, got)
	})

	t.Run("BaseNowhereInAccentSpace", func(t *testing.T) {
		t.Parallel()
		base := lineSpace(t, 1, 2)
		accent := lineSpace(t, 10, 11)
		g := NewGenerator(NewSampler(4))

		_, err := g.GenerateBaseAccent(base, accent, []graph.NodeID{1, 2}, 3, 1)
		assert.ErrorIs(t, err, embeddings.ErrNotEmbedded)
	})

	t.Run("AccentTooLarge", func(t *testing.T) {
		t.Parallel()
		g := NewGenerator(NewSampler(4))
		_, err := g.GenerateBaseAccent(lineSpace(t, 1), lineSpace(t, 1), nil, 2, 3)
		assert.Error(t, err)
	})
}
