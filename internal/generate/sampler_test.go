package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/graph"
)

func TestSampler_WeightedChoice(t *testing.T) {
	t.Parallel()

	t.Run("ZeroWeightNeverPicked", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(7)
		ids := []graph.NodeID{1, 2, 3}
		for i := 0; i < 500; i++ {
			id, err := s.WeightedChoice(ids, []float64{0, 1, 0})
			require.NoError(t, err)
			assert.Equal(t, graph.NodeID(2), id)
		}
	})

	t.Run("Proportional", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(11)
		ids := []graph.NodeID{1, 2}
		counts := map[graph.NodeID]int{}
		for i := 0; i < 20000; i++ {
			id, err := s.WeightedChoice(ids, []float64{1, 3})
			require.NoError(t, err)
			counts[id]++
		}
		assert.InDelta(t, 0.75, float64(counts[2])/20000, 0.02)
	})

	t.Run("AllZeroIsUniform", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(3)
		ids := []graph.NodeID{1, 2}
		seen := map[graph.NodeID]bool{}
		for i := 0; i < 200; i++ {
			id, err := s.WeightedChoice(ids, []float64{0, 0})
			require.NoError(t, err)
			seen[id] = true
		}
		assert.Len(t, seen, 2)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()
		s := NewSampler(1)
		_, err := s.WeightedChoice(nil, nil)
		assert.Error(t, err)
		_, err = s.WeightedChoice([]graph.NodeID{1}, []float64{1, 2})
		assert.Error(t, err)
		_, err = s.WeightedChoice([]graph.NodeID{1, 2}, []float64{1, -1})
		assert.Error(t, err)
	})

	t.Run("Reproducible", func(t *testing.T) {
		t.Parallel()
		ids := []graph.NodeID{1, 2, 3, 4}
		weights := []float64{0.1, 0.2, 0.3, 0.4}
		a, b := NewSampler(99), NewSampler(99)
		for i := 0; i < 50; i++ {
			x, _ := a.WeightedChoice(ids, weights)
			y, _ := b.WeightedChoice(ids, weights)
			assert.Equal(t, x, y)
		}
	})
}

func TestSampler_Choose(t *testing.T) {
	t.Parallel()

	s := NewSampler(5)
	ids := []graph.NodeID{1, 2, 3, 4, 5}

	got := s.Choose(ids, 3)
	assert.Len(t, got, 3)
	assert.Len(t, dedupe(got), 3)
	for _, id := range got {
		assert.Contains(t, ids, id)
	}
	assert.Len(t, s.Choose(ids, 10), 5)
}

func TestSampler_IntRange(t *testing.T) {
	t.Parallel()

	s := NewSampler(5)
	for i := 0; i < 100; i++ {
		n := s.IntRange(3, 5)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 5)
	}
	assert.Equal(t, 4, s.IntRange(4, 4))
}
