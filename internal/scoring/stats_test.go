package scoring

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/graph"
)

func TestComputeFlavorStats(t *testing.T) {
	t.Parallel()

	// Pair Jaccard values: (1,2)=1/3, (1,3)=0, (2,3)=1/3.
	// Shared compounds: 1, 0, 1.
	ifg := flavorGraph(map[graph.NodeID][]graph.NodeID{
		1: {10, 11},
		2: {11, 12},
		3: {12, 13},
	})
	ids := []graph.NodeID{1, 2, 3}

	for _, workers := range []int{1, 2, 8} {
		stats, err := ComputeFlavorStats(context.Background(), ifg, ids, workers)
		require.NoError(t, err)

		assert.Equal(t, 3, stats.Pairs)
		assert.InDelta(t, 1.0/6, stats.MedFF, 1e-12)
		assert.InDelta(t, 2.0/9, stats.MeanFF, 1e-12)
		assert.InDelta(t, math.Sqrt(2.0/81), stats.StdFF, 1e-12)
		assert.InDelta(t, 2.0/3, stats.MeanCommonFlavors, 1e-12)
	}
}

func TestComputeFlavorStats_TooFewNodes(t *testing.T) {
	t.Parallel()

	ifg := flavorGraph(map[graph.NodeID][]graph.NodeID{1: {10}})

	stats, err := ComputeFlavorStats(context.Background(), ifg, []graph.NodeID{1}, 4)
	require.NoError(t, err)
	assert.Equal(t, FlavorStats{}, stats)
}

func TestComputeFlavorStats_Cancelled(t *testing.T) {
	t.Parallel()

	ifg := flavorGraph(map[graph.NodeID][]graph.NodeID{1: {10}, 2: {10}, 3: {11}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ComputeFlavorStats(ctx, ifg, []graph.NodeID{1, 2, 3}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRowOffset(t *testing.T) {
	t.Parallel()

	n := 5
	k := 0
	for i := 0; i < n-1; i++ {
		assert.Equal(t, k, rowOffset(i, n))
		k += n - 1 - i
	}
	assert.Equal(t, n*(n-1)/2, k)
}
