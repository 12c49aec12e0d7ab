package scoring

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/Benny93/flavornet/internal/graph"
)

// FlavorStats are aggregate flavor-overlap statistics over every pair of a
// node list. They are computed once per network and passed to the scorers.
type FlavorStats struct {
	// Pairs is the number of pairs the statistics cover.
	Pairs int `json:"pairs"`

	// MedFF is the midpoint between the smallest and largest flavor Jaccard
	// index of any pair.
	MedFF float64 `json:"med_ff"`

	// MeanFF and StdFF are the population mean and standard deviation of
	// the flavor Jaccard index.
	MeanFF float64 `json:"mean_ff"`
	StdFF  float64 `json:"std_ff"`

	// MeanCommonFlavors is the mean number of shared flavor compounds.
	MeanCommonFlavors float64 `json:"mean_common_flavors"`
}

// ComputeFlavorStats evaluates every unordered pair of ids (in the given
// order) exactly once. Rows are spread over workers goroutines; each pair
// writes to its own slot so the result does not depend on scheduling.
func ComputeFlavorStats(ctx context.Context, ifg *graph.Bipartite, ids []graph.NodeID, workers int) (FlavorStats, error) {
	n := len(ids)
	if n < 2 {
		return FlavorStats{}, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pairs := n * (n - 1) / 2
	ffs := make([]float64, pairs)
	commons := make([]float64, pairs)

	rows := make(chan int)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		for i := 0; i < n-1; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case rows <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range rows {
				k := rowOffset(i, n)
				for j := i + 1; j < n; j++ {
					common, union := ifg.Overlap(ids[i], ids[j])
					if union > 0 {
						ffs[k] = float64(common) / float64(union)
					}
					commons[k] = float64(common)
					k++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FlavorStats{}, err
	}

	lo, hi := ffs[0], ffs[0]
	for _, ff := range ffs[1:] {
		lo = min(lo, ff)
		hi = max(hi, ff)
	}
	mean, std := stat.PopMeanStdDev(ffs, nil)

	return FlavorStats{
		Pairs:             pairs,
		MedFF:             (lo + hi) / 2,
		MeanFF:            mean,
		StdFF:             std,
		MeanCommonFlavors: stat.Mean(commons, nil),
	}, nil
}

// rowOffset is the index of pair (i, i+1) in the row-major upper triangle of
// an n x n matrix.
func rowOffset(i, n int) int {
	return i*n - i*(i+1)/2
}
