package ingestion

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/metrics"
	"github.com/Benny93/flavornet/internal/scoring"
)

// Thresholds are the explicit per-network admission parameters.
type Thresholds struct {
	// Recipe co-occurrence thresholds.
	OriginalComplement float64 `json:"ocn"`
	FoodPairing        float64 `json:"fph"`
	UpdatedComplement  float64 `json:"ucn"`

	// SubstitutionFlavor is the shared flavor compound count the
	// substitution network requires. Nil uses MeanCommonFlavors.
	SubstitutionFlavor *float64 `json:"substitution_flavor,omitempty"`
}

// DefaultThresholds uses the default recipe threshold for every recipe-based
// network and the mean common flavor count for substitution.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OriginalComplement: scoring.DefaultRecipeThreshold,
		FoodPairing:        scoring.DefaultRecipeThreshold,
		UpdatedComplement:  scoring.DefaultRecipeThreshold,
	}
}

// NetworkBuild is one constructed network with the parameters that produced
// it.
type NetworkBuild struct {
	Network   *graph.Network      `json:"-"`
	Kind      graph.NetworkKind   `json:"kind"`
	Threshold float64             `json:"threshold"`
	Stats     scoring.FlavorStats `json:"stats"`
	Pairs     int                 `json:"pairs"`
	Edges     int                 `json:"edges"`
	Duration  time.Duration       `json:"duration"`
}

// Builder constructs derived networks from a dataset. Pairs are scored by a
// pool of workers; results are merged in pair order so the outcome does not
// depend on scheduling.
type Builder struct {
	dataset    *Dataset
	thresholds Thresholds
	workers    int
	log        zerolog.Logger

	statsOnce sync.Once
	stats     scoring.FlavorStats
	statsErr  error
}

// NewBuilder creates a builder. workers <= 0 uses GOMAXPROCS.
func NewBuilder(ds *Dataset, thresholds Thresholds, workers int, log zerolog.Logger) *Builder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Builder{
		dataset:    ds,
		thresholds: thresholds,
		workers:    workers,
		log:        log.With().Str("component", "networks").Logger(),
	}
}

// FlavorStats returns the aggregate flavor statistics over the eligible
// ingredients. They are computed on first use and shared by every network.
func (b *Builder) FlavorStats(ctx context.Context) (scoring.FlavorStats, error) {
	b.statsOnce.Do(func() {
		start := time.Now()
		b.stats, b.statsErr = scoring.ComputeFlavorStats(ctx, b.dataset.Flavors, b.dataset.IngredientIDs(), b.workers)
		if b.statsErr == nil {
			b.log.Debug().
				Int("pairs", b.stats.Pairs).
				Float64("med_ff", b.stats.MedFF).
				Float64("mean_common_flavors", b.stats.MeanCommonFlavors).
				Dur("took", time.Since(start)).
				Msg("flavor statistics computed")
		}
	})
	return b.stats, b.statsErr
}

// Build constructs one network.
func (b *Builder) Build(ctx context.Context, kind graph.NetworkKind) (*NetworkBuild, error) {
	start := time.Now()
	ids := b.dataset.IngredientIDs()

	res := &NetworkBuild{Kind: kind}
	scorer, err := b.scorer(ctx, kind, res)
	if err != nil {
		return nil, err
	}

	edges, err := b.enumerate(ctx, ids, scorer)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", kind, err)
	}

	n := graph.NewNetwork(kind, ids)
	for _, e := range edges {
		if err := n.AddEdge(e.A, e.B, e.Weight); err != nil {
			return nil, fmt.Errorf("building %s: %w", kind, err)
		}
	}

	res.Network = n
	res.Pairs = len(ids) * (len(ids) - 1) / 2
	res.Edges = n.EdgeCount()
	res.Duration = time.Since(start)

	metrics.PairsScored.WithLabelValues(string(kind)).Add(float64(res.Pairs))
	metrics.EdgesAdmitted.WithLabelValues(string(kind)).Add(float64(res.Edges))
	metrics.BuildDuration.WithLabelValues(string(kind)).Observe(res.Duration.Seconds())

	b.log.Info().
		Str("network", string(kind)).
		Int("nodes", n.NodeCount()).
		Int("edges", res.Edges).
		Dur("took", res.Duration).
		Msg("network built")
	return res, nil
}

// scorer binds the scoring function of kind to its thresholds and
// statistics, recording them on res.
func (b *Builder) scorer(ctx context.Context, kind graph.NetworkKind, res *NetworkBuild) (scoring.PairScorer, error) {
	ifg, irg := b.dataset.Flavors, b.dataset.Recipes
	nr := b.dataset.Catalog.RecipeCount()

	if kind == graph.OriginalComplement {
		res.Threshold = b.thresholds.OriginalComplement
		return func(x, y graph.NodeID) (bool, float64) {
			return scoring.PMI(irg, x, y, nr, res.Threshold)
		}, nil
	}

	stats, err := b.FlavorStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("flavor statistics: %w", err)
	}
	res.Stats = stats

	switch kind {
	case graph.FoodPairing:
		res.Threshold = b.thresholds.FoodPairing
		return func(x, y graph.NodeID) (bool, float64) {
			return scoring.FPHF(ifg, irg, x, y, stats.MedFF, res.Threshold)
		}, nil
	case graph.UpdatedComplement:
		res.Threshold = b.thresholds.UpdatedComplement
		return func(x, y graph.NodeID) (bool, float64) {
			return scoring.COF(ifg, irg, x, y, nr, stats.MedFF, res.Threshold)
		}, nil
	case graph.Substitution:
		res.Threshold = stats.MeanCommonFlavors
		if t := b.thresholds.SubstitutionFlavor; t != nil {
			res.Threshold = *t
		}
		return func(x, y graph.NodeID) (bool, float64) {
			return scoring.SF(ifg, irg, x, y, res.Threshold)
		}, nil
	default:
		return nil, fmt.Errorf("unknown network kind %q", kind)
	}
}

// enumerate scores every pair (ids[i], ids[j]) with i < j once and returns the
// admitted ones in enumeration order.
func (b *Builder) enumerate(ctx context.Context, ids []graph.NodeID, score scoring.PairScorer) ([]graph.WeightedEdge, error) {
	n := len(ids)
	if n < 2 {
		return nil, nil
	}

	perRow := make([][]graph.WeightedEdge, n-1)
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
	for w := 0; w < b.workers; w++ {
		g.Go(func() error {
			for i := range rows {
				var admitted []graph.WeightedEdge
				for j := i + 1; j < n; j++ {
					if ok, weight := score(ids[i], ids[j]); ok {
						admitted = append(admitted, graph.WeightedEdge{Pair: graph.MakePair(ids[i], ids[j]), Weight: weight})
					}
				}
				perRow[i] = admitted
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var edges []graph.WeightedEdge
	for _, row := range perRow {
		edges = append(edges, row...)
	}
	return edges, nil
}

// BuildAll constructs every network kind in order, reporting progress after
// each one.
func (b *Builder) BuildAll(ctx context.Context, progress ProgressCallback) ([]*NetworkBuild, error) {
	builds := make([]*NetworkBuild, 0, len(graph.NetworkKinds))
	for i, kind := range graph.NetworkKinds {
		if progress != nil {
			progress("Building networks", float64(i)/float64(len(graph.NetworkKinds)))
		}
		nb, err := b.Build(ctx, kind)
		if err != nil {
			return nil, err
		}
		builds = append(builds, nb)
	}
	if progress != nil {
		progress("Building networks", 1.0)
	}
	return builds, nil
}
