// Package index opens a built flavornet store for querying. It ties the
// stored catalog, networks and embedding spaces to the generation engine and
// the analysis routines.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Benny93/flavornet/internal/analysis"
	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/generate"
	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/ingestion"
	"github.com/Benny93/flavornet/internal/metrics"
	"github.com/Benny93/flavornet/internal/storage"
)

// ErrNotBuilt is returned when the store holds no build.
var ErrNotBuilt = errors.New("no build found, run 'flavornet build' first")

// NetworkSummary is the overview line of one network.
type NetworkSummary struct {
	Kind      graph.NetworkKind `json:"network"`
	Nodes     int               `json:"nodes"`
	Edges     int               `json:"edges"`
	Threshold float64           `json:"threshold"`
	Embedded  bool              `json:"embedded"`
}

// Index is a read view over one build.
type Index struct {
	repo    *storage.Repository
	dataset *ingestion.Dataset
	build   *ingestion.PipelineResult
	engine  *generate.Engine
	log     zerolog.Logger

	mu       sync.Mutex
	networks map[graph.NetworkKind]*graph.Network
}

// Open loads the catalog, the bipartite graphs, the substitution network and
// every stored embedding space. seed fixes the generation sampler; 0 seeds
// from the clock.
func Open(ctx context.Context, repo *storage.Repository, seed int64, log zerolog.Logger) (*Index, error) {
	var build ingestion.PipelineResult
	if err := repo.LoadDoc(ctx, ingestion.BuildDocument, &build); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotBuilt
		}
		return nil, err
	}

	ds, err := ingestion.LoadDataset(ctx, repo)
	if err != nil {
		return nil, err
	}
	sn, err := repo.LoadNetwork(ctx, graph.Substitution)
	if err != nil {
		return nil, err
	}
	spaces, err := repo.LoadSpaces(ctx)
	if err != nil {
		return nil, err
	}

	log = log.With().Str("component", "index").Logger()
	log.Debug().
		Str("run_id", build.RunID).
		Int("spaces", len(spaces)).
		Msg("index opened")

	return &Index{
		repo:     repo,
		dataset:  ds,
		build:    &build,
		engine:   generate.NewEngine(ds.Catalog, spaces, sn, generate.NewSampler(seed), log),
		log:      log,
		networks: map[graph.NetworkKind]*graph.Network{graph.Substitution: sn},
	}, nil
}

// Catalog returns the entity context.
func (ix *Index) Catalog() *graph.Catalog {
	return ix.dataset.Catalog
}

// Cuisines lists every cuisine label.
func (ix *Index) Cuisines() []string {
	return ix.dataset.Catalog.Cuisines()
}

// Build returns the stored build summary.
func (ix *Index) Build() *ingestion.PipelineResult {
	return ix.build
}

// Engine returns the generation engine.
func (ix *Index) Engine() *generate.Engine {
	return ix.engine
}

// Network loads a derived network once and caches it.
func (ix *Index) Network(ctx context.Context, kind graph.NetworkKind) (*graph.Network, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if n, ok := ix.networks[kind]; ok {
		return n, nil
	}
	n, err := ix.repo.LoadNetwork(ctx, kind)
	if err != nil {
		return nil, err
	}
	ix.networks[kind] = n
	return n, nil
}

// Generate runs one generation request.
func (ix *Index) Generate(ctx context.Context, req generate.Request) (*generate.Result, error) {
	return ix.engine.Generate(ctx, req)
}

// Substitutes lists the top k substitutes of each named ingredient.
func (ix *Index) Substitutes(names []string, k int) ([]generate.SubstituteList, error) {
	return ix.engine.Substitutes(names, k)
}

// Compare scores two named ingredients with every pairwise function. MedFF
// is the value the food pairing network was built with.
func (ix *Index) Compare(a, b string) (analysis.Comparison, error) {
	ids, err := ix.dataset.Catalog.IngredientIDs([]string{a, b})
	if err != nil {
		return analysis.Comparison{}, err
	}
	var medFF float64
	if nb := ix.build.Network(graph.FoodPairing); nb != nil {
		medFF = nb.Stats.MedFF
	}
	return analysis.Compare(ix.dataset.Flavors, ix.dataset.Recipes, ix.dataset.Catalog.RecipeCount(), medFF, ids[0], ids[1]), nil
}

// Analyze reports the structure of a network. A non-empty cuisine restricts
// the top edges to ingredients used by that cuisine.
func (ix *Index) Analyze(ctx context.Context, kind graph.NetworkKind, top int, cuisine string, seed int64) (*analysis.Report, error) {
	n, err := ix.Network(ctx, kind)
	if err != nil {
		return nil, err
	}
	opts := analysis.Options{Top: top, Seed: seed}
	if cuisine != "" {
		opts.Within, err = ix.dataset.Catalog.CuisineIngredients(cuisine)
		if err != nil {
			return nil, err
		}
	}
	return analysis.Analyze(n, opts), nil
}

// Spread is the recipe spread of a generated result in the space that grew
// its base.
func (ix *Index) Spread(res *generate.Result) (float64, error) {
	kind := graph.UpdatedComplement
	if res.Mode == generate.ModeBaseAccent {
		kind = graph.OriginalComplement
	}
	space, err := ix.engine.Space(kind)
	if err != nil {
		return 0, err
	}
	return analysis.RecipeSpread(space, res.IDs())
}

// Overview summarizes every network of the build.
func (ix *Index) Overview() []NetworkSummary {
	out := make([]NetworkSummary, 0, len(ix.build.Networks))
	for _, nb := range ix.build.Networks {
		_, err := ix.engine.Space(nb.Kind)
		out = append(out, NetworkSummary{
			Kind:      nb.Kind,
			Nodes:     ix.dataset.Recipes.IngredientCount(),
			Edges:     nb.Edges,
			Threshold: nb.Threshold,
			Embedded:  err == nil,
		})
	}
	return out
}

// ReloadSpaces swaps embedding spaces into the running engine. A space that
// embeds an id outside its network is dropped and the previous space stays.
func (ix *Index) ReloadSpaces(spaces map[graph.NetworkKind]*embeddings.Space) {
	accepted := make(map[graph.NetworkKind]*embeddings.Space, len(spaces))
	for kind, space := range spaces {
		n, err := ix.Network(context.Background(), kind)
		if err == nil {
			err = checkMembership(kind, n, space)
		}
		if err != nil {
			ix.log.Warn().Err(err).Str("network", string(kind)).Msg("embedding space rejected, keeping previous")
			continue
		}
		accepted[kind] = space
	}
	if len(accepted) == 0 {
		return
	}
	ix.engine.SetSpaces(accepted)
	metrics.EmbeddingReloads.Add(float64(len(accepted)))
	ix.log.Info().Int("networks", len(accepted)).Msg("embedding spaces swapped")
}

// checkMembership fails when space embeds an id that is not a node of n.
func checkMembership(kind graph.NetworkKind, n *graph.Network, space *embeddings.Space) error {
	for _, id := range space.IDs() {
		if !n.HasNode(id) {
			return fmt.Errorf("%s: ingredient %d: %w", embeddings.FileName(kind), id, graph.ErrNodeNotFound)
		}
	}
	return nil
}

// ImportEmbeddings reads the embedding files of dir, checks that every
// embedded id is a node of its network, and stores the spaces. It returns
// the imported spaces.
func ImportEmbeddings(ctx context.Context, repo *storage.Repository, dir string) (map[graph.NetworkKind]*embeddings.Space, error) {
	spaces, err := embeddings.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for kind, space := range spaces {
		n, err := repo.LoadNetwork(ctx, kind)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrNotBuilt
			}
			return nil, err
		}
		if err := checkMembership(kind, n, space); err != nil {
			return nil, err
		}
	}
	for _, kind := range graph.NetworkKinds {
		space, ok := spaces[kind]
		if !ok {
			continue
		}
		if err := repo.SaveSpace(ctx, kind, space); err != nil {
			return nil, err
		}
	}
	return spaces, nil
}
