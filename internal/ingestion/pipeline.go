// Package ingestion turns the raw flavor and recipe sources into the stored
// bipartite graphs, mapping tables and derived ingredient networks.
package ingestion

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Benny93/flavornet/internal/config"
	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/storage"
)

// BuildDocument is the name of the stored build summary.
const BuildDocument = "build"

// PipelineResult summarizes a pipeline run.
type PipelineResult struct {
	RunID        string          `json:"run_id"`
	Ingredients  int             `json:"ingredients"`
	Pruned       int             `json:"pruned"`
	Flavors      int             `json:"flavors"`
	Recipes      int             `json:"recipes"`
	Cuisines     int             `json:"cuisines"`
	Networks     []*NetworkBuild `json:"networks"`
	BuiltAt      time.Time       `json:"built_at"`
	DurationSecs float64         `json:"duration_secs"`
}

// Network returns the build record of kind, or nil.
func (r *PipelineResult) Network(kind graph.NetworkKind) *NetworkBuild {
	for _, nb := range r.Networks {
		if nb.Kind == kind {
			return nb
		}
	}
	return nil
}

// ProgressCallback is called with phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// ThresholdsFromConfig converts configured thresholds.
func ThresholdsFromConfig(t config.Thresholds) Thresholds {
	out := Thresholds{
		OriginalComplement: float64(t.OriginalComplement),
		FoodPairing:        float64(t.FoodPairing),
		UpdatedComplement:  float64(t.UpdatedComplement),
	}
	if v, ok := t.SubstitutionThreshold(); ok {
		out.SubstitutionFlavor = &v
	}
	return out
}

// RunPipeline reads the sources, builds the dataset and all four networks,
// and replaces the repository contents with the result. A nil repo skips
// persistence.
func RunPipeline(
	ctx context.Context,
	cfg config.Config,
	repo *storage.Repository,
	progress ProgressCallback,
	log zerolog.Logger,
) (*Dataset, *PipelineResult, error) {
	start := time.Now()
	result := &PipelineResult{RunID: uuid.NewString()}
	log = log.With().Str("run_id", result.RunID).Logger()

	report := func(phase string, p float64) {
		if progress != nil {
			progress(phase, p)
		}
	}

	// Phase 1: Sources
	report("Reading sources", 0.0)
	src, err := LoadSources(cfg.DataDir, cfg.Sources)
	if err != nil {
		return nil, nil, err
	}
	report("Reading sources", 1.0)

	// Phase 2: Bipartite graphs
	report("Assembling graphs", 0.0)
	ds, err := BuildDataset(src)
	if err != nil {
		return nil, nil, fmt.Errorf("assembling dataset: %w", err)
	}
	result.Ingredients = ds.Recipes.IngredientCount()
	result.Pruned = len(ds.Pruned)
	result.Flavors = ds.Flavors.CompanionCount()
	result.Recipes = ds.Catalog.RecipeCount()
	result.Cuisines = len(ds.Catalog.Cuisines())
	log.Info().
		Int("ingredients", result.Ingredients).
		Int("pruned", result.Pruned).
		Int("recipes", result.Recipes).
		Str("data_dir", filepath.Clean(cfg.DataDir)).
		Msg("dataset assembled")
	report("Assembling graphs", 1.0)

	// Phase 3: Networks
	builder := NewBuilder(ds, ThresholdsFromConfig(cfg.Thresholds), cfg.Workers, log)
	result.Networks, err = builder.BuildAll(ctx, progress)
	if err != nil {
		return nil, nil, err
	}

	result.BuiltAt = time.Now().UTC()
	result.DurationSecs = time.Since(start).Seconds()

	// Phase 4: Storage
	if repo != nil {
		report("Loading to storage", 0.0)
		if err := persist(ctx, repo, ds, result); err != nil {
			return nil, nil, fmt.Errorf("storing build: %w", err)
		}
		report("Loading to storage", 1.0)
	}

	return ds, result, nil
}

func persist(ctx context.Context, repo *storage.Repository, ds *Dataset, result *PipelineResult) error {
	if _, err := repo.Clear(ctx); err != nil {
		return err
	}
	if err := repo.SaveTables(ctx, ds.Catalog.Tables()); err != nil {
		return err
	}
	if err := repo.SaveBipartite(ctx, storage.IngredientFlavor, ds.Flavors); err != nil {
		return err
	}
	if err := repo.SaveBipartite(ctx, storage.IngredientRecipe, ds.Recipes); err != nil {
		return err
	}
	for _, nb := range result.Networks {
		if err := repo.SaveNetwork(ctx, nb.Network); err != nil {
			return err
		}
	}
	return repo.SaveDoc(ctx, BuildDocument, result)
}

// LoadDataset rebuilds a dataset from the repository.
func LoadDataset(ctx context.Context, repo *storage.Repository) (*Dataset, error) {
	catalog, err := repo.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	ifg, err := repo.LoadBipartite(ctx, storage.IngredientFlavor)
	if err != nil {
		return nil, err
	}
	irg, err := repo.LoadBipartite(ctx, storage.IngredientRecipe)
	if err != nil {
		return nil, err
	}
	return &Dataset{Catalog: catalog, Flavors: ifg, Recipes: irg}, nil
}
