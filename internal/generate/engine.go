package generate

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/metrics"
)

// Item is one ingredient of a generated recipe.
type Item struct {
	ID     graph.NodeID `json:"id"`
	Name   string       `json:"name"`
	Accent bool         `json:"accent,omitempty"`

	// Replaces names the avoided ingredient this one substitutes.
	Replaces string `json:"replaces,omitempty"`
}

// Result is a generated recipe.
type Result struct {
	Mode              Mode     `json:"network"`
	Cuisine           string   `json:"cuisine,omitempty"`
	Size              int      `json:"size"`
	Items             []Item   `json:"items"`
	MayContainAvoided bool     `json:"may_contain_avoided,omitempty"`
	Kept              []string `json:"kept,omitempty"`
}

// IDs returns the ingredient ids in recipe order.
func (r *Result) IDs() []graph.NodeID {
	ids := make([]graph.NodeID, len(r.Items))
	for i, it := range r.Items {
		ids[i] = it.ID
	}
	return ids
}

// SubstituteList is the ranked substitutes of one ingredient.
type SubstituteList struct {
	Ingredient  string      `json:"ingredient"`
	Substitutes []NamedItem `json:"substitutes"`
}

// NamedItem is a weighted ingredient.
type NamedItem struct {
	ID     graph.NodeID `json:"id"`
	Name   string       `json:"name"`
	Weight float64      `json:"weight"`
}

// Engine resolves user-level requests (names, cuisines, size ranges) into
// generator and resolver calls. Embedding spaces can be swapped while the
// engine serves requests.
type Engine struct {
	catalog      *graph.Catalog
	substitution *graph.Network
	sampler      *Sampler
	generator    *Generator
	log          zerolog.Logger

	mu     sync.RWMutex
	spaces map[graph.NetworkKind]*embeddings.Space
}

// NewEngine creates an engine. substitution may be nil when no avoid lists
// or substitute listings will be requested.
func NewEngine(catalog *graph.Catalog, spaces map[graph.NetworkKind]*embeddings.Space, substitution *graph.Network, sampler *Sampler, log zerolog.Logger) *Engine {
	e := &Engine{
		catalog:      catalog,
		substitution: substitution,
		sampler:      sampler,
		generator:    NewGenerator(sampler),
		log:          log.With().Str("component", "generate").Logger(),
		spaces:       make(map[graph.NetworkKind]*embeddings.Space),
	}
	e.SetSpaces(spaces)
	return e
}

// Catalog returns the entity context.
func (e *Engine) Catalog() *graph.Catalog {
	return e.catalog
}

// SetSpaces replaces the spaces of the given networks, keeping the others.
func (e *Engine) SetSpaces(spaces map[graph.NetworkKind]*embeddings.Space) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for kind, s := range spaces {
		e.spaces[kind] = s
	}
}

// Space returns the space of a network.
func (e *Engine) Space(kind graph.NetworkKind) (*embeddings.Space, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.spaces[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEmbeddings, kind)
	}
	return s, nil
}

// Generate runs one request end to end.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	res, err := e.generate(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecipesGenerated.WithLabelValues(string(req.Mode), status).Inc()
	return res, err
}

func (e *Engine) generate(ctx context.Context, req Request) (*Result, error) {
	seeds, err := e.catalog.IngredientIDs(req.Seeds)
	if err != nil {
		return nil, fmt.Errorf("seed ingredients: %w", err)
	}
	avoid, err := e.catalog.IngredientIDs(req.Avoid)
	if err != nil {
		return nil, fmt.Errorf("avoided ingredients: %w", err)
	}

	cuisine, err := e.resolveCuisine(req.Cuisine)
	if err != nil {
		return nil, err
	}
	target := e.sampler.IntRange(req.Min, req.Max)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recipe []graph.NodeID
	switch req.Mode {
	case ModeBaseAccent:
		base, err := e.cuisineSpace(graph.OriginalComplement, cuisine)
		if err != nil {
			return nil, err
		}
		accent, err := e.cuisineSpace(graph.FoodPairing, cuisine)
		if err != nil {
			return nil, err
		}
		recipe, err = e.generator.GenerateBaseAccent(base, accent, seeds, target, req.Accent)
		if err != nil {
			return nil, err
		}
	case ModeUpdatedComplement:
		space, err := e.cuisineSpace(graph.UpdatedComplement, cuisine)
		if err != nil {
			return nil, err
		}
		recipe, err = e.generator.Generate(space, seeds, target)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{Mode: req.Mode, Cuisine: cuisine, Size: target}
	replaces := make(map[int]graph.NodeID)
	if len(avoid) > 0 {
		if e.substitution == nil {
			return nil, fmt.Errorf("%w: substitution network", ErrNoEmbeddings)
		}
		compat, err := e.cuisineSpace(graph.OriginalComplement, cuisine)
		if err != nil {
			return nil, err
		}
		resolver := NewResolver(e.substitution, compat, e.sampler, e.log)
		resolution, err := resolver.Resolve(recipe, avoid)
		if err != nil {
			return nil, fmt.Errorf("substituting avoided ingredients: %w", err)
		}
		recipe = resolution.Ingredients
		for _, rep := range resolution.Replacements {
			replaces[rep.Index] = rep.Original
		}
		result.MayContainAvoided = resolution.MayContainAvoided
		result.Kept = e.catalog.IngredientNames(resolution.Kept)
	}

	baseCount := len(recipe) - req.Accent
	for i, id := range recipe {
		item := Item{
			ID:     id,
			Name:   e.catalog.IngredientName(id),
			Accent: req.Mode == ModeBaseAccent && i >= baseCount,
		}
		if orig, ok := replaces[i]; ok {
			item.Replaces = e.catalog.IngredientName(orig)
		}
		result.Items = append(result.Items, item)
	}

	e.log.Debug().
		Str("network", string(req.Mode)).
		Str("cuisine", cuisine).
		Int("size", len(recipe)).
		Msg("recipe generated")
	return result, nil
}

// Substitutes lists the top k substitutes of each named ingredient. An
// ingredient without substitutes yields an empty list, not an error.
func (e *Engine) Substitutes(names []string, k int) ([]SubstituteList, error) {
	if err := ValidateFanout(k); err != nil {
		return nil, err
	}
	ids, err := e.catalog.IngredientIDs(names)
	if err != nil {
		return nil, err
	}
	if e.substitution == nil {
		return nil, fmt.Errorf("%w: substitution network", ErrNoEmbeddings)
	}

	out := make([]SubstituteList, 0, len(ids))
	for _, id := range ids {
		list := SubstituteList{Ingredient: e.catalog.IngredientName(id), Substitutes: []NamedItem{}}
		for _, s := range ListSubstitutes(e.substitution, id, k, nil) {
			list.Substitutes = append(list.Substitutes, NamedItem{ID: s.ID, Name: e.catalog.IngredientName(s.ID), Weight: s.Weight})
		}
		out = append(out, list)
	}
	return out, nil
}

// resolveCuisine validates a cuisine label; "random" picks one uniformly and
// "" means no restriction.
func (e *Engine) resolveCuisine(cuisine string) (string, error) {
	switch cuisine {
	case "":
		return "", nil
	case RandomCuisine:
		all := e.catalog.Cuisines()
		if len(all) == 0 {
			return "", fmt.Errorf("%w: no cuisines loaded", graph.ErrUnknownCuisine)
		}
		return all[e.sampler.Intn(len(all))], nil
	}
	if !e.catalog.HasCuisine(cuisine) {
		return "", fmt.Errorf("%w: %q", graph.ErrUnknownCuisine, cuisine)
	}
	return cuisine, nil
}

// cuisineSpace returns the space of kind restricted to the ingredients used
// by cuisine, or the whole space when cuisine is empty.
func (e *Engine) cuisineSpace(kind graph.NetworkKind, cuisine string) (*embeddings.Space, error) {
	space, err := e.Space(kind)
	if err != nil {
		return nil, err
	}
	if cuisine == "" {
		return space, nil
	}
	ids, err := e.catalog.CuisineIngredients(cuisine)
	if err != nil {
		return nil, err
	}
	return space.Restrict(ids), nil
}
