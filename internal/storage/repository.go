package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
)

// Key prefixes for different data types
const (
	prefixBipartite = "g:" // bipartite graph node/edge lists
	prefixNetwork   = "n:" // derived network node/edge lists
	prefixWeights   = "w:" // derived network weight sets
	prefixTable     = "t:" // catalog mapping tables
	prefixSpace     = "e:" // embedding spaces
	prefixDoc       = "d:" // JSON documents (statistics, build info)
)

// Bipartite graph names.
const (
	IngredientFlavor = "ingredient_flavor"
	IngredientRecipe = "ingredient_recipe"
)

// Repository maps flavornet's domain objects onto a StorageBackend.
type Repository struct {
	backend StorageBackend
}

// NewRepository wraps a backend.
func NewRepository(backend StorageBackend) *Repository {
	return &Repository{backend: backend}
}

// Backend returns the underlying backend.
func (r *Repository) Backend() StorageBackend {
	return r.backend
}

// SaveBipartite stores a bipartite graph under name.
func (r *Repository) SaveBipartite(ctx context.Context, name string, b *graph.Bipartite) error {
	if err := r.backend.Put(ctx, prefixBipartite+name, EncodeBipartite(b)); err != nil {
		return fmt.Errorf("saving graph %s: %w", name, err)
	}
	return nil
}

// LoadBipartite reads a bipartite graph.
func (r *Repository) LoadBipartite(ctx context.Context, name string) (*graph.Bipartite, error) {
	data, err := r.backend.Get(ctx, prefixBipartite+name)
	if err != nil {
		return nil, fmt.Errorf("loading graph %s: %w", name, err)
	}
	b, err := DecodeBipartite(data)
	if err != nil {
		return nil, fmt.Errorf("decoding graph %s: %w", name, err)
	}
	return b, nil
}

// SaveNetwork stores a network's structure and its weight set in one batch.
func (r *Repository) SaveNetwork(ctx context.Context, n *graph.Network) error {
	weights, err := json.Marshal(n.Edges())
	if err != nil {
		return fmt.Errorf("marshaling %s weights: %w", n.Kind(), err)
	}
	err = r.backend.PutBatch(ctx, []Entry{
		{Key: prefixNetwork + string(n.Kind()), Value: EncodeNetwork(n)},
		{Key: prefixWeights + string(n.Kind()), Value: weights},
	})
	if err != nil {
		return fmt.Errorf("saving network %s: %w", n.Kind(), err)
	}
	return nil
}

// LoadWeights reads the weight set of a network keyed by canonical pair.
func (r *Repository) LoadWeights(ctx context.Context, kind graph.NetworkKind) (map[graph.Pair]float64, error) {
	data, err := r.backend.Get(ctx, prefixWeights+string(kind))
	if err != nil {
		return nil, fmt.Errorf("loading %s weights: %w", kind, err)
	}
	var edges []graph.WeightedEdge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("decoding %s weights: %w", kind, err)
	}
	weights := make(map[graph.Pair]float64, len(edges))
	for _, e := range edges {
		weights[graph.MakePair(e.A, e.B)] = e.Weight
	}
	return weights, nil
}

// LoadNetwork reads a network and its weights.
func (r *Repository) LoadNetwork(ctx context.Context, kind graph.NetworkKind) (*graph.Network, error) {
	data, err := r.backend.Get(ctx, prefixNetwork+string(kind))
	if err != nil {
		return nil, fmt.Errorf("loading network %s: %w", kind, err)
	}
	weights, err := r.LoadWeights(ctx, kind)
	if err != nil {
		return nil, err
	}
	n, err := DecodeNetwork(data, weights)
	if err != nil {
		return nil, fmt.Errorf("decoding network %s: %w", kind, err)
	}
	return n, nil
}

// SaveTables stores every mapping table under its own key.
func (r *Repository) SaveTables(ctx context.Context, t *graph.Tables) error {
	named := t.Named()
	entries := make([]Entry, 0, len(named))
	for _, name := range graph.TableNames() {
		data, err := json.Marshal(named[name])
		if err != nil {
			return fmt.Errorf("marshaling table %s: %w", name, err)
		}
		entries = append(entries, Entry{Key: prefixTable + name, Value: data})
	}
	if err := r.backend.PutBatch(ctx, entries); err != nil {
		return fmt.Errorf("saving tables: %w", err)
	}
	return nil
}

// LoadTable decodes one mapping table into dst.
func (r *Repository) LoadTable(ctx context.Context, name string, dst any) error {
	data, err := r.backend.Get(ctx, prefixTable+name)
	if err != nil {
		return fmt.Errorf("loading table %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding table %s: %w", name, err)
	}
	return nil
}

// LoadTables reads every mapping table.
func (r *Repository) LoadTables(ctx context.Context) (*graph.Tables, error) {
	t := &graph.Tables{}
	for name, dst := range t.Named() {
		if err := r.LoadTable(ctx, name, dst); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadCatalog rebuilds the entity context from the stored tables.
func (r *Repository) LoadCatalog(ctx context.Context) (*graph.Catalog, error) {
	t, err := r.LoadTables(ctx)
	if err != nil {
		return nil, err
	}
	return graph.CatalogFromTables(t), nil
}

// SaveSpace stores the embedding space of a network.
func (r *Repository) SaveSpace(ctx context.Context, kind graph.NetworkKind, s *embeddings.Space) error {
	if err := r.backend.Put(ctx, prefixSpace+string(kind), EncodeSpace(s)); err != nil {
		return fmt.Errorf("saving %s embeddings: %w", kind, err)
	}
	return nil
}

// LoadSpace reads the embedding space of a network.
func (r *Repository) LoadSpace(ctx context.Context, kind graph.NetworkKind) (*embeddings.Space, error) {
	data, err := r.backend.Get(ctx, prefixSpace+string(kind))
	if err != nil {
		return nil, fmt.Errorf("loading %s embeddings: %w", kind, err)
	}
	s, err := DecodeSpace(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s embeddings: %w", kind, err)
	}
	return s, nil
}

// LoadSpaces reads every stored embedding space; networks without one are
// absent from the result.
func (r *Repository) LoadSpaces(ctx context.Context) (map[graph.NetworkKind]*embeddings.Space, error) {
	spaces := make(map[graph.NetworkKind]*embeddings.Space)
	for _, kind := range graph.NetworkKinds {
		s, err := r.LoadSpace(ctx, kind)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		spaces[kind] = s
	}
	return spaces, nil
}

// SaveDoc stores v as a JSON document.
func (r *Repository) SaveDoc(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := r.backend.Put(ctx, prefixDoc+name, data); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	return nil
}

// LoadDoc decodes a JSON document into dst.
func (r *Repository) LoadDoc(ctx context.Context, name string, dst any) error {
	data, err := r.backend.Get(ctx, prefixDoc+name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// Inventory counts the stored records by type.
func (r *Repository) Inventory(ctx context.Context) (map[string]int, error) {
	kinds := map[string]string{
		prefixBipartite: "graphs",
		prefixNetwork:   "networks",
		prefixTable:     "tables",
		prefixSpace:     "embeddings",
		prefixDoc:       "documents",
	}
	out := make(map[string]int, len(kinds))
	for prefix, label := range kinds {
		keys, err := r.backend.Keys(ctx, prefix)
		if err != nil {
			return nil, err
		}
		out[label] = len(keys)
	}
	return out, nil
}

// StoredSpaces lists the networks that have an embedding space.
func (r *Repository) StoredSpaces(ctx context.Context) ([]graph.NetworkKind, error) {
	keys, err := r.backend.Keys(ctx, prefixSpace)
	if err != nil {
		return nil, err
	}
	kinds := make([]graph.NetworkKind, 0, len(keys))
	for _, k := range keys {
		kinds = append(kinds, graph.NetworkKind(strings.TrimPrefix(k, prefixSpace)))
	}
	return kinds, nil
}

// Clear removes every record the repository manages and returns how many
// keys were deleted.
func (r *Repository) Clear(ctx context.Context) (int, error) {
	total := 0
	for _, prefix := range []string{prefixBipartite, prefixNetwork, prefixWeights, prefixTable, prefixSpace, prefixDoc} {
		n, err := r.backend.DeletePrefix(ctx, prefix)
		total += n
		if err != nil {
			return total, fmt.Errorf("clearing %s: %w", prefix, err)
		}
	}
	return total, nil
}
