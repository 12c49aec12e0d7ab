package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
)

// testEngine has ten ingredients; 0-4 are italian, 5-9 chinese. Every
// space embeds all ten on a line.
func testEngine(t *testing.T, seed int64) *Engine {
	t.Helper()

	names := []string{"basil", "tomato", "garlic", "olive_oil", "parmesan", "ginger", "soy_sauce", "scallion", "rice", "sesame_oil"}
	ingredients := make([]graph.Ingredient, len(names))
	ids := make([]graph.NodeID, len(names))
	for i, name := range names {
		ingredients[i] = graph.Ingredient{ID: graph.NodeID(i), Name: name, Category: "test"}
		ids[i] = graph.NodeID(i)
	}
	catalog := graph.NewCatalog(ingredients, nil, []graph.Recipe{
		{ID: 0, Cuisine: "italian", Ingredients: []graph.NodeID{0, 1, 2, 3, 4}},
		{ID: 1, Cuisine: "chinese", Ingredients: []graph.NodeID{5, 6, 7, 8, 9}},
	}, nil)

	spaces := make(map[graph.NetworkKind]*embeddings.Space)
	for _, kind := range graph.NetworkKinds {
		s := embeddings.NewSpace(1)
		for i, id := range ids {
			require.NoError(t, s.Set(id, []float64{float64(i)}))
		}
		spaces[kind] = s
	}

	sn := graph.NewNetwork(graph.Substitution, ids)
	require.NoError(t, sn.AddEdge(2, 5, 0.8)) // garlic - ginger
	require.NoError(t, sn.AddEdge(2, 7, 0.4)) // garlic - scallion

	return NewEngine(catalog, spaces, sn, NewSampler(seed), zerolog.Nop())
}

func TestEngine_Generate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("UpdatedComplement", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 1)

		res, err := e.Generate(ctx, Request{Seeds: []string{"basil"}, Min: 4, Max: 6})
		require.NoError(t, err)
		assert.Equal(t, ModeUpdatedComplement, res.Mode)
		assert.GreaterOrEqual(t, len(res.Items), 4)
		assert.LessOrEqual(t, len(res.Items), 6)
		assert.Equal(t, res.Size, len(res.Items))
		assert.Equal(t, "basil", res.Items[0].Name)
		for _, it := range res.Items {
			assert.False(t, it.Accent)
		}
	})

	t.Run("BaseAccent", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 2)

		res, err := e.Generate(ctx, Request{Mode: ModeBaseAccent, Min: 5, Max: 5, Accent: 2})
		require.NoError(t, err)
		require.Len(t, res.Items, 5)
		for i, it := range res.Items {
			assert.Equal(t, i >= 3, it.Accent, "item %d", i)
		}
	})

	t.Run("CuisineRestriction", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 3)

		res, err := e.Generate(ctx, Request{Cuisine: "chinese", Min: 5, Max: 5})
		require.NoError(t, err)
		for _, id := range res.IDs() {
			assert.GreaterOrEqual(t, int(id), 5)
		}
	})

	t.Run("RandomCuisine", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 4)

		res, err := e.Generate(ctx, Request{Cuisine: RandomCuisine, Min: 3, Max: 3})
		require.NoError(t, err)
		assert.Contains(t, []string{"italian", "chinese"}, res.Cuisine)
	})

	t.Run("AvoidSubstitutes", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 5)

		res, err := e.Generate(ctx, Request{Seeds: []string{"garlic"}, Avoid: []string{"garlic"}, Min: 2, Max: 2})
		require.NoError(t, err)
		assert.NotEqual(t, "garlic", res.Items[0].Name)
		assert.Equal(t, "garlic", res.Items[0].Replaces)
		assert.False(t, res.MayContainAvoided)
	})

	t.Run("AvoidWithoutSubstitutes", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 6)

		res, err := e.Generate(ctx, Request{Seeds: []string{"basil"}, Avoid: []string{"basil"}, Min: 2, Max: 2})
		require.NoError(t, err)
		assert.Equal(t, "basil", res.Items[0].Name)
		assert.True(t, res.MayContainAvoided)
		assert.Equal(t, []string{"basil"}, res.Kept)
	})

	t.Run("ConfigErrorBeforeLookup", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 7)

		_, err := e.Generate(ctx, Request{Seeds: []string{"unobtainium"}, Accent: 2, Min: 3, Max: 3})
		var cfgErr *ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("UnknownSeed", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 8)

		_, err := e.Generate(ctx, Request{Seeds: []string{"unobtainium"}})
		assert.ErrorIs(t, err, graph.ErrUnknownIngredient)
	})

	t.Run("UnknownCuisine", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 9)

		_, err := e.Generate(ctx, Request{Cuisine: "martian"})
		assert.ErrorIs(t, err, graph.ErrUnknownCuisine)
	})

	t.Run("TooLargeForCuisine", func(t *testing.T) {
		t.Parallel()
		e := testEngine(t, 10)

		_, err := e.Generate(ctx, Request{Cuisine: "italian", Min: 8, Max: 8})
		assert.ErrorIs(t, err, ErrInsufficientCandidates)
	})

	t.Run("MissingSpace", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(graph.NewCatalog(nil, nil, nil, nil), nil, nil, NewSampler(1), zerolog.Nop())

		_, err := e.Generate(ctx, Request{})
		assert.ErrorIs(t, err, ErrNoEmbeddings)
	})
}

func TestEngine_Substitutes(t *testing.T) {
	t.Parallel()
	e := testEngine(t, 1)

	lists, err := e.Substitutes([]string{"garlic", "basil"}, 1)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "garlic", lists[0].Ingredient)
	assert.Equal(t, []NamedItem{{ID: 5, Name: "ginger", Weight: 0.8}}, lists[0].Substitutes)
	assert.Empty(t, lists[1].Substitutes)

	_, err = e.Substitutes([]string{"garlic"}, 0)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestEngine_SetSpaces(t *testing.T) {
	t.Parallel()
	e := testEngine(t, 1)

	replacement := embeddings.NewSpace(1)
	require.NoError(t, replacement.Set(0, []float64{1}))
	e.SetSpaces(map[graph.NetworkKind]*embeddings.Space{graph.UpdatedComplement: replacement})

	got, err := e.Space(graph.UpdatedComplement)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	other, err := e.Space(graph.FoodPairing)
	require.NoError(t, err)
	assert.Equal(t, 10, other.Len())
}
