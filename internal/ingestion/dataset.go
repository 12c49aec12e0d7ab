package ingestion

import (
	"fmt"

	"github.com/Benny93/flavornet/internal/graph"
)

// Dataset is the immutable input of network construction: the entity
// context and the two pruned bipartite graphs.
type Dataset struct {
	Catalog *graph.Catalog

	// Flavors joins ingredients to flavor compounds.
	Flavors *graph.Bipartite

	// Recipes joins ingredients to the recipes that use them.
	Recipes *graph.Bipartite

	// Pruned lists ingredients dropped for appearing in no recipe.
	Pruned []graph.NodeID
}

// BuildDataset assembles the catalog and the bipartite graphs from the
// source records. Recipe ids are assigned sequentially in source order. Every
// ingredient is a node of both graphs before pruning, so an ingredient with
// no flavor compounds survives as long as some recipe uses it.
func BuildDataset(src *Sources) (*Dataset, error) {
	ingredients := src.Ingredients
	probe := graph.NewCatalog(ingredients, nil, nil, nil)

	ifg := graph.NewBipartite(graph.KindFlavor)
	irg := graph.NewBipartite(graph.KindRecipe)
	for _, ing := range ingredients {
		ifg.AddIngredient(ing.ID)
		irg.AddIngredient(ing.ID)
	}

	known := make(map[graph.NodeID]bool, len(src.Flavors))
	for _, f := range src.Flavors {
		ifg.AddCompanion(f.ID)
		known[f.ID] = true
	}
	for _, link := range src.Links {
		if !irg.HasIngredient(link.Ingredient) {
			return nil, fmt.Errorf("flavor link: %w: id %d", graph.ErrUnknownIngredient, link.Ingredient)
		}
		if !known[link.Flavor] {
			return nil, fmt.Errorf("flavor link: unknown compound id %d", link.Flavor)
		}
		ifg.AddEdge(link.Ingredient, link.Flavor)
	}

	recipes := make([]graph.Recipe, 0, len(src.Recipes))
	for i, raw := range src.Recipes {
		ids, err := probe.IngredientIDs(raw.Ingredients)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		rid := graph.NodeID(i)
		irg.AddCompanion(rid)
		for _, id := range ids {
			irg.AddEdge(id, rid)
		}
		recipes = append(recipes, graph.Recipe{ID: rid, Cuisine: raw.Cuisine, Ingredients: ids})
	}

	pruned := graph.Prune(ifg, irg)
	return &Dataset{
		Catalog: graph.NewCatalog(ingredients, src.Flavors, recipes, src.Regions),
		Flavors: ifg,
		Recipes: irg,
		Pruned:  pruned,
	}, nil
}

// IngredientIDs returns the ingredients that survived pruning, ascending.
func (d *Dataset) IngredientIDs() []graph.NodeID {
	return d.Recipes.Ingredients()
}
