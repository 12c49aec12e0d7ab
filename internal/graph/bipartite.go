package graph

import (
	"sort"
)

type nodeSet map[NodeID]struct{}

// Bipartite is an undirected, unweighted graph between ingredients and one
// companion class (flavor compounds or recipes).
//
// Edges only ever join an ingredient to a companion. Adjacency is indexed from
// both sides so neighbor lookups are O(1) for either class.
type Bipartite struct {
	companion   NodeKind
	ingredients map[NodeID]nodeSet
	companions  map[NodeID]nodeSet
	edges       int
}

// NewBipartite creates an empty bipartite graph whose second class is companion.
func NewBipartite(companion NodeKind) *Bipartite {
	return &Bipartite{
		companion:   companion,
		ingredients: make(map[NodeID]nodeSet),
		companions:  make(map[NodeID]nodeSet),
	}
}

// Companion returns the kind of the non-ingredient node class.
func (b *Bipartite) Companion() NodeKind {
	return b.companion
}

// AddIngredient adds an ingredient node. Adding an existing node is a no-op.
func (b *Bipartite) AddIngredient(id NodeID) {
	if _, ok := b.ingredients[id]; !ok {
		b.ingredients[id] = make(nodeSet)
	}
}

// AddCompanion adds a companion node. Adding an existing node is a no-op.
func (b *Bipartite) AddCompanion(id NodeID) {
	if _, ok := b.companions[id]; !ok {
		b.companions[id] = make(nodeSet)
	}
}

// AddEdge joins an ingredient to a companion, creating missing endpoints.
func (b *Bipartite) AddEdge(ingredient, companion NodeID) {
	b.AddIngredient(ingredient)
	b.AddCompanion(companion)
	if _, ok := b.ingredients[ingredient][companion]; ok {
		return
	}
	b.ingredients[ingredient][companion] = struct{}{}
	b.companions[companion][ingredient] = struct{}{}
	b.edges++
}

// HasIngredient reports whether the ingredient is a node of the graph.
func (b *Bipartite) HasIngredient(id NodeID) bool {
	_, ok := b.ingredients[id]
	return ok
}

// Degree returns the number of companions joined to an ingredient.
func (b *Bipartite) Degree(ingredient NodeID) int {
	return len(b.ingredients[ingredient])
}

// Neighbors returns the sorted companions of an ingredient.
func (b *Bipartite) Neighbors(ingredient NodeID) []NodeID {
	return sortedIDs(b.ingredients[ingredient])
}

// Overlap returns the sizes of the common and combined neighbor sets of two
// ingredients. Unknown ingredients have empty neighbor sets.
func (b *Bipartite) Overlap(x, y NodeID) (common, union int) {
	nx, ny := b.ingredients[x], b.ingredients[y]
	small, large := nx, ny
	if len(small) > len(large) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			common++
		}
	}
	return common, len(nx) + len(ny) - common
}

// Ingredients returns the sorted ingredient ids.
func (b *Bipartite) Ingredients() []NodeID {
	return sortedKeys(b.ingredients)
}

// Companions returns the sorted companion ids.
func (b *Bipartite) Companions() []NodeID {
	return sortedKeys(b.companions)
}

// IngredientCount returns the number of ingredient nodes.
func (b *Bipartite) IngredientCount() int {
	return len(b.ingredients)
}

// CompanionCount returns the number of companion nodes.
func (b *Bipartite) CompanionCount() int {
	return len(b.companions)
}

// EdgeCount returns the number of ingredient-companion edges.
func (b *Bipartite) EdgeCount() int {
	return b.edges
}

// Edges returns all edges as (ingredient, companion) pairs sorted by
// ingredient then companion.
func (b *Bipartite) Edges() [][2]NodeID {
	edges := make([][2]NodeID, 0, b.edges)
	for _, ing := range b.Ingredients() {
		for _, c := range b.Neighbors(ing) {
			edges = append(edges, [2]NodeID{ing, c})
		}
	}
	return edges
}

// RemoveIngredient deletes an ingredient and its edges.
// Returns true if the ingredient existed.
func (b *Bipartite) RemoveIngredient(id NodeID) bool {
	nbrs, ok := b.ingredients[id]
	if !ok {
		return false
	}
	for c := range nbrs {
		delete(b.companions[c], id)
	}
	b.edges -= len(nbrs)
	delete(b.ingredients, id)
	return true
}

// Prune removes ingredients that occur in no recipe from both graphs.
//
// An ingredient is dropped when it has degree 0 in the recipe graph or is
// missing from it entirely, which keeps the ingredient id spaces of the two
// graphs aligned. Returns the removed ids in ascending order.
func Prune(flavors, recipes *Bipartite) []NodeID {
	remove := make(nodeSet)
	for id, nbrs := range recipes.ingredients {
		if len(nbrs) == 0 {
			remove[id] = struct{}{}
		}
	}
	for id := range flavors.ingredients {
		if !recipes.HasIngredient(id) {
			remove[id] = struct{}{}
		}
	}

	removed := sortedIDs(remove)
	for _, id := range removed {
		flavors.RemoveIngredient(id)
		recipes.RemoveIngredient(id)
	}
	return removed
}

func sortedIDs(set nodeSet) []NodeID {
	ids := make([]NodeID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeys[V any](m map[NodeID]V) []NodeID {
	ids := make([]NodeID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
