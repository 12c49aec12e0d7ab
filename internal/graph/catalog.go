package graph

import (
	"fmt"
	"sort"
	"strings"
)

// CuisineRegion assigns a cuisine to a geographic region.
type CuisineRegion struct {
	Cuisine string `json:"cuisine"`
	Region  string `json:"region"`
}

// Catalog is the immutable entity context shared by every component.
//
// It is built once from the source tables and passed explicitly to whatever
// needs name, category or cuisine lookups. All accessors return copies.
type Catalog struct {
	ingredients map[NodeID]Ingredient
	byName      map[string]NodeID
	flavors     map[NodeID]FlavorCompound
	recipes     map[NodeID]Recipe
	regions     []CuisineRegion

	categoryIngredients map[string][]NodeID
	casFlavors          map[string][]NodeID
	cuisineRecipes      map[string][]NodeID
	cuisineIngredients  map[string]nodeSet
	ingredientCuisines  map[NodeID]map[string]struct{}
	cuisineRegions      map[string][]string
	regionCuisines      map[string][]string
}

// NormalizeName canonicalizes an ingredient name for lookup: lower case,
// trimmed, inner whitespace joined with underscores.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// NewCatalog indexes the given entities.
func NewCatalog(ingredients []Ingredient, flavors []FlavorCompound, recipes []Recipe, regions []CuisineRegion) *Catalog {
	c := &Catalog{
		ingredients:         make(map[NodeID]Ingredient, len(ingredients)),
		byName:              make(map[string]NodeID, len(ingredients)),
		flavors:             make(map[NodeID]FlavorCompound, len(flavors)),
		recipes:             make(map[NodeID]Recipe, len(recipes)),
		regions:             append([]CuisineRegion(nil), regions...),
		categoryIngredients: make(map[string][]NodeID),
		casFlavors:          make(map[string][]NodeID),
		cuisineRecipes:      make(map[string][]NodeID),
		cuisineIngredients:  make(map[string]nodeSet),
		ingredientCuisines:  make(map[NodeID]map[string]struct{}),
		cuisineRegions:      make(map[string][]string),
		regionCuisines:      make(map[string][]string),
	}

	for _, ing := range ingredients {
		c.ingredients[ing.ID] = ing
		c.byName[NormalizeName(ing.Name)] = ing.ID
		c.categoryIngredients[ing.Category] = append(c.categoryIngredients[ing.Category], ing.ID)
	}
	for _, f := range flavors {
		c.flavors[f.ID] = f
		c.casFlavors[f.CAS] = append(c.casFlavors[f.CAS], f.ID)
	}
	for _, r := range recipes {
		r.Ingredients = append([]NodeID(nil), r.Ingredients...)
		c.recipes[r.ID] = r
		c.cuisineRecipes[r.Cuisine] = append(c.cuisineRecipes[r.Cuisine], r.ID)
		if c.cuisineIngredients[r.Cuisine] == nil {
			c.cuisineIngredients[r.Cuisine] = make(nodeSet)
		}
		for _, id := range r.Ingredients {
			c.cuisineIngredients[r.Cuisine][id] = struct{}{}
			if c.ingredientCuisines[id] == nil {
				c.ingredientCuisines[id] = make(map[string]struct{})
			}
			c.ingredientCuisines[id][r.Cuisine] = struct{}{}
		}
	}
	for _, cr := range regions {
		c.cuisineRegions[cr.Cuisine] = append(c.cuisineRegions[cr.Cuisine], cr.Region)
		c.regionCuisines[cr.Region] = append(c.regionCuisines[cr.Region], cr.Cuisine)
	}

	for _, ids := range c.categoryIngredients {
		sortIDSlice(ids)
	}
	for _, ids := range c.casFlavors {
		sortIDSlice(ids)
	}
	for _, ids := range c.cuisineRecipes {
		sortIDSlice(ids)
	}
	return c
}

// Ingredient returns the ingredient with the given id.
func (c *Catalog) Ingredient(id NodeID) (Ingredient, bool) {
	ing, ok := c.ingredients[id]
	return ing, ok
}

// IngredientID resolves a display name to its id.
func (c *Catalog) IngredientID(name string) (NodeID, error) {
	id, ok := c.byName[NormalizeName(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIngredient, name)
	}
	return id, nil
}

// IngredientIDs resolves several names, failing on the first unknown one.
func (c *Catalog) IngredientIDs(names []string) ([]NodeID, error) {
	ids := make([]NodeID, 0, len(names))
	for _, name := range names {
		id, err := c.IngredientID(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// IngredientName returns the display name of id, or its number when unknown.
func (c *Catalog) IngredientName(id NodeID) string {
	if ing, ok := c.ingredients[id]; ok {
		return ing.Name
	}
	return fmt.Sprintf("#%d", id)
}

// IngredientNames maps ids to display names.
func (c *Catalog) IngredientNames(ids []NodeID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = c.IngredientName(id)
	}
	return names
}

// Ingredients returns every ingredient sorted by id.
func (c *Catalog) Ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(c.ingredients))
	for _, id := range sortedKeys(c.ingredients) {
		out = append(out, c.ingredients[id])
	}
	return out
}

// Flavors returns every flavor compound sorted by id.
func (c *Catalog) Flavors() []FlavorCompound {
	out := make([]FlavorCompound, 0, len(c.flavors))
	for _, id := range sortedKeys(c.flavors) {
		out = append(out, c.flavors[id])
	}
	return out
}

// Recipes returns every recipe sorted by id.
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, 0, len(c.recipes))
	for _, id := range sortedKeys(c.recipes) {
		r := c.recipes[id]
		r.Ingredients = append([]NodeID(nil), r.Ingredients...)
		out = append(out, r)
	}
	return out
}

// Regions returns the cuisine to region assignments in load order.
func (c *Catalog) Regions() []CuisineRegion {
	return append([]CuisineRegion(nil), c.regions...)
}

// RecipeCount returns the total number of recipes (NR).
func (c *Catalog) RecipeCount() int {
	return len(c.recipes)
}

// CategoryIngredients returns the ingredients of a category sorted by id.
func (c *Catalog) CategoryIngredients(category string) []NodeID {
	return append([]NodeID(nil), c.categoryIngredients[category]...)
}

// FlavorsByCAS returns the flavor compounds sharing a chemical class.
func (c *Catalog) FlavorsByCAS(cas string) []NodeID {
	return append([]NodeID(nil), c.casFlavors[cas]...)
}

// Cuisines returns every cuisine label that labels at least one recipe.
func (c *Catalog) Cuisines() []string {
	out := make([]string, 0, len(c.cuisineRecipes))
	for cuisine := range c.cuisineRecipes {
		out = append(out, cuisine)
	}
	sort.Strings(out)
	return out
}

// HasCuisine reports whether any recipe carries the cuisine label.
func (c *Catalog) HasCuisine(cuisine string) bool {
	_, ok := c.cuisineRecipes[cuisine]
	return ok
}

// CuisineIngredients returns the ingredients used by a cuisine's recipes.
func (c *Catalog) CuisineIngredients(cuisine string) ([]NodeID, error) {
	set, ok := c.cuisineIngredients[cuisine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCuisine, cuisine)
	}
	return sortedIDs(set), nil
}

// CuisineRecipes returns the recipes of a cuisine sorted by id.
func (c *Catalog) CuisineRecipes(cuisine string) []NodeID {
	return append([]NodeID(nil), c.cuisineRecipes[cuisine]...)
}

// IngredientCuisines returns the sorted cuisines whose recipes use id.
func (c *Catalog) IngredientCuisines(id NodeID) []string {
	out := make([]string, 0, len(c.ingredientCuisines[id]))
	for cuisine := range c.ingredientCuisines[id] {
		out = append(out, cuisine)
	}
	sort.Strings(out)
	return out
}

// CuisineRegions returns the regions a cuisine belongs to.
func (c *Catalog) CuisineRegions(cuisine string) []string {
	return append([]string(nil), c.cuisineRegions[cuisine]...)
}

// RegionCuisines returns the cuisines of a region.
func (c *Catalog) RegionCuisines(region string) []string {
	return append([]string(nil), c.regionCuisines[region]...)
}

func sortIDSlice(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
