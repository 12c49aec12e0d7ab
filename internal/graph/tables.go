package graph

import (
	"sort"
)

// Table names used when mapping tables are persisted one by one.
const (
	TableIIDToIngredient      = "iid_to_ingredient"
	TableIngredientToCategory = "ingredient_to_category"
	TableCategoryToIngredient = "category_to_ingredients"
	TableFIDToFlavor          = "fid_to_flavor"
	TableFlavorToCAS          = "flavor_to_cas"
	TableCASToFlavors         = "cas_to_flavors"
	TableRIDToIngredients     = "rid_to_ingredients"
	TableCuisineToIngredients = "cuisine_to_ingredients"
	TableIngredientToCuisines = "ingredient_to_cuisines"
	TableRIDToCuisine         = "rid_to_cuisine"
	TableCuisineToRIDs        = "cuisine_to_rids"
	TableCuisineToRegions     = "cuisine_to_regions"
	TableRegionToCuisines     = "region_to_cuisines"
)

// Tables is the flat, serializable view of a Catalog.
//
// Each field is an independent mapping; the derived ones are redundant with the
// primary ones but are kept so each lookup can be loaded on its own.
type Tables struct {
	IIDToIngredient       map[NodeID]string
	IngredientToCategory  map[string]string
	CategoryToIngredients map[string][]string
	FIDToFlavor           map[NodeID]string
	FlavorToCAS           map[string]string
	CASToFlavors          map[string][]string
	RIDToIngredients      map[NodeID][]NodeID
	CuisineToIngredients  map[string][]NodeID
	IngredientToCuisines  map[NodeID][]string
	RIDToCuisine          map[NodeID]string
	CuisineToRIDs         map[string][]NodeID
	CuisineToRegions      map[string][]string
	RegionToCuisines      map[string][]string
}

// Named returns pointers to every table keyed by table name, suitable for
// both encoding and decoding in place.
func (t *Tables) Named() map[string]any {
	return map[string]any{
		TableIIDToIngredient:      &t.IIDToIngredient,
		TableIngredientToCategory: &t.IngredientToCategory,
		TableCategoryToIngredient: &t.CategoryToIngredients,
		TableFIDToFlavor:          &t.FIDToFlavor,
		TableFlavorToCAS:          &t.FlavorToCAS,
		TableCASToFlavors:         &t.CASToFlavors,
		TableRIDToIngredients:     &t.RIDToIngredients,
		TableCuisineToIngredients: &t.CuisineToIngredients,
		TableIngredientToCuisines: &t.IngredientToCuisines,
		TableRIDToCuisine:         &t.RIDToCuisine,
		TableCuisineToRIDs:        &t.CuisineToRIDs,
		TableCuisineToRegions:     &t.CuisineToRegions,
		TableRegionToCuisines:     &t.RegionToCuisines,
	}
}

// TableNames lists the table names in a stable order.
func TableNames() []string {
	names := make([]string, 0, 13)
	for name := range (&Tables{}).Named() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables flattens the catalog into its mapping tables.
func (c *Catalog) Tables() *Tables {
	t := &Tables{
		IIDToIngredient:       make(map[NodeID]string, len(c.ingredients)),
		IngredientToCategory:  make(map[string]string, len(c.ingredients)),
		CategoryToIngredients: make(map[string][]string),
		FIDToFlavor:           make(map[NodeID]string, len(c.flavors)),
		FlavorToCAS:           make(map[string]string, len(c.flavors)),
		CASToFlavors:          make(map[string][]string),
		RIDToIngredients:      make(map[NodeID][]NodeID, len(c.recipes)),
		CuisineToIngredients:  make(map[string][]NodeID),
		IngredientToCuisines:  make(map[NodeID][]string),
		RIDToCuisine:          make(map[NodeID]string, len(c.recipes)),
		CuisineToRIDs:         make(map[string][]NodeID),
		CuisineToRegions:      make(map[string][]string),
		RegionToCuisines:      make(map[string][]string),
	}

	for _, ing := range c.Ingredients() {
		t.IIDToIngredient[ing.ID] = ing.Name
		t.IngredientToCategory[ing.Name] = ing.Category
		t.CategoryToIngredients[ing.Category] = append(t.CategoryToIngredients[ing.Category], ing.Name)
	}
	for _, f := range c.Flavors() {
		t.FIDToFlavor[f.ID] = f.Name
		t.FlavorToCAS[f.Name] = f.CAS
		t.CASToFlavors[f.CAS] = append(t.CASToFlavors[f.CAS], f.Name)
	}
	for _, r := range c.Recipes() {
		t.RIDToIngredients[r.ID] = r.Ingredients
		t.RIDToCuisine[r.ID] = r.Cuisine
	}
	for cuisine, rids := range c.cuisineRecipes {
		t.CuisineToRIDs[cuisine] = append([]NodeID(nil), rids...)
		t.CuisineToIngredients[cuisine] = sortedIDs(c.cuisineIngredients[cuisine])
	}
	for id := range c.ingredientCuisines {
		t.IngredientToCuisines[id] = c.IngredientCuisines(id)
	}
	for cuisine, regions := range c.cuisineRegions {
		t.CuisineToRegions[cuisine] = append([]string(nil), regions...)
	}
	for region, cuisines := range c.regionCuisines {
		t.RegionToCuisines[region] = append([]string(nil), cuisines...)
	}
	return t
}

// CatalogFromTables rebuilds a catalog from its primary tables.
//
// Only IIDToIngredient, IngredientToCategory, FIDToFlavor, FlavorToCAS,
// RIDToIngredients, RIDToCuisine and CuisineToRegions are read; the other
// tables are derived again.
func CatalogFromTables(t *Tables) *Catalog {
	ingredients := make([]Ingredient, 0, len(t.IIDToIngredient))
	for _, id := range sortedKeys(t.IIDToIngredient) {
		name := t.IIDToIngredient[id]
		ingredients = append(ingredients, Ingredient{ID: id, Name: name, Category: t.IngredientToCategory[name]})
	}

	flavors := make([]FlavorCompound, 0, len(t.FIDToFlavor))
	for _, id := range sortedKeys(t.FIDToFlavor) {
		name := t.FIDToFlavor[id]
		flavors = append(flavors, FlavorCompound{ID: id, Name: name, CAS: t.FlavorToCAS[name]})
	}

	recipes := make([]Recipe, 0, len(t.RIDToIngredients))
	for _, id := range sortedKeys(t.RIDToIngredients) {
		recipes = append(recipes, Recipe{ID: id, Cuisine: t.RIDToCuisine[id], Ingredients: t.RIDToIngredients[id]})
	}

	cuisines := make([]string, 0, len(t.CuisineToRegions))
	for cuisine := range t.CuisineToRegions {
		cuisines = append(cuisines, cuisine)
	}
	sort.Strings(cuisines)
	var regions []CuisineRegion
	for _, cuisine := range cuisines {
		for _, region := range t.CuisineToRegions[cuisine] {
			regions = append(regions, CuisineRegion{Cuisine: cuisine, Region: region})
		}
	}

	return NewCatalog(ingredients, flavors, recipes, regions)
}
