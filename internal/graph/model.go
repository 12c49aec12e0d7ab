// Package graph provides the ingredient network data model for flavornet.
//
// It defines the entities loaded from source tables (ingredients, flavor
// compounds, recipes), the two bipartite graphs that relate them, and the
// derived weighted networks built over ingredients.
package graph

import (
	"errors"
	"fmt"
)

// NodeID is the stable integer identifier of a node.
//
// Ingredient, flavor compound and recipe ids live in separate id spaces; a
// bipartite graph keeps its two node classes apart so the spaces never clash.
type NodeID int

// NodeKind represents the class of a graph node.
type NodeKind string

const (
	KindIngredient NodeKind = "ingredient"
	KindFlavor     NodeKind = "flavor"
	KindRecipe     NodeKind = "recipe"
)

// NetworkKind names one of the four derived ingredient networks.
type NetworkKind string

const (
	// OriginalComplement links ingredients by recipe co-occurrence PMI.
	OriginalComplement NetworkKind = "ocn"
	// FoodPairing links ingredients by the food pairing hypothesis factor.
	FoodPairing NetworkKind = "fph"
	// UpdatedComplement links ingredients by the co-occurrence factor.
	UpdatedComplement NetworkKind = "ucn"
	// Substitution links ingredients by the substitution factor.
	Substitution NetworkKind = "sn"
)

// NetworkKinds lists every derived network in build order.
var NetworkKinds = []NetworkKind{OriginalComplement, FoodPairing, UpdatedComplement, Substitution}

// ParseNetworkKind validates a network name.
func ParseNetworkKind(s string) (NetworkKind, error) {
	for _, k := range NetworkKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown network %q", s)
}

var (
	// ErrUnknownIngredient is returned when an ingredient name or id is not in the catalog.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrUnknownCuisine is returned when a cuisine label is not in the catalog.
	ErrUnknownCuisine = errors.New("unknown cuisine")

	// ErrNodeNotFound is returned when an edge references a node outside the network.
	ErrNodeNotFound = errors.New("node not in network")

	// ErrSelfLoop is returned when an edge would join a node to itself.
	ErrSelfLoop = errors.New("self loop")
)

// Ingredient is a food ingredient.
type Ingredient struct {
	ID       NodeID `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// FlavorCompound is a flavor compound and its chemical class (CAS number).
type FlavorCompound struct {
	ID   NodeID `json:"id"`
	Name string `json:"name"`
	CAS  string `json:"cas"`
}

// Recipe is a set of ingredients labelled with a cuisine.
type Recipe struct {
	ID          NodeID   `json:"id"`
	Cuisine     string   `json:"cuisine"`
	Ingredients []NodeID `json:"ingredients"`
}

// Pair is an unordered ingredient pair in canonical order (A < B).
type Pair struct {
	A NodeID `json:"a"`
	B NodeID `json:"b"`
}

// MakePair returns the canonical pair for two ids.
func MakePair(a, b NodeID) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Other returns the endpoint of p that is not id.
func (p Pair) Other(id NodeID) NodeID {
	if p.A == id {
		return p.B
	}
	return p.A
}

// WeightedEdge is an edge of a derived network with its score.
type WeightedEdge struct {
	Pair
	Weight float64 `json:"w"`
}
