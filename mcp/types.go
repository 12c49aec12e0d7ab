package mcp

import (
	"github.com/Benny93/flavornet/internal/generate"
	"github.com/Benny93/flavornet/internal/index"
)

// DefaultSubstitutes is the substitute fan-out when none is given.
const DefaultSubstitutes = 5

// --- Tool Arguments ---

type GenerateArgs struct {
	Seeds   []string `json:"seeds,omitempty" jsonschema:"Ingredients the recipe must start from"`
	Cuisine string   `json:"cuisine,omitempty" jsonschema:"Restrict to ingredients of this cuisine, or 'random'"`
	Network string   `json:"network,omitempty" jsonschema:"Embedding network: 'ucn' (default) or 'ocn_fph' for base and accent"`
	Min     int      `json:"min,omitempty" jsonschema:"Minimum number of ingredients (default 7)"`
	Max     int      `json:"max,omitempty" jsonschema:"Maximum number of ingredients (default 7)"`
	Accent  int      `json:"accent,omitempty" jsonschema:"Number of accent ingredients, network ocn_fph only"`
	Avoid   []string `json:"avoid,omitempty" jsonschema:"Ingredients to replace with substitutes"`
}

type SubstitutesArgs struct {
	Ingredients []string `json:"ingredients" jsonschema:"Ingredient names to find substitutes for"`
	K           int      `json:"k,omitempty" jsonschema:"Substitutes per ingredient (default 5)"`
}

type CompareArgs struct {
	A string `json:"a" jsonschema:"First ingredient name"`
	B string `json:"b" jsonschema:"Second ingredient name"`
}

type OverviewArgs struct{}

// --- Tool Results ---

type SubstitutesOutput struct {
	Ingredients []generate.SubstituteList `json:"ingredients"`
}

// CompareOutput is a pair comparison; PMI and COF are absent for pairs that
// share no recipe.
type CompareOutput struct {
	A             string   `json:"a"`
	B             string   `json:"b"`
	MedFF         float64  `json:"med_ff"`
	FF            float64  `json:"ff"`
	RF            float64  `json:"rf"`
	FPHF          float64  `json:"fphf"`
	PMI           *float64 `json:"pmi,omitempty"`
	COF           *float64 `json:"cof,omitempty"`
	CommonFlavors int      `json:"common_flavors"`
	CommonRecipes int      `json:"common_recipes"`
}

type OverviewOutput struct {
	Networks []index.NetworkSummary `json:"networks"`
}
