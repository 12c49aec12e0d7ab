package analysis

import (
	"fmt"
	"sort"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/scoring"
)

// TopEdges returns the k heaviest edges of n, ties broken by pair. When
// within is non-nil only edges with both endpoints in it are considered.
func TopEdges(n *graph.Network, k int, within []graph.NodeID) []graph.WeightedEdge {
	var keep map[graph.NodeID]bool
	if within != nil {
		keep = make(map[graph.NodeID]bool, len(within))
		for _, id := range within {
			keep[id] = true
		}
	}

	var edges []graph.WeightedEdge
	for _, e := range n.Edges() {
		if keep != nil && (!keep[e.A] || !keep[e.B]) {
			continue
		}
		edges = append(edges, e)
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if k > 0 && len(edges) > k {
		edges = edges[:k]
	}
	return edges
}

// Comparison is every pairwise score of two ingredients side by side.
type Comparison struct {
	A     graph.NodeID `json:"a"`
	B     graph.NodeID `json:"b"`
	MedFF float64      `json:"med_ff"`

	// FF and RF are the flavor and recipe Jaccard indices.
	FF float64 `json:"ff"`
	RF float64 `json:"rf"`

	FPHF float64 `json:"fphf"`
	COF  float64 `json:"cof"`
	PMI  float64 `json:"pmi"`

	// PMIAdmitted is false when the pair shares no recipe; PMI and COF are
	// then -Inf.
	PMIAdmitted bool `json:"pmi_admitted"`

	CommonFlavors int `json:"common_flavors"`
	CommonRecipes int `json:"common_recipes"`
}

// Compare scores a pair with every scoring function and no thresholds.
func Compare(ifg, irg *graph.Bipartite, nr int, medFF float64, a, b graph.NodeID) Comparison {
	c := Comparison{A: a, B: b, MedFF: medFF}
	c.CommonFlavors, _ = ifg.Overlap(a, b)
	c.CommonRecipes, _ = irg.Overlap(a, b)
	c.FF = scoring.Jaccard(ifg, a, b, 0)
	c.RF = scoring.Jaccard(irg, a, b, 0)
	_, c.FPHF = scoring.FPHF(ifg, irg, a, b, medFF, 0)
	_, c.COF = scoring.COF(ifg, irg, a, b, nr, medFF, 0)
	c.PMIAdmitted, c.PMI = scoring.PMI(irg, a, b, nr, 0)
	return c
}

// RecipeSpread is the mean Euclidean distance between every pair of recipe
// ingredients in space. Lower means a more cohesive recipe. Recipes with
// fewer than two ingredients have no spread.
func RecipeSpread(space *embeddings.Space, recipe []graph.NodeID) (float64, error) {
	if len(recipe) < 2 {
		return 0, nil
	}
	vecs := make([][]float64, len(recipe))
	for i, id := range recipe {
		v, err := space.Vector(id)
		if err != nil {
			return 0, fmt.Errorf("recipe spread: %w", err)
		}
		vecs[i] = v
	}

	var sum float64
	for i := 0; i < len(vecs)-1; i++ {
		for j := i + 1; j < len(vecs); j++ {
			sum += embeddings.Distance(vecs[i], vecs[j])
		}
	}
	pairs := len(vecs) * (len(vecs) - 1) / 2
	return sum / float64(pairs), nil
}
