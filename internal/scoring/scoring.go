// Package scoring implements the pairwise ingredient scores used to derive
// the ingredient networks.
//
// Every function is pure: it reads the bipartite graphs and never fails for
// valid inputs. A score that is not admitted is reported as (false, sentinel)
// instead of an error so pair enumeration never aborts early.
package scoring

import (
	"math"

	"github.com/Benny93/flavornet/internal/graph"
)

// DefaultRecipeThreshold is the minimum number of shared recipes a pair needs
// before a recipe co-occurrence score counts.
const DefaultRecipeThreshold = 20

// PairScorer scores one unordered ingredient pair.
type PairScorer func(a, b graph.NodeID) (admit bool, score float64)

// Jaccard returns |N(a)∩N(b)| / |N(a)∪N(b)| over g's neighbor sets.
// It returns 0 when the union is empty or fewer than threshold neighbors are
// shared.
func Jaccard(g *graph.Bipartite, a, b graph.NodeID, threshold float64) float64 {
	common, union := g.Overlap(a, b)
	if union == 0 || float64(common) < threshold {
		return 0
	}
	return float64(common) / float64(union)
}

// PMI returns the pointwise mutual information of two ingredients over the
// recipe graph, where nr is the total number of recipes:
//
//	ln|common| - ln|N(a)| - ln|N(b)| + ln(nr)
//
// The pair is admitted when at least threshold recipes (and at least one) are
// shared; otherwise the score is -Inf.
func PMI(irg *graph.Bipartite, a, b graph.NodeID, nr int, threshold float64) (bool, float64) {
	common, _ := irg.Overlap(a, b)
	if common == 0 || float64(common) < threshold {
		return false, math.Inf(-1)
	}
	score := math.Log(float64(common)) -
		math.Log(float64(irg.Degree(a))) -
		math.Log(float64(irg.Degree(b))) +
		math.Log(float64(nr))
	return true, score
}

// FPHF is the food pairing hypothesis factor RF * (FF - medFF)^2, where FF is
// the flavor Jaccard index and RF the recipe Jaccard index with the recipe
// threshold applied. Admitted iff the score is positive.
func FPHF(ifg, irg *graph.Bipartite, a, b graph.NodeID, medFF, threshold float64) (bool, float64) {
	ff := Jaccard(ifg, a, b, 0)
	rf := Jaccard(irg, a, b, threshold)
	d := ff - medFF
	score := rf * d * d
	return score > 0, score
}

// COF is the co-occurrence factor PMI + |FF - medFF|. It is admitted exactly
// when PMI is.
func COF(ifg, irg *graph.Bipartite, a, b graph.NodeID, nr int, medFF, threshold float64) (bool, float64) {
	ok, pmi := PMI(irg, a, b, nr, threshold)
	if !ok {
		return false, pmi
	}
	ff := Jaccard(ifg, a, b, 0)
	return true, pmi + math.Abs(ff-medFF)
}

// SF is the substitution factor FF / (1 + RF): high when two ingredients share
// flavor compounds but seldom appear together. FF applies flavorThreshold to
// the number of shared compounds. Admitted iff the score is positive.
func SF(ifg, irg *graph.Bipartite, a, b graph.NodeID, flavorThreshold float64) (bool, float64) {
	ff := Jaccard(ifg, a, b, flavorThreshold)
	rf := Jaccard(irg, a, b, 0)
	score := ff / (1 + rf)
	return score > 0, score
}
