package generate

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
	"github.com/Benny93/flavornet/internal/metrics"
)

const (
	// DefaultFanout is how many substitution edges are considered per
	// avoided ingredient.
	DefaultFanout = 10

	// DistancePenalty scales the embedding distance subtracted from a
	// substitute's network weight.
	DistancePenalty = 0.2
)

// Substitute is a candidate replacement with its substitution weight.
type Substitute struct {
	ID     graph.NodeID `json:"id"`
	Weight float64      `json:"weight"`
}

// ListSubstitutes returns up to k neighbors of id in the substitution
// network, heaviest first. Ties are broken by ascending id. Ids in exclude
// are skipped before the cut.
func ListSubstitutes(sn *graph.Network, id graph.NodeID, k int, exclude map[graph.NodeID]bool) []Substitute {
	var subs []Substitute
	for _, e := range sn.IncidentEdges(id) {
		other := e.Other(id)
		if exclude[other] {
			continue
		}
		subs = append(subs, Substitute{ID: other, Weight: e.Weight})
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Weight != subs[j].Weight {
			return subs[i].Weight > subs[j].Weight
		}
		return subs[i].ID < subs[j].ID
	})
	if k > 0 && len(subs) > k {
		subs = subs[:k]
	}
	return subs
}

// Replacement records one substituted position of a recipe.
type Replacement struct {
	Index    int          `json:"index"`
	Original graph.NodeID `json:"original"`
	With     graph.NodeID `json:"with"`
}

// Resolution is a recipe after avoided ingredients were handled.
type Resolution struct {
	Ingredients  []graph.NodeID
	Replacements []Replacement

	// Kept lists avoided ingredients that stayed for lack of substitutes.
	Kept []graph.NodeID

	// MayContainAvoided is set when Kept is not empty.
	MayContainAvoided bool
}

// Resolver replaces avoided ingredients using the substitution network,
// re-ranked by how close each substitute sits to the rest of the recipe in
// an embedding space.
type Resolver struct {
	network *graph.Network
	space   *embeddings.Space
	sampler *Sampler
	log     zerolog.Logger
	fanout  int
}

// NewResolver creates a resolver over the substitution network sn and the
// compatibility space.
func NewResolver(sn *graph.Network, space *embeddings.Space, sampler *Sampler, log zerolog.Logger) *Resolver {
	return &Resolver{
		network: sn,
		space:   space,
		sampler: sampler,
		log:     log,
		fanout:  DefaultFanout,
	}
}

// Resolve replaces every recipe entry found in avoid. Positions are kept so
// accent tags still line up. Substitutes already in the recipe or themselves
// avoided are never picked. An avoided ingredient without substitutes stays
// and flags the result; that is a warning, not an error.
func (r *Resolver) Resolve(recipe, avoid []graph.NodeID) (*Resolution, error) {
	avoided := make(map[graph.NodeID]bool, len(avoid))
	for _, id := range avoid {
		avoided[id] = true
	}

	res := &Resolution{Ingredients: append([]graph.NodeID(nil), recipe...)}
	used := make(map[graph.NodeID]bool, len(recipe))
	for _, id := range recipe {
		used[id] = true
	}

	for i, id := range recipe {
		if !avoided[id] {
			continue
		}

		exclude := make(map[graph.NodeID]bool, len(used)+len(avoided))
		for u := range used {
			exclude[u] = true
		}
		for a := range avoided {
			exclude[a] = true
		}
		candidates := ListSubstitutes(r.network, id, r.fanout, exclude)
		if len(candidates) == 0 {
			res.Kept = append(res.Kept, id)
			metrics.Substitutions.WithLabelValues("kept").Inc()
			continue
		}

		ids, scores := r.rank(candidates, recipe, id)
		pick, err := r.sampler.WeightedChoice(ids, scores)
		if err != nil {
			return nil, err
		}

		res.Ingredients[i] = pick
		res.Replacements = append(res.Replacements, Replacement{Index: i, Original: id, With: pick})
		used[pick] = true
		metrics.Substitutions.WithLabelValues("replaced").Inc()
	}

	if len(res.Kept) > 0 {
		res.MayContainAvoided = true
		r.log.Warn().
			Ints("ingredients", toInts(res.Kept)).
			Msg("recipe may contain avoided ingredients: no substitutes available")
	}
	return res, nil
}

// rank scores candidates as weight - DistancePenalty*distance, shifted so
// the lowest score is 0.
func (r *Resolver) rank(candidates []Substitute, recipe []graph.NodeID, replacing graph.NodeID) ([]graph.NodeID, []float64) {
	dists := make([]float64, len(candidates))
	maxFinite := math.Inf(-1)
	for i, c := range candidates {
		dists[i] = r.distanceToRest(c.ID, recipe, replacing)
		if !math.IsInf(dists[i], 1) {
			maxFinite = math.Max(maxFinite, dists[i])
		}
	}
	for i := range dists {
		if math.IsInf(maxFinite, -1) {
			// Nothing embedded: no distance penalty at all.
			dists[i] = 0
		} else {
			dists[i] = math.Min(dists[i], maxFinite)
		}
	}

	ids := make([]graph.NodeID, len(candidates))
	scores := make([]float64, len(candidates))
	lowest := math.Inf(1)
	for i, c := range candidates {
		ids[i] = c.ID
		scores[i] = c.Weight - DistancePenalty*dists[i]
		lowest = math.Min(lowest, scores[i])
	}
	for i := range scores {
		scores[i] -= lowest
	}
	return ids, scores
}

// distanceToRest is the mean distance from candidate to the recipe members
// other than itself and the ingredient it replaces. Unembedded candidates are
// infinitely far; an embedded candidate with nothing to compare against is 0.
func (r *Resolver) distanceToRest(candidate graph.NodeID, recipe []graph.NodeID, replacing graph.NodeID) float64 {
	vec, err := r.space.Vector(candidate)
	if err != nil {
		return math.Inf(1)
	}
	rest := make([]graph.NodeID, 0, len(recipe))
	for _, id := range recipe {
		if id != candidate && id != replacing && r.space.Has(id) {
			rest = append(rest, id)
		}
	}
	if len(rest) == 0 {
		return 0
	}
	return r.space.AverageDistance(vec, rest)
}

func toInts(ids []graph.NodeID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
