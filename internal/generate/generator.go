package generate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
)

// randomSeedCount is how many ingredients seed a run without caller seeds.
const randomSeedCount = 2

// Generator grows ingredient sets around the centroid of what has been
// chosen so far. Closer ingredients are more likely, never certain.
type Generator struct {
	sampler *Sampler
}

// NewGenerator creates a generator drawing from sampler.
func NewGenerator(sampler *Sampler) *Generator {
	return &Generator{sampler: sampler}
}

// Generate grows seeds to target ingredients drawn from space.
//
// Without seeds, two ingredients are picked uniformly at random. Duplicate
// seeds are dropped. Every seed must be embedded. When seeds already reach
// target they are returned unchanged. If the space cannot supply enough
// unchosen ingredients the call fails with ErrInsufficientCandidates before
// sampling anything.
func (g *Generator) Generate(space *embeddings.Space, seeds []graph.NodeID, target int) ([]graph.NodeID, error) {
	return g.grow(space, seeds, target, false)
}

// GenerateBaseAccent builds target-accent base ingredients in the base
// space, then grows the set to target in the accent space seeded with the
// base. Base ingredients need not be embedded in the accent space as long as
// one of them is. The last accent entries of the result are the accents.
func (g *Generator) GenerateBaseAccent(base, accent *embeddings.Space, seeds []graph.NodeID, target, accentCount int) ([]graph.NodeID, error) {
	if accentCount < 0 || accentCount > target {
		return nil, fmt.Errorf("accent count %d outside [0, %d]", accentCount, target)
	}
	chosen, err := g.grow(base, seeds, target-accentCount, false)
	if err != nil {
		return nil, fmt.Errorf("base ingredients: %w", err)
	}
	recipe, err := g.grow(accent, chosen, target, true)
	if err != nil {
		return nil, fmt.Errorf("accent ingredients: %w", err)
	}
	return recipe, nil
}

func (g *Generator) grow(space *embeddings.Space, seeds []graph.NodeID, target int, tolerant bool) ([]graph.NodeID, error) {
	chosen := dedupe(seeds)
	inSet := make(map[graph.NodeID]bool, target)
	for _, id := range chosen {
		inSet[id] = true
	}

	var candidates []graph.NodeID
	for _, id := range space.IDs() {
		if !inSet[id] {
			candidates = append(candidates, id)
		}
	}

	if len(chosen) == 0 {
		n := min(randomSeedCount, target)
		if len(candidates) < n {
			return nil, fmt.Errorf("%w: need %d random seeds, space has %d ingredients", ErrInsufficientCandidates, n, len(candidates))
		}
		chosen = g.sampler.Choose(candidates, n)
		for _, id := range chosen {
			inSet[id] = true
		}
		candidates = remaining(candidates, inSet)
	}
	if len(chosen) >= target {
		return chosen, nil
	}
	if len(chosen)+len(candidates) < target {
		return nil, fmt.Errorf("%w: need %d more, %d available", ErrInsufficientCandidates, target-len(chosen), len(candidates))
	}

	// Running sum of the chosen vectors; the centroid is sum/count.
	sum := make([]float64, space.Dim())
	count := 0
	for _, id := range chosen {
		v, err := space.Vector(id)
		if err != nil {
			if tolerant {
				continue
			}
			return nil, err
		}
		floats.Add(sum, v)
		count++
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: none of %d chosen ingredients", embeddings.ErrNotEmbedded, len(chosen))
	}

	centroid := make([]float64, len(sum))
	weights := make([]float64, len(candidates))
	for len(chosen) < target {
		floats.ScaleTo(centroid, 1/float64(count), sum)

		weights = weights[:len(candidates)]
		for i, id := range candidates {
			v, _ := space.Vector(id)
			weights[i] = 1 / (embeddings.Distance(centroid, v) + 1)
		}

		next, err := g.sampler.WeightedChoice(candidates, weights)
		if err != nil {
			return nil, err
		}

		chosen = append(chosen, next)
		inSet[next] = true
		candidates = remaining(candidates, inSet)
		v, _ := space.Vector(next)
		floats.Add(sum, v)
		count++
	}
	return chosen, nil
}

func dedupe(ids []graph.NodeID) []graph.NodeID {
	seen := make(map[graph.NodeID]bool, len(ids))
	out := make([]graph.NodeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// remaining filters out chosen ids, keeping order.
func remaining(ids []graph.NodeID, chosen map[graph.NodeID]bool) []graph.NodeID {
	out := ids[:0]
	for _, id := range ids {
		if !chosen[id] {
			out = append(out, id)
		}
	}
	return out
}
