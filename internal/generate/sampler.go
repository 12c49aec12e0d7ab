// Package generate assembles ingredient sets by sampling embedding spaces
// and replaces avoided ingredients with substitutes.
package generate

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Benny93/flavornet/internal/graph"
)

// Sampler is the single random source of a generation run. It is safe for
// concurrent use; a fixed seed makes every draw reproducible.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler. A seed of 0 seeds from the clock.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // sampling, not security
	}
}

// Intn returns a uniform integer in [0, n).
func (s *Sampler) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// IntRange returns a uniform integer in [lo, hi].
func (s *Sampler) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Choose draws k distinct ids uniformly without replacement, in draw order.
func (s *Sampler) Choose(ids []graph.NodeID, k int) []graph.NodeID {
	if k > len(ids) {
		k = len(ids)
	}
	s.mu.Lock()
	perm := s.rng.Perm(len(ids))
	s.mu.Unlock()

	out := make([]graph.NodeID, k)
	for i := range out {
		out[i] = ids[perm[i]]
	}
	return out
}

// WeightedChoice draws one id with probability proportional to its weight,
// by inverse transform over the cumulative distribution. Weights must be
// finite and non-negative; when they are all zero the draw is uniform.
func (s *Sampler) WeightedChoice(ids []graph.NodeID, weights []float64) (graph.NodeID, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("weighted choice: no candidates")
	}
	if len(ids) != len(weights) {
		return 0, fmt.Errorf("weighted choice: %d ids but %d weights", len(ids), len(weights))
	}

	total := 0.0
	last := -1
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("weighted choice: invalid weight %v for %d", w, ids[i])
		}
		if w > 0 {
			last = i
		}
		total += w
	}
	if total == 0 {
		return ids[s.Intn(len(ids))], nil
	}

	s.mu.Lock()
	r := s.rng.Float64() * total
	s.mu.Unlock()

	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return ids[i], nil
		}
	}
	// Rounding can leave r just above the final sum.
	return ids[last], nil
}
