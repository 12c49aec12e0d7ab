package analysis

import (
	"math/rand"
	"sort"

	"github.com/Benny93/flavornet/internal/graph"
)

// maxCommunityPasses bounds the local moving phase.
const maxCommunityPasses = 100

// Community is a group of densely connected ingredients.
type Community struct {
	ID      int            `json:"id"`
	Members []graph.NodeID `json:"members"`
}

// DetectCommunities partitions a network with a Louvain-style local moving
// heuristic over its positive edge weights. Edges with weight <= 0 carry no
// affinity and are ignored. Communities are returned largest first; the seed
// fixes the visiting order so results are reproducible.
func DetectCommunities(n *graph.Network, seed int64) []Community {
	ids := n.Nodes()
	if len(ids) == 0 {
		return nil
	}

	adj, degrees, total := buildAdjacency(n, ids)
	assignment := assignCommunities(adj, degrees, total, rand.New(rand.NewSource(seed))) //nolint:gosec // reproducible ordering, not security

	byComm := make(map[int][]graph.NodeID)
	for idx, comm := range assignment {
		byComm[comm] = append(byComm[comm], ids[idx])
	}
	out := make([]Community, 0, len(byComm))
	for _, members := range byComm {
		out = append(out, Community{Members: members})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Members) != len(out[j].Members) {
			return len(out[i].Members) > len(out[j].Members)
		}
		return out[i].Members[0] < out[j].Members[0]
	})
	for i := range out {
		out[i].ID = i
	}
	return out
}

// Modularity scores a partition of n over its positive edge weights.
func Modularity(n *graph.Network, communities []Community) float64 {
	ids := n.Nodes()
	adj, degrees, total := buildAdjacency(n, ids)
	if total == 0 {
		return 0
	}

	index := make(map[graph.NodeID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	assignment := make([]int, len(ids))
	for _, c := range communities {
		for _, id := range c.Members {
			assignment[index[id]] = c.ID
		}
	}

	// total counts each edge twice, so it is 2m.
	var q float64
	sumTot := make(map[int]float64)
	for i, nbrs := range adj {
		sumTot[assignment[i]] += degrees[i]
		for j, w := range nbrs {
			if assignment[i] == assignment[j] {
				q += w
			}
		}
	}
	q /= total
	for _, tot := range sumTot {
		q -= (tot / total) * (tot / total)
	}
	return q
}

// buildAdjacency indexes the positive-weight edges of n by node position.
// total is the sum of all degrees.
func buildAdjacency(n *graph.Network, ids []graph.NodeID) ([]map[int]float64, []float64, float64) {
	index := make(map[graph.NodeID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	adj := make([]map[int]float64, len(ids))
	for i := range adj {
		adj[i] = make(map[int]float64)
	}
	degrees := make([]float64, len(ids))
	var total float64
	for _, e := range n.Edges() {
		if e.Weight <= 0 {
			continue
		}
		a, b := index[e.A], index[e.B]
		adj[a][b] += e.Weight
		adj[b][a] += e.Weight
		degrees[a] += e.Weight
		degrees[b] += e.Weight
		total += 2 * e.Weight
	}
	return adj, degrees, total
}

// assignCommunities moves nodes between neighboring communities while the
// modularity improves. Returns a community number per node, consecutive from
// zero.
func assignCommunities(adj []map[int]float64, degrees []float64, total float64, rng *rand.Rand) []int {
	n := len(adj)
	communities := make([]int, n)
	commTot := make([]float64, n)
	for i := range communities {
		communities[i] = i
		commTot[i] = degrees[i]
	}
	if total == 0 {
		return communities
	}

	improved := true
	for pass := 0; improved && pass < maxCommunityPasses; pass++ {
		improved = false

		for _, node := range rng.Perm(n) {
			current := communities[node]

			// Weight from node into each neighboring community.
			links := make(map[int]float64)
			for j, w := range adj[node] {
				if j != node {
					links[communities[j]] += w
				}
			}

			commTot[current] -= degrees[node]
			best, bestGain := current, modularityGain(links[current], commTot[current], degrees[node], total)
			for _, comm := range sortedCommunities(links) {
				gain := modularityGain(links[comm], commTot[comm], degrees[node], total)
				if gain > bestGain {
					best, bestGain = comm, gain
				}
			}
			commTot[best] += degrees[node]

			if best != current {
				communities[node] = best
				improved = true
			}
		}
	}

	renumber := make(map[int]int)
	for i, c := range communities {
		if _, ok := renumber[c]; !ok {
			renumber[c] = len(renumber)
		}
		communities[i] = renumber[c]
	}
	return communities
}

// modularityGain is proportional to the modularity change of inserting a
// node with degree ki into a community it is linked to with weight kiIn and
// whose degree sum is sigmaTot. total is twice the edge weight sum.
func modularityGain(kiIn, sigmaTot, ki, total float64) float64 {
	return kiIn/total - sigmaTot*ki/(total*total)
}

func sortedCommunities(links map[int]float64) []int {
	out := make([]int, 0, len(links))
	for c := range links {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}
