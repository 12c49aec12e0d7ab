package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/Benny93/flavornet/internal/graph"
)

// Default PageRank parameters.
const (
	DefaultDamping   = 0.85
	DefaultTolerance = 1e-6
)

// Ranked is a node with a score.
type Ranked struct {
	ID    graph.NodeID `json:"id"`
	Score float64      `json:"score"`
}

// PageRank ranks the nodes of an undirected network, treating each edge as a
// pair of opposite arcs. The result is sorted by descending rank, ties by id.
func PageRank(n *graph.Network, damping, tolerance float64) []Ranked {
	ids := n.Nodes()
	if len(ids) == 0 {
		return nil
	}

	g := simple.NewDirectedGraph()
	for _, id := range ids {
		g.AddNode(simple.Node(id))
	}
	for _, e := range n.Edges() {
		a, b := simple.Node(e.A), simple.Node(e.B)
		g.SetEdge(g.NewEdge(a, b))
		g.SetEdge(g.NewEdge(b, a))
	}

	ranks := network.PageRank(g, damping, tolerance)
	out := make([]Ranked, 0, len(ranks))
	for id, score := range ranks {
		out = append(out, Ranked{ID: graph.NodeID(id), Score: score})
	}
	sortRanked(out)
	return out
}

// TopRanked returns the first k entries of a ranking, or all of them when
// k <= 0.
func TopRanked(ranked []Ranked, k int) []Ranked {
	if k > 0 && len(ranked) > k {
		return ranked[:k]
	}
	return ranked
}

func sortRanked(r []Ranked) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].Score != r[j].Score {
			return r[i].Score > r[j].Score
		}
		return r[i].ID < r[j].ID
	})
}
