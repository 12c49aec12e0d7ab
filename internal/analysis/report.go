// Package analysis summarizes the structure of the derived ingredient
// networks: degrees, clustering, centrality, communities and the strongest
// pairings.
package analysis

import (
	"github.com/Benny93/flavornet/internal/graph"
)

// Options tunes Analyze.
type Options struct {
	// Top is how many ranked nodes and edges to keep.
	Top int

	// Within restricts the top edges to these ingredients; nil means all.
	Within []graph.NodeID

	// Seed fixes the community detection order.
	Seed int64
}

// Report is the structural summary of one network.
type Report struct {
	Network           graph.NetworkKind    `json:"network"`
	Nodes             int                  `json:"nodes"`
	Edges             int                  `json:"edges"`
	Degrees           []DegreeBucket       `json:"degrees"`
	AverageClustering float64              `json:"average_clustering"`
	PageRank          []Ranked             `json:"pagerank"`
	WeightedDegree    []Ranked             `json:"weighted_degree"`
	TopEdges          []graph.WeightedEdge `json:"top_edges"`
	Communities       []Community          `json:"communities"`
	Modularity        float64              `json:"modularity"`
}

// Analyze computes the full report of n.
func Analyze(n *graph.Network, opts Options) *Report {
	if opts.Top <= 0 {
		opts.Top = 10
	}

	weighted := make([]Ranked, 0, n.NodeCount())
	for _, id := range n.Nodes() {
		weighted = append(weighted, Ranked{ID: id, Score: WeightedDegree(n, id)})
	}
	sortRanked(weighted)

	communities := DetectCommunities(n, opts.Seed)
	return &Report{
		Network:           n.Kind(),
		Nodes:             n.NodeCount(),
		Edges:             n.EdgeCount(),
		Degrees:           DegreeHistogram(n),
		AverageClustering: AverageClustering(n),
		PageRank:          TopRanked(PageRank(n, DefaultDamping, DefaultTolerance), opts.Top),
		WeightedDegree:    TopRanked(weighted, opts.Top),
		TopEdges:          TopEdges(n, opts.Top, opts.Within),
		Communities:       communities,
		Modularity:        Modularity(n, communities),
	}
}
