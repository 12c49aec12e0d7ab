package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Benny93/flavornet/internal/graph"
)

// DegreeBucket is one bar of a degree histogram.
type DegreeBucket struct {
	Degree int `json:"degree"`
	Count  int `json:"count"`
}

// DegreeHistogram counts nodes per degree, ascending by degree.
func DegreeHistogram(n *graph.Network) []DegreeBucket {
	counts := make(map[int]int)
	for _, id := range n.Nodes() {
		counts[n.Degree(id)]++
	}
	out := make([]DegreeBucket, 0, len(counts))
	for d, c := range counts {
		out = append(out, DegreeBucket{Degree: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Degree < out[j].Degree })
	return out
}

// WeightedDegree sums the weights of the edges touching id.
func WeightedDegree(n *graph.Network, id graph.NodeID) float64 {
	var sum float64
	for _, e := range n.IncidentEdges(id) {
		sum += e.Weight
	}
	return sum
}

// ClusteringCoefficient is the fraction of neighbor pairs of id that are
// themselves joined. Nodes with fewer than two neighbors score 0.
func ClusteringCoefficient(n *graph.Network, id graph.NodeID) float64 {
	nbrs := n.Neighbors(id)
	k := len(nbrs)
	if k < 2 {
		return 0
	}
	links := 0
	for i := 0; i < k-1; i++ {
		for j := i + 1; j < k; j++ {
			if n.HasEdge(nbrs[i], nbrs[j]) {
				links++
			}
		}
	}
	return float64(links) / float64(k*(k-1)/2)
}

// AverageClustering is the mean clustering coefficient over every node.
func AverageClustering(n *graph.Network) float64 {
	ids := n.Nodes()
	if len(ids) == 0 {
		return 0
	}
	coeffs := make([]float64, len(ids))
	for i, id := range ids {
		coeffs[i] = ClusteringCoefficient(n, id)
	}
	return stat.Mean(coeffs, nil)
}
