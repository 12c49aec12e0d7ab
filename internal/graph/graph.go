package graph

import (
	"fmt"
	"sort"
)

// Graph is the minimal undirected weighted graph surface shared by the
// derived networks.
type Graph interface {
	Nodes() []NodeID
	Neighbors(id NodeID) []NodeID
	HasEdge(a, b NodeID) bool
	AddEdge(a, b NodeID, weight float64) error
}

// Network is a derived, weighted, undirected graph over ingredients.
//
// Adjacency (node -> neighbor set) and weights (canonical pair -> score) are
// kept in separate maps; AddEdge is the only way to create an edge, so every
// edge has exactly one weight. Networks are built once and then only read.
type Network struct {
	kind    NetworkKind
	adj     map[NodeID]nodeSet
	weights map[Pair]float64
}

var _ Graph = (*Network)(nil)

// NewNetwork creates a network with the given nodes and no edges.
func NewNetwork(kind NetworkKind, nodes []NodeID) *Network {
	n := &Network{
		kind:    kind,
		adj:     make(map[NodeID]nodeSet, len(nodes)),
		weights: make(map[Pair]float64),
	}
	for _, id := range nodes {
		n.AddNode(id)
	}
	return n
}

// Kind returns which derived network this is.
func (n *Network) Kind() NetworkKind {
	return n.kind
}

// AddNode adds an isolated node. Adding an existing node is a no-op.
func (n *Network) AddNode(id NodeID) {
	if _, ok := n.adj[id]; !ok {
		n.adj[id] = make(nodeSet)
	}
}

// HasNode reports whether id is a node of the network.
func (n *Network) HasNode(id NodeID) bool {
	_, ok := n.adj[id]
	return ok
}

// Nodes returns the sorted node ids.
func (n *Network) Nodes() []NodeID {
	return sortedKeys(n.adj)
}

// Neighbors returns the sorted neighbors of id.
func (n *Network) Neighbors(id NodeID) []NodeID {
	return sortedIDs(n.adj[id])
}

// Degree returns the number of neighbors of id.
func (n *Network) Degree(id NodeID) int {
	return len(n.adj[id])
}

// HasEdge reports whether a and b are joined.
func (n *Network) HasEdge(a, b NodeID) bool {
	_, ok := n.weights[MakePair(a, b)]
	return ok
}

// AddEdge joins two existing nodes with the given weight. Re-adding an edge
// overwrites its weight.
func (n *Network) AddEdge(a, b NodeID, weight float64) error {
	if a == b {
		return fmt.Errorf("adding edge %d-%d: %w", a, b, ErrSelfLoop)
	}
	if !n.HasNode(a) || !n.HasNode(b) {
		return fmt.Errorf("adding edge %d-%d: %w", a, b, ErrNodeNotFound)
	}
	n.adj[a][b] = struct{}{}
	n.adj[b][a] = struct{}{}
	n.weights[MakePair(a, b)] = weight
	return nil
}

// Weight returns the weight of the edge between a and b.
func (n *Network) Weight(a, b NodeID) (float64, bool) {
	w, ok := n.weights[MakePair(a, b)]
	return w, ok
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int {
	return len(n.adj)
}

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int {
	return len(n.weights)
}

// Edges returns every edge sorted by canonical pair.
func (n *Network) Edges() []WeightedEdge {
	edges := make([]WeightedEdge, 0, len(n.weights))
	for p, w := range n.weights {
		edges = append(edges, WeightedEdge{Pair: p, Weight: w})
	}
	sortEdges(edges)
	return edges
}

// IncidentEdges returns the edges touching id sorted by canonical pair.
func (n *Network) IncidentEdges(id NodeID) []WeightedEdge {
	nbrs := n.adj[id]
	edges := make([]WeightedEdge, 0, len(nbrs))
	for other := range nbrs {
		p := MakePair(id, other)
		edges = append(edges, WeightedEdge{Pair: p, Weight: n.weights[p]})
	}
	sortEdges(edges)
	return edges
}

// Weights returns a copy of the edge weight map.
func (n *Network) Weights() map[Pair]float64 {
	out := make(map[Pair]float64, len(n.weights))
	for p, w := range n.weights {
		out[p] = w
	}
	return out
}

func sortEdges(edges []WeightedEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
}
