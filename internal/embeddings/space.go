// Package embeddings holds the externally trained ingredient vector spaces,
// one per derived network, and reads them from the node2vec text format.
package embeddings

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Benny93/flavornet/internal/graph"
)

var (
	// ErrNotEmbedded is returned when a node has no vector in a space.
	ErrNotEmbedded = errors.New("node not embedded")

	// ErrDimensionMismatch is returned when a vector length differs from the space's.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrMalformedLine is returned for an unparsable embedding file line.
	ErrMalformedLine = errors.New("malformed embedding line")
)

// Space maps ingredient ids to fixed-length vectors.
//
// A Space is filled once while loading and then only read.
type Space struct {
	dim     int
	vectors map[graph.NodeID][]float64
}

// NewSpace creates an empty space. A dim of 0 adopts the length of the
// first vector added.
func NewSpace(dim int) *Space {
	return &Space{dim: dim, vectors: make(map[graph.NodeID][]float64)}
}

// Set stores a copy of vec as the embedding of id.
func (s *Space) Set(id graph.NodeID, vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding %d: %w: empty vector", id, ErrDimensionMismatch)
	}
	if s.dim == 0 {
		s.dim = len(vec)
	}
	if len(vec) != s.dim {
		return fmt.Errorf("embedding %d: %w: got %d, want %d", id, ErrDimensionMismatch, len(vec), s.dim)
	}
	s.vectors[id] = append([]float64(nil), vec...)
	return nil
}

// Dim returns the vector length.
func (s *Space) Dim() int {
	return s.dim
}

// Len returns the number of embedded ids.
func (s *Space) Len() int {
	return len(s.vectors)
}

// Has reports whether id is embedded.
func (s *Space) Has(id graph.NodeID) bool {
	_, ok := s.vectors[id]
	return ok
}

// IDs returns the embedded ids in ascending order.
func (s *Space) IDs() []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(s.vectors))
	for id := range s.vectors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Vector returns the embedding of id. The slice must not be modified.
func (s *Space) Vector(id graph.NodeID) ([]float64, error) {
	v, ok := s.vectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotEmbedded, id)
	}
	return v, nil
}

// Restrict returns a space holding only the given ids that are embedded here.
// Vectors are shared with the receiver.
func (s *Space) Restrict(ids []graph.NodeID) *Space {
	out := &Space{dim: s.dim, vectors: make(map[graph.NodeID][]float64, len(ids))}
	for _, id := range ids {
		if v, ok := s.vectors[id]; ok {
			out.vectors[id] = v
		}
	}
	return out
}

// AverageDistance returns the mean Euclidean distance from vec to the
// embedded members of ids, or +Inf when none of them is embedded.
func (s *Space) AverageDistance(vec []float64, ids []graph.NodeID) float64 {
	total, n := 0.0, 0
	for _, id := range ids {
		v, ok := s.vectors[id]
		if !ok {
			continue
		}
		total += Distance(vec, v)
		n++
	}
	if n == 0 {
		return math.Inf(1)
	}
	return total / float64(n)
}

// Distance is the Euclidean distance between two vectors of equal length.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}
