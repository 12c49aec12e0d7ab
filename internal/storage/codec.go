package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Benny93/flavornet/internal/embeddings"
	"github.com/Benny93/flavornet/internal/graph"
)

// Binary node/edge-list layout: a four byte magic, then varint-encoded
// counts and ids. Vector components are little-endian float64 bits.
var (
	magicBipartite = [4]byte{'F', 'N', 'B', 'G'}
	magicNetwork   = [4]byte{'F', 'N', 'N', 'W'}
	magicSpace     = [4]byte{'F', 'N', 'E', 'M'}
)

// maxCountSlack is how far a decoded count may exceed the bytes left.
const maxCountSlack = 1 << 16

// ErrCorrupt is returned when stored bytes cannot be decoded.
var ErrCorrupt = errors.New("corrupt record")

type encoder struct {
	buf []byte
}

func newEncoder(magic [4]byte) *encoder {
	return &encoder{buf: append(make([]byte, 0, 256), magic[:]...)}
}

func (e *encoder) uint(v int) {
	e.buf = binary.AppendUvarint(e.buf, uint64(v))
}

func (e *encoder) id(v graph.NodeID) {
	e.buf = binary.AppendVarint(e.buf, int64(v))
}

func (e *encoder) str(s string) {
	e.uint(len(s))
	e.buf = append(e.buf, s...)
}

func (e *encoder) float(f float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(f))
}

type decoder struct {
	r   *bytes.Reader
	err error
}

func newDecoder(data []byte, magic [4]byte) (*decoder, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	return &decoder{r: bytes.NewReader(data[4:])}, nil
}

func (d *decoder) uint() int {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(d.r)
	if err != nil {
		d.err = err
		return 0
	}
	// Bounds allocations on corrupt input.
	if v > uint64(d.r.Len())+maxCountSlack {
		d.err = fmt.Errorf("count %d exceeds record size", v)
		return 0
	}
	return int(v)
}

func (d *decoder) id() graph.NodeID {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(d.r)
	if err != nil {
		d.err = err
	}
	return graph.NodeID(v)
}

func (d *decoder) str() string {
	n := d.uint()
	if d.err != nil {
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.err = err
	}
	return string(b)
}

func (d *decoder) float() float64 {
	if d.err != nil {
		return 0
	}
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		d.err = err
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:]))
}

func (d *decoder) done() error {
	if d.err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, d.err)
	}
	if d.r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, d.r.Len())
	}
	return nil
}

// EncodeBipartite serializes a bipartite graph as node and edge lists.
func EncodeBipartite(b *graph.Bipartite) []byte {
	e := newEncoder(magicBipartite)
	e.str(string(b.Companion()))
	ings := b.Ingredients()
	e.uint(len(ings))
	for _, id := range ings {
		e.id(id)
	}
	comps := b.Companions()
	e.uint(len(comps))
	for _, id := range comps {
		e.id(id)
	}
	edges := b.Edges()
	e.uint(len(edges))
	for _, edge := range edges {
		e.id(edge[0])
		e.id(edge[1])
	}
	return e.buf
}

// DecodeBipartite is the inverse of EncodeBipartite.
func DecodeBipartite(data []byte) (*graph.Bipartite, error) {
	d, err := newDecoder(data, magicBipartite)
	if err != nil {
		return nil, err
	}
	b := graph.NewBipartite(graph.NodeKind(d.str()))
	for n := d.uint(); n > 0 && d.err == nil; n-- {
		b.AddIngredient(d.id())
	}
	for n := d.uint(); n > 0 && d.err == nil; n-- {
		b.AddCompanion(d.id())
	}
	for n := d.uint(); n > 0 && d.err == nil; n-- {
		ing, comp := d.id(), d.id()
		if d.err == nil {
			b.AddEdge(ing, comp)
		}
	}
	if err := d.done(); err != nil {
		return nil, err
	}
	return b, nil
}

// EncodeNetwork serializes the node list and unweighted edge list of a
// network. Weights are stored separately.
func EncodeNetwork(n *graph.Network) []byte {
	e := newEncoder(magicNetwork)
	e.str(string(n.Kind()))
	nodes := n.Nodes()
	e.uint(len(nodes))
	for _, id := range nodes {
		e.id(id)
	}
	edges := n.Edges()
	e.uint(len(edges))
	for _, edge := range edges {
		e.id(edge.A)
		e.id(edge.B)
	}
	return e.buf
}

// DecodeNetwork rebuilds a network from its encoded structure and a weight
// set keyed by canonical pair. Every edge must have a weight.
func DecodeNetwork(data []byte, weights map[graph.Pair]float64) (*graph.Network, error) {
	d, err := newDecoder(data, magicNetwork)
	if err != nil {
		return nil, err
	}
	kind := graph.NetworkKind(d.str())
	count := d.uint()
	nodes := make([]graph.NodeID, 0, count)
	for ; count > 0 && d.err == nil; count-- {
		nodes = append(nodes, d.id())
	}
	n := graph.NewNetwork(kind, nodes)
	for count = d.uint(); count > 0 && d.err == nil; count-- {
		a, b := d.id(), d.id()
		if d.err != nil {
			break
		}
		w, ok := weights[graph.MakePair(a, b)]
		if !ok {
			return nil, fmt.Errorf("%w: edge %d-%d has no weight", ErrCorrupt, a, b)
		}
		if err := n.AddEdge(a, b, w); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	if err := d.done(); err != nil {
		return nil, err
	}
	return n, nil
}

// EncodeSpace serializes an embedding space.
func EncodeSpace(s *embeddings.Space) []byte {
	e := newEncoder(magicSpace)
	e.uint(s.Dim())
	ids := s.IDs()
	e.uint(len(ids))
	for _, id := range ids {
		e.id(id)
		v, _ := s.Vector(id)
		for _, x := range v {
			e.float(x)
		}
	}
	return e.buf
}

// DecodeSpace is the inverse of EncodeSpace.
func DecodeSpace(data []byte) (*embeddings.Space, error) {
	d, err := newDecoder(data, magicSpace)
	if err != nil {
		return nil, err
	}
	dim := d.uint()
	s := embeddings.NewSpace(dim)
	for n := d.uint(); n > 0 && d.err == nil; n-- {
		id := d.id()
		vec := make([]float64, dim)
		for i := range vec {
			vec[i] = d.float()
		}
		if d.err != nil {
			break
		}
		if err := s.Set(id, vec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	if err := d.done(); err != nil {
		return nil, err
	}
	return s, nil
}
