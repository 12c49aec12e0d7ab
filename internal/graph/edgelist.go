package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteEdgeList writes one "src dst weight" line per edge of n.
func WriteEdgeList(w io.Writer, n *Network) error {
	bw := bufio.NewWriter(w)
	for _, e := range n.Edges() {
		if _, err := fmt.Fprintf(bw, "%d %d %s\n", e.A, e.B, strconv.FormatFloat(e.Weight, 'g', -1, 64)); err != nil {
			return fmt.Errorf("writing edge %d-%d: %w", e.A, e.B, err)
		}
	}
	return bw.Flush()
}

// ReadEdgeList parses an edge list written by WriteEdgeList. Blank lines and
// lines starting with '#' are skipped; a missing weight defaults to 1.
func ReadEdgeList(r io.Reader) ([]WeightedEdge, error) {
	var edges []WeightedEdge
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 && len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 2 or 3 fields, got %d", lineNo, len(fields))
		}
		a, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing source id: %w", lineNo, err)
		}
		b, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing target id: %w", lineNo, err)
		}
		weight := 1.0
		if len(fields) == 3 {
			if weight, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: parsing weight: %w", lineNo, err)
			}
		}
		edges = append(edges, WeightedEdge{Pair: MakePair(NodeID(a), NodeID(b)), Weight: weight})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading edge list: %w", err)
	}
	return edges, nil
}

// NetworkFromEdges assembles a network from nodes and an edge list.
func NetworkFromEdges(kind NetworkKind, nodes []NodeID, edges []WeightedEdge) (*Network, error) {
	n := NewNetwork(kind, nodes)
	for _, e := range edges {
		if err := n.AddEdge(e.A, e.B, e.Weight); err != nil {
			return nil, err
		}
	}
	return n, nil
}
