package embeddings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Benny93/flavornet/internal/graph"
)

// FileName returns the embedding file name of a network, e.g. "ocn.emb".
func FileName(kind graph.NetworkKind) string {
	return string(kind) + ".emb"
}

// Read parses an embedding file. The first line is a header and is ignored;
// every other non-blank line is "nodeId v1 v2 ... vk".
func Read(r io.Reader) (*Space, error) {
	s := NewSpace(0)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: %w: no vector components", lineNo, ErrMalformedLine)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: node id %q", lineNo, ErrMalformedLine, fields[0])
		}
		vec := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			if vec[i], err = strconv.ParseFloat(f, 64); err != nil || math.IsNaN(vec[i]) || math.IsInf(vec[i], 0) {
				return nil, fmt.Errorf("line %d: %w: component %q", lineNo, ErrMalformedLine, f)
			}
		}
		if err := s.Set(graph.NodeID(id), vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading embeddings: %w", err)
	}
	return s, nil
}

// ReadFile parses the embedding file at path.
func ReadFile(path string) (*Space, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening embeddings: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// ReadDir loads "<kind>.emb" for every network found in dir. Missing files
// are skipped; it is an error when none exists.
func ReadDir(dir string) (map[graph.NetworkKind]*Space, error) {
	spaces := make(map[graph.NetworkKind]*Space)
	for _, kind := range graph.NetworkKinds {
		s, err := ReadFile(filepath.Join(dir, FileName(kind)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		spaces[kind] = s
	}
	if len(spaces) == 0 {
		return nil, fmt.Errorf("no embedding files in %s", dir)
	}
	return spaces, nil
}

// Write emits s in the format Read accepts, with a "count dim" header.
func Write(w io.Writer, s *Space) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", s.Len(), s.Dim())
	for _, id := range s.IDs() {
		bw.WriteString(strconv.Itoa(int(id)))
		for _, x := range s.vectors[id] {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
