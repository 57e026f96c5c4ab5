package graph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// Format names an on-disk edge list encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown graph format")

// String converts Format f to string
func (f Format) String() string {
	return string(f)
}

// IsValid checks if Format f is valid
func (f Format) IsValid() bool {
	switch f {
	case FormatAuto, FormatCSV, FormatYAML:
		return true
	}
	return false
}

// yamlEdgeList is the YAML representation of a graph:
//
//	edges:
//	  - from: WA
//	    to: OR
//	    distance: 174
type yamlEdgeList struct {
	Edges []yamlEdge `json:"edges"`
}

type yamlEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Distance uint32 `json:"distance"`
}

// Load reads the graph stored at path. FormatAuto picks the decoder from the
// file extension and falls back to CSV.
func Load(path string, format Format) (*Graph, error) {
	if format == FormatAuto || format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			format = FormatCSV
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return ReadCSV(f)
	case FormatYAML:
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ReadCSV decodes an edge list with a header row followed by
// `source,distance,target` records. A distance that does not parse as an
// unsigned integer counts as zero.
func ReadCSV(r io.Reader) (*Graph, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true

	if _, err := rdr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyGraph
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	b := NewBuilder()
	for {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		if len(record) < 3 {
			line, _ := rdr.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: expected source, distance and target", line)
		}

		distance, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 32)
		if err != nil {
			distance = 0
		}

		if err := b.AddEdge(record[0], record[2], uint32(distance)); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

// ReadYAML decodes the `edges` list documented on yamlEdgeList.
func ReadYAML(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var list yamlEdgeList
	if err := yaml.UnmarshalStrict(data, &list); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	b := NewBuilder()
	for i, e := range list.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("yaml edge %d: 'from' and 'to' are required", i)
		}
		if err := b.AddEdge(e.From, e.To, e.Distance); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}
