// Package export serialises a view state for fixtures and external tools.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/layout"
	"github.com/satishbabariya/migraph/graph/query"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// Document is the exported form of a state.
type Document struct {
	Location    string        `json:"location" yaml:"location"`
	Fingerprint string        `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Filter      *Filter       `json:"filter,omitempty" yaml:"filter,omitempty"`
	Stats       query.Stats   `json:"stats" yaml:"stats"`
	Layout      layout.Config `json:"layout" yaml:"layout"`
	Heads       []string      `json:"heads" yaml:"heads"`
	Roots       []string      `json:"roots" yaml:"roots"`
	Nodes       []Node        `json:"nodes" yaml:"nodes"`
	Edges       []Edge        `json:"edges" yaml:"edges"`
}

// Filter records an active date filter.
type Filter struct {
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`
}

// Node is one migration with its position.
type Node struct {
	Revision   string   `json:"revision" yaml:"revision"`
	Down       []string `json:"down_revision" yaml:"down_revision"`
	Message    string   `json:"message" yaml:"message"`
	Filename   string   `json:"filename" yaml:"filename"`
	CreateDate string   `json:"create_date,omitempty" yaml:"create_date,omitempty"`
	Kind       string   `json:"kind" yaml:"kind"`
	X          float64  `json:"x" yaml:"x"`
	Y          float64  `json:"y" yaml:"y"`
	Level      int      `json:"level" yaml:"level"`
	Column     int      `json:"column" yaml:"column"`
}

// Edge points from a parent to a child.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Build converts a state. Nodes are ordered by level then column, edges by
// child then parent declaration order.
func Build(s *graph.State) Document {
	doc := Document{
		Location:    s.Location.Path,
		Fingerprint: s.Fingerprint,
		Stats:       s.Stats(),
		Layout:      s.Layout,
		Heads:       s.Heads(),
		Roots:       s.Roots(),
		Nodes:       []Node{},
		Edges:       []Edge{},
	}
	if s.Filtered() {
		doc.Filter = &Filter{From: s.FilterFrom, To: s.FilterTo}
	}

	for _, level := range layout.Levels(s.Positions) {
		for _, rev := range level {
			m, ok := s.Collection.Get(rev)
			if !ok {
				continue
			}
			pos := s.Positions[rev]
			doc.Nodes = append(doc.Nodes, Node{
				Revision:   m.Revision,
				Down:       m.Down.Revisions(),
				Message:    m.Message,
				Filename:   m.Filename,
				CreateDate: m.CreateDate,
				Kind:       string(s.Kind(rev)),
				X:          pos.X,
				Y:          pos.Y,
				Level:      pos.Level,
				Column:     pos.Column,
			})
		}
	}

	for _, rev := range s.Collection.Revisions() {
		for _, parent := range s.Adjacency.ParentsOf(rev) {
			doc.Edges = append(doc.Edges, Edge{From: parent, To: rev})
		}
	}
	return doc
}

// Write encodes the state to w.
func Write(w io.Writer, s *graph.State, f Format) error {
	doc := Build(s)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%q: %w", f, ErrUnknownFormat)
}

// Read decodes a document written by Write.
func Read(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", f, ErrUnknownFormat)
	}
	return &doc, nil
}
