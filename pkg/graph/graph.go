// Package graph holds the immutable weighted multigraph the search runs over.
//
// A Graph is built once through a Builder (or one of the loaders) and is then
// shared read-only by every goroutine of a search, so it carries no locks.
package graph

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// MaxNodes is the largest number of nodes a Graph may hold. Node ids are
// persisted as single bytes in the frontier spill file.
const MaxNodes = math.MaxUint8 + 1

var (
	ErrEmptyGraph    = errors.New("graph has no nodes")
	ErrTooManyNodes  = fmt.Errorf("graph exceeds %d nodes", MaxNodes)
	ErrNodeNotFound  = errors.New("node not found")
	ErrDisconnected  = errors.New("graph is not connected")
	ErrWeightOverrun = errors.New("worst case walk length overflows uint32")
)

// NodeID is the dense identifier of a node, assigned in first-seen order.
type NodeID uint8

// Edge is one adjacency entry. Every loaded connection produces one Edge on
// each of its two endpoints.
type Edge struct {
	Distance uint32
	Target   NodeID
}

type Node struct {
	ID    NodeID
	Name  string
	Edges []Edge
}

type Graph struct {
	nodes  []Node
	byName map[string]NodeID
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Name returns the display name of id.
func (g *Graph) Name(id NodeID) string {
	return g.nodes[id].Name
}

// Edges returns the adjacency list of id. Callers must not modify it.
func (g *Graph) Edges(id NodeID) []Edge {
	return g.nodes[id].Edges
}

func (g *Graph) NodeByName(name string) (*Node, error) {
	id, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return &g.nodes[id], nil
}

// Endpoints resolves the start and end nodes of a search by name.
func (g *Graph) Endpoints(start, end string) (NodeID, NodeID, error) {
	s, err := g.NodeByName(start)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}
	e, err := g.NodeByName(end)
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	return s.ID, e.ID, nil
}

// Validate reports graphs on which no covering walk can exist, or whose walks
// could not be represented.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return ErrEmptyGraph
	}

	ug := simple.NewUndirectedGraph()
	var heaviest uint64
	for _, n := range g.nodes {
		ug.AddNode(simple.Node(int64(n.ID)))
	}
	for _, n := range g.nodes {
		for _, e := range n.Edges {
			if uint64(e.Distance) > heaviest {
				heaviest = uint64(e.Distance)
			}
			if e.Target == n.ID {
				continue
			}
			ug.SetEdge(ug.NewEdge(simple.Node(int64(n.ID)), simple.Node(int64(e.Target))))
		}
	}

	if components := topo.ConnectedComponents(ug); len(components) > 1 {
		return fmt.Errorf("%w: %d components", ErrDisconnected, len(components))
	}

	// Repetition rules cap a walk at len(nodes)+1 states.
	if heaviest*uint64(len(g.nodes)) > math.MaxUint32 {
		return ErrWeightOverrun
	}

	return nil
}

// Builder assembles a Graph from named connections.
type Builder struct {
	nodes  []Node
	byName map[string]NodeID
}

func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]NodeID)}
}

func (b *Builder) node(name string) (NodeID, error) {
	if id, ok := b.byName[name]; ok {
		return id, nil
	}
	if len(b.nodes) == MaxNodes {
		return 0, ErrTooManyNodes
	}
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, Node{ID: id, Name: name})
	b.byName[name] = id
	return id, nil
}

// AddEdge inserts an undirected connection between from and to, creating
// either node on first sight.
func (b *Builder) AddEdge(from, to string, distance uint32) error {
	src, err := b.node(from)
	if err != nil {
		return err
	}
	dst, err := b.node(to)
	if err != nil {
		return err
	}

	b.nodes[dst].Edges = append(b.nodes[dst].Edges, Edge{Distance: distance, Target: src})
	b.nodes[src].Edges = append(b.nodes[src].Edges, Edge{Distance: distance, Target: dst})
	return nil
}

// Build freezes the builder contents. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	g := &Graph{nodes: b.nodes, byName: b.byName}
	b.nodes = nil
	b.byName = nil
	return g
}
