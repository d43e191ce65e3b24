package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrDuplicateNode   = errors.New("duplicate node id")
	ErrInvalidNode     = errors.New("node id and type are required")
	ErrInvalidPosition = errors.New("node position must be finite")
	ErrDuplicateEdge   = errors.New("duplicate edge id")
	ErrInvalidEdge     = errors.New("edge id is required")
)

// Cloner materialises a copy of an existing node. The node factory implements it.
type Cloner interface {
	CloneFrom(node Node) Node
}

// Graph is the authoritative set of workflow nodes and directed edges.
// It serves as the single source of truth rendered by the canvas surface.
//
// Nodes and edges are stored in id-indexed maps. Each entry also records the
// sequence number it was inserted with so that Nodes() and Edges() can return
// a stable order without filtering slices on every mutation.
type Graph struct {
	nodes   map[string]*nodeEntry
	edges   map[string]*edgeEntry
	seq     uint64
	version uint64
	cloner  Cloner
}

type nodeEntry struct {
	node Node
	seq  uint64
}

type edgeEntry struct {
	edge Edge
	seq  uint64
}

// NewGraph creates a new empty graph. The cloner is used by CloneNode and may be nil,
// in which case cloning is a no-op.
func NewGraph(cloner Cloner) *Graph {
	return &Graph{
		nodes:  make(map[string]*nodeEntry),
		edges:  make(map[string]*edgeEntry),
		cloner: cloner,
	}
}

// AddNode adds a node to the graph. Node ids must be unique within the graph.
func (g *Graph) AddNode(node Node) error {
	if node.ID == "" || node.Type == "" {
		return ErrInvalidNode
	}
	if !node.Position.IsFinite() {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, node.ID)
	}
	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}

	g.seq++
	g.nodes[node.ID] = &nodeEntry{node: node.Copy(), seq: g.seq}
	g.version++
	return nil
}

// RemoveNode deletes a node. Removing an absent id is a no-op.
// Edges that reference the node are left in place.
func (g *Graph) RemoveNode(id string) bool {
	if _, exists := g.nodes[id]; !exists {
		return false
	}
	delete(g.nodes, id)
	g.version++
	return true
}

// CloneNode adds a copy of the node with the given id and returns it.
// Nothing happens when the id is unknown.
func (g *Graph) CloneNode(id string) (Node, bool) {
	entry, exists := g.nodes[id]
	if !exists || g.cloner == nil {
		return Node{}, false
	}

	clone := g.cloner.CloneFrom(entry.node)
	if err := g.AddNode(clone); err != nil {
		return Node{}, false
	}
	return clone.Copy(), true
}

// UpdateNodeNote replaces the note of a node. A nil note removes it.
// Returns false when the node does not exist.
func (g *Graph) UpdateNodeNote(id string, note *string) bool {
	entry, exists := g.nodes[id]
	if !exists {
		return false
	}
	if note == nil {
		entry.node.Note = nil
	} else {
		text := *note
		entry.node.Note = &text
	}
	g.version++
	return true
}

// MoveNode updates the canvas position of a node.
func (g *Graph) MoveNode(id string, pos Point) bool {
	entry, exists := g.nodes[id]
	if !exists || !pos.IsFinite() {
		return false
	}
	entry.node.Position = pos
	g.version++
	return true
}

// Connect adds a directed edge from source to target. It never fails:
// parallel edges and self-loops are accepted, as are endpoints that do not exist.
func (g *Graph) Connect(source, target string) Edge {
	return g.ConnectHandles(source, "", target, "")
}

// ConnectHandles is Connect with the anchor handles the connection was drawn between.
func (g *Graph) ConnectHandles(source, sourceHandle, target, targetHandle string) Edge {
	edge := Edge{
		ID:           "edge:" + uuid.NewString(),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
		Animated:     true,
	}

	g.seq++
	g.edges[edge.ID] = &edgeEntry{edge: edge, seq: g.seq}
	g.version++
	return edge
}

// AddEdge inserts an edge with a known id, as when restoring a saved workflow.
func (g *Graph) AddEdge(edge Edge) error {
	if edge.ID == "" {
		return ErrInvalidEdge
	}
	if _, exists := g.edges[edge.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEdge, edge.ID)
	}

	g.seq++
	g.edges[edge.ID] = &edgeEntry{edge: edge, seq: g.seq}
	g.version++
	return nil
}

// RemoveEdge deletes an edge by id. Removing an absent id is a no-op.
func (g *Graph) RemoveEdge(id string) bool {
	if _, exists := g.edges[id]; !exists {
		return false
	}
	delete(g.edges, id)
	g.version++
	return true
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	entry, exists := g.nodes[id]
	if !exists {
		return Node{}, false
	}
	return entry.node.Copy(), true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, exists := g.nodes[id]
	return exists
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	entries := make([]*nodeEntry, 0, len(g.nodes))
	for _, entry := range g.nodes {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	nodes := make([]Node, 0, len(entries))
	for _, entry := range entries {
		nodes = append(nodes, entry.node.Copy())
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	entries := make([]*edgeEntry, 0, len(g.edges))
	for _, entry := range g.edges {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	edges := make([]Edge, 0, len(entries))
	for _, entry := range entries {
		edges = append(edges, entry.edge)
	}
	return edges
}

// Len returns the number of nodes and edges.
func (g *Graph) Len() (nodes, edges int) {
	return len(g.nodes), len(g.edges)
}

// Version is incremented on every mutation.
func (g *Graph) Version() uint64 {
	return g.version
}

// ContinueVersion moves the version past prev, so a graph that replaces
// another orders after every state of the one it replaced.
func (g *Graph) ContinueVersion(prev uint64) {
	if g.version <= prev {
		g.version = prev + 1
	}
}
