package analysis

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

// flowGraph mirrors the workflow in a gonum graph. Only edges between
// existing, distinct nodes are added: gonum rejects self-loops and the
// dangling endpoints have no node to attach to.
type flowGraph struct {
	graph *simple.DirectedGraph
	ids   map[string]int64 // workflow node id -> gonum id
	names []string         // gonum id -> workflow node id
}

func newFlowGraph(nodes []model.Node, edges []model.Edge) *flowGraph {
	fg := &flowGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64, len(nodes)),
		names: make([]string, 0, len(nodes)),
	}
	for _, n := range nodes {
		fg.addNode(n.ID)
	}
	for _, e := range edges {
		fg.addEdge(e.Source, e.Target)
	}
	return fg
}

func (fg *flowGraph) addNode(id string) {
	if _, exists := fg.ids[id]; exists {
		return
	}
	gid := int64(len(fg.names))
	fg.ids[id] = gid
	fg.names = append(fg.names, id)
	fg.graph.AddNode(simple.Node(gid))
}

func (fg *flowGraph) addEdge(source, target string) bool {
	from, ok := fg.ids[source]
	if !ok {
		return false
	}
	to, ok := fg.ids[target]
	if !ok || from == to {
		return false
	}
	if !fg.graph.HasEdgeFromTo(from, to) {
		fg.graph.SetEdge(fg.graph.NewEdge(simple.Node(from), simple.Node(to)))
	}
	return true
}

func (fg *flowGraph) name(id int64) string {
	return fg.names[id]
}
