// Package analysis inspects a workflow graph for structural oddities. The
// editor accepts any shape while sketching; the report is informational.
package analysis

import (
	"github.com/ritzau/workflow-canvas/pkg/model"
)

// DanglingEdge is an edge with at least one endpoint that is not in the graph.
type DanglingEdge struct {
	EdgeID  string   `json:"edgeId"`
	Missing []string `json:"missing"`
}

// Report summarises a workflow's structure.
type Report struct {
	Nodes          int            `json:"nodes"`
	Edges          int            `json:"edges"`
	DanglingEdges  []DanglingEdge `json:"danglingEdges"`
	SelfLoops      []string       `json:"selfLoops"`      // edge ids
	DuplicateEdges [][]string     `json:"duplicateEdges"` // groups of edge ids with the same endpoints
	Cycles         [][]string     `json:"cycles"`         // node ids per cycle
	Unconnected    []string       `json:"unconnected"`    // nodes without any edge
}

// Clean reports whether nothing unusual was found. Unconnected nodes do not count.
func (r Report) Clean() bool {
	return len(r.DanglingEdges) == 0 && len(r.SelfLoops) == 0 &&
		len(r.DuplicateEdges) == 0 && len(r.Cycles) == 0
}

// Inspect builds a report for the given nodes and edges. Results follow the
// order of the input slices.
func Inspect(nodes []model.Node, edges []model.Edge) Report {
	r := Report{
		Nodes:          len(nodes),
		Edges:          len(edges),
		DanglingEdges:  []DanglingEdge{},
		SelfLoops:      []string{},
		DuplicateEdges: [][]string{},
		Cycles:         [][]string{},
		Unconnected:    []string{},
	}

	exists := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		exists[n.ID] = true
	}

	type endpoints struct{ source, target string }
	groups := map[endpoints][]string{}
	var order []endpoints
	touched := map[string]bool{}

	for _, e := range edges {
		touched[e.Source] = true
		touched[e.Target] = true

		var missing []string
		if !exists[e.Source] {
			missing = append(missing, e.Source)
		}
		if !exists[e.Target] && e.Target != e.Source {
			missing = append(missing, e.Target)
		}
		if len(missing) > 0 {
			r.DanglingEdges = append(r.DanglingEdges, DanglingEdge{EdgeID: e.ID, Missing: missing})
		}

		if e.Source == e.Target {
			r.SelfLoops = append(r.SelfLoops, e.ID)
		}

		key := endpoints{e.Source, e.Target}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e.ID)
	}

	for _, key := range order {
		if ids := groups[key]; len(ids) > 1 {
			r.DuplicateEdges = append(r.DuplicateEdges, ids)
		}
	}

	for _, n := range nodes {
		if !touched[n.ID] {
			r.Unconnected = append(r.Unconnected, n.ID)
		}
	}

	fg := newFlowGraph(nodes, edges)
	for _, scc := range newTarjanSCC(fg.graph).find() {
		cycle := make([]string, 0, len(scc))
		for _, id := range scc {
			cycle = append(cycle, fg.name(id))
		}
		r.Cycles = append(r.Cycles, cycle)
	}

	return r
}
