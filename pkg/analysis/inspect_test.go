package analysis

import (
	"reflect"
	"testing"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

func nodes(ids ...string) []model.Node {
	out := make([]model.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Node{ID: id, Type: "action"})
	}
	return out
}

func edge(id, source, target string) model.Edge {
	return model.Edge{ID: id, Source: source, Target: target}
}

func TestInspectCleanChain(t *testing.T) {
	r := Inspect(nodes("a", "b", "c"), []model.Edge{
		edge("e1", "a", "b"),
		edge("e2", "b", "c"),
	})

	if !r.Clean() {
		t.Errorf("expected clean report, got %+v", r)
	}
	if r.Nodes != 3 || r.Edges != 2 {
		t.Errorf("unexpected counts %d/%d", r.Nodes, r.Edges)
	}
	if len(r.Unconnected) != 0 {
		t.Errorf("unexpected unconnected nodes %v", r.Unconnected)
	}
}

func TestInspectCycle(t *testing.T) {
	r := Inspect(nodes("a", "b", "c", "d"), []model.Edge{
		edge("e1", "a", "b"),
		edge("e2", "b", "c"),
		edge("e3", "c", "a"),
		edge("e4", "c", "d"),
	})

	if len(r.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(r.Cycles))
	}
	if !reflect.DeepEqual(r.Cycles[0], []string{"a", "b", "c"}) {
		t.Errorf("unexpected cycle %v", r.Cycles[0])
	}
}

func TestInspectMultipleCycles(t *testing.T) {
	r := Inspect(nodes("a", "b", "c", "d"), []model.Edge{
		edge("e1", "c", "d"),
		edge("e2", "d", "c"),
		edge("e3", "a", "b"),
		edge("e4", "b", "a"),
	})

	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(r.Cycles, want) {
		t.Errorf("cycles = %v, want %v", r.Cycles, want)
	}
}

func TestInspectSelfLoopIsNotACycle(t *testing.T) {
	r := Inspect(nodes("a"), []model.Edge{edge("e1", "a", "a")})

	if !reflect.DeepEqual(r.SelfLoops, []string{"e1"}) {
		t.Errorf("self loops = %v", r.SelfLoops)
	}
	if len(r.Cycles) != 0 {
		t.Errorf("self loop reported as cycle: %v", r.Cycles)
	}
}

func TestInspectDuplicates(t *testing.T) {
	r := Inspect(nodes("a", "b"), []model.Edge{
		edge("e1", "a", "b"),
		edge("e2", "a", "b"),
		edge("e3", "b", "a"),
	})

	if !reflect.DeepEqual(r.DuplicateEdges, [][]string{{"e1", "e2"}}) {
		t.Errorf("duplicates = %v", r.DuplicateEdges)
	}
	// b -> a closes a cycle with the duplicated a -> b
	if len(r.Cycles) != 1 {
		t.Errorf("expected one cycle, got %v", r.Cycles)
	}
}

func TestInspectDanglingAfterDelete(t *testing.T) {
	r := Inspect(nodes("b", "c"), []model.Edge{
		edge("e1", "a", "b"),
		edge("e2", "ghost", "ghost"),
	})

	want := []DanglingEdge{
		{EdgeID: "e1", Missing: []string{"a"}},
		{EdgeID: "e2", Missing: []string{"ghost"}},
	}
	if !reflect.DeepEqual(r.DanglingEdges, want) {
		t.Errorf("dangling = %+v", r.DanglingEdges)
	}
	if !reflect.DeepEqual(r.Unconnected, []string{"c"}) {
		t.Errorf("unconnected = %v", r.Unconnected)
	}
	if r.Clean() {
		t.Error("report with dangling edges should not be clean")
	}
}

func TestInspectEmpty(t *testing.T) {
	r := Inspect(nil, nil)
	if !r.Clean() || r.Nodes != 0 || r.Cycles == nil {
		t.Errorf("unexpected report for empty graph %+v", r)
	}
}
