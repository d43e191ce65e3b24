package factory

import (
	"strings"
	"testing"
	"time"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

func frozenClock() func() time.Time {
	t := time.Unix(1700000000, 0)
	return func() time.Time { return t }
}

func TestCreateDefaultLabel(t *testing.T) {
	f := New()

	n := f.Create("trigger", "", model.Point{X: 120, Y: 80})

	if n.Label != "Trigger" {
		t.Errorf("Expected label Trigger, got %q", n.Label)
	}
	if n.Type != "trigger" {
		t.Errorf("Expected type trigger, got %q", n.Type)
	}
	if !strings.HasPrefix(n.ID, "trigger:") {
		t.Errorf("Expected id prefix 'trigger:', got %q", n.ID)
	}
	if n.HasNote() {
		t.Error("New nodes should have no note")
	}
}

func TestCreateExplicitLabel(t *testing.T) {
	f := New()

	n := f.Create("action", "Send Email", model.Point{})
	if n.Label != "Send Email" {
		t.Errorf("Expected label 'Send Email', got %q", n.Label)
	}
}

func TestIDsUniqueWithFrozenClock(t *testing.T) {
	f := New(WithClock(frozenClock()))

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := f.Create("step", "", model.Point{}).ID
		if seen[id] {
			t.Fatalf("Duplicate id %s on iteration %d", id, i)
		}
		seen[id] = true
	}
}

func TestCloneFrom(t *testing.T) {
	f := New()
	text := "check inputs"
	src := model.Node{ID: "action:1", Type: "action", Label: "Send", Position: model.Point{X: 10, Y: 20}, Note: &text}

	clone := f.CloneFrom(src)

	if clone.ID == src.ID {
		t.Error("Clone must get a new id")
	}
	if clone.Position != (model.Point{X: 60, Y: 70}) {
		t.Errorf("Expected clone at (60,70), got %v", clone.Position)
	}
	if clone.Type != src.Type || clone.Label != src.Label || clone.NoteText() != src.NoteText() {
		t.Errorf("Clone should match source apart from id and position: %+v", clone)
	}
	if clone.Note == src.Note {
		t.Error("Clone must not share the note pointer with its source")
	}
}

func TestDefaultLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"trigger", "Trigger"},
		{"action", "Action"},
		{"Already", "Already"},
		{"", ""},
		{"élan", "Élan"},
	}

	for _, tt := range tests {
		if got := DefaultLabel(tt.in); got != tt.want {
			t.Errorf("DefaultLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
