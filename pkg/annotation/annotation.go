// Package annotation implements the note dialog bound to a single node.
package annotation

import (
	"strings"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

// Outcome is the result of saving the dialog.
type Outcome int

const (
	OutcomeNone    Outcome = iota // dialog closed or target gone
	OutcomeSaved                  // note stored
	OutcomeRemoved                // note cleared
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeRemoved:
		return "removed"
	default:
		return "none"
	}
}

// State is the dialog state. TargetNodeID is empty when closed.
type State struct {
	IsOpen       bool   `json:"isOpen"`
	TargetNodeID string `json:"targetNodeId,omitempty"`
	Draft        string `json:"draft"`
}

// NoteStore is the part of the graph the dialog reads and writes.
type NoteStore interface {
	Node(id string) (model.Node, bool)
	UpdateNodeNote(id string, note *string) bool
}

// Dialog is the annotation editor. Add-note and edit-note both open the same dialog.
type Dialog struct {
	state State
}

// Open binds the dialog to a node, seeding the draft with its current note.
func (d *Dialog) Open(nodeID, current string) {
	d.state = State{IsOpen: true, TargetNodeID: nodeID, Draft: current}
}

// Save applies the text to the target node and closes the dialog.
// Blank text removes the note; anything else is stored trimmed.
// Saving against a node that no longer exists just closes the dialog.
func (d *Dialog) Save(store NoteStore, text string) Outcome {
	if !d.state.IsOpen {
		return OutcomeNone
	}
	target := d.state.TargetNodeID
	d.state = State{}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if !store.UpdateNodeNote(target, nil) {
			return OutcomeNone
		}
		return OutcomeRemoved
	}
	if !store.UpdateNodeNote(target, &trimmed) {
		return OutcomeNone
	}
	return OutcomeSaved
}

// Cancel closes the dialog without touching the node.
func (d *Dialog) Cancel() {
	d.state = State{}
}

// State returns the current dialog state.
func (d *Dialog) State() State {
	return d.state
}

// Details returns the current note text and display name of the target node.
// Unknown or missing targets yield empty strings.
func (d *Dialog) Details(store NoteStore) (note, name string) {
	if !d.state.IsOpen {
		return "", ""
	}
	n, ok := store.Node(d.state.TargetNodeID)
	if !ok {
		return "", ""
	}
	return n.NoteText(), n.Label
}
