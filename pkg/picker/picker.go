// Package picker holds the state of the node-type context menu.
package picker

import "github.com/ritzau/workflow-canvas/pkg/model"

// State is either closed or open at an anchor position in canvas space.
type State struct {
	IsOpen bool        `json:"isOpen"`
	Anchor model.Point `json:"anchorPosition"`
}

// Picker is the node-type context menu. Only one can be open at a time.
type Picker struct {
	state State
}

// Open shows the picker at a canvas position. If it is already open it moves.
func (p *Picker) Open(anchor model.Point) {
	p.state = State{IsOpen: true, Anchor: anchor}
}

// Confirm closes the picker and returns the anchor the new node belongs at.
// It returns false when the picker was not open.
func (p *Picker) Confirm() (model.Point, bool) {
	if !p.state.IsOpen {
		return model.Point{}, false
	}
	anchor := p.state.Anchor
	p.state = State{}
	return anchor, true
}

// Dismiss closes the picker without side effects.
func (p *Picker) Dismiss() {
	p.state = State{}
}

// State returns the current state.
func (p *Picker) State() State {
	return p.state
}
