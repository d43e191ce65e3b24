package model

import "math"

// Point is a coordinate pair. Whether it is in screen or canvas space depends on context.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Add returns p offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p minus d.
func (p Point) Sub(d Point) Point {
	return Point{X: p.X - d.X, Y: p.Y - d.Y}
}

// IsFinite returns true if neither coordinate is NaN or infinite
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Node represents a single workflow step placed on the canvas.
// Behaviour (delete, clone, settings, notes) is not stored here; the surface
// dispatches commands by id instead.
type Node struct {
	ID       string  `json:"id" msgpack:"id"`
	Type     string  `json:"type" msgpack:"type"`         // workflow-step kind, e.g. "trigger", "action"
	Position Point   `json:"position" msgpack:"position"` // canvas space
	Label    string  `json:"label" msgpack:"label"`
	Note     *string `json:"note,omitempty" msgpack:"note,omitempty"` // nil when the node has no note
}

// HasNote returns true if the node carries an annotation
func (n Node) HasNote() bool {
	return n.Note != nil
}

// NoteText returns the annotation text, or "" when there is none.
func (n Node) NoteText() string {
	if n.Note == nil {
		return ""
	}
	return *n.Note
}

// Copy returns a copy of n that shares no memory with it.
func (n Node) Copy() Node {
	if n.Note != nil {
		note := *n.Note
		n.Note = &note
	}
	return n
}

// Edge represents a directed connection between two nodes.
type Edge struct {
	ID           string `json:"id" msgpack:"id"`
	Source       string `json:"source" msgpack:"source"`
	Target       string `json:"target" msgpack:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" msgpack:"source_handle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" msgpack:"target_handle,omitempty"`

	// Rendering hints only
	Animated bool   `json:"animated" msgpack:"animated"`
	Style    string `json:"style,omitempty" msgpack:"style,omitempty"`
}
