// Package factory builds node records for every creation pathway:
// palette drop, toolbar click, picker confirm, and clone.
package factory

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

// CloneOffset is added to a node's position when it is cloned.
var CloneOffset = model.Point{X: 50, Y: 50}

// Factory generates nodes with session-unique ids of the form "type:token".
// Tokens are nanosecond timestamps, bumped when the clock does not advance, so
// they are unique within one factory but not across sessions.
type Factory struct {
	now  func() time.Time
	last int64
}

// Option configures a Factory.
type Option func(*Factory)

// WithClock replaces the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) {
		f.now = now
	}
}

// New creates a node factory
func New(opts ...Option) *Factory {
	f := &Factory{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a new node. An empty label is replaced by the capitalised type.
func (f *Factory) Create(nodeType, label string, pos model.Point) model.Node {
	if strings.TrimSpace(label) == "" {
		label = DefaultLabel(nodeType)
	}
	return model.Node{
		ID:       f.nextID(nodeType),
		Type:     nodeType,
		Position: pos,
		Label:    label,
	}
}

// CloneFrom copies a node, giving it a fresh id and shifting it by CloneOffset.
func (f *Factory) CloneFrom(node model.Node) model.Node {
	clone := node.Copy()
	clone.ID = f.nextID(node.Type)
	clone.Position = node.Position.Add(CloneOffset)
	return clone
}

func (f *Factory) nextID(nodeType string) string {
	token := f.now().UnixNano()
	if token <= f.last {
		token = f.last + 1
	}
	f.last = token
	return nodeType + ":" + strconv.FormatInt(token, 10)
}

// DefaultLabel upper-cases the first letter of a node type ("trigger" -> "Trigger").
func DefaultLabel(nodeType string) string {
	r, size := utf8.DecodeRuneInString(nodeType)
	if r == utf8.RuneError {
		return nodeType
	}
	return string(unicode.ToUpper(r)) + nodeType[size:]
}
