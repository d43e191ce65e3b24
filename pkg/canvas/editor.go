// Package canvas is the interactive workflow editor: it turns gestures from the
// rendering surface into graph mutations and keeps selection, the node picker,
// and the note dialog consistent with the graph.
//
// An Editor is not safe for concurrent use. Callers deliver gestures one at a
// time and each handler runs to completion before the next one starts.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ritzau/workflow-canvas/pkg/annotation"
	"github.com/ritzau/workflow-canvas/pkg/factory"
	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/model"
	"github.com/ritzau/workflow-canvas/pkg/notify"
	"github.com/ritzau/workflow-canvas/pkg/picker"
	"github.com/ritzau/workflow-canvas/pkg/savegate"
	"github.com/ritzau/workflow-canvas/pkg/store"
	"github.com/ritzau/workflow-canvas/pkg/viewport"
)

// ErrNoSaver is returned by Save when no persistence collaborator is configured.
var ErrNoSaver = errors.New("no workflow store configured")

// Saver is the persistence collaborator reached through the save gate.
type Saver interface {
	Save(ctx context.Context, wf store.Workflow) error
}

// Mode is the pointer interaction state.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeDragging Mode = "dragging"
)

// DragPayload is the node kind carried by a palette drag.
type DragPayload struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// DropEvent is a pointer release over the canvas. Type and Label may be left
// empty, in which case the payload recorded by BeginDrag is used.
type DropEvent struct {
	Type   string      `json:"type,omitempty"`
	Label  string      `json:"label,omitempty"`
	Screen model.Point `json:"screen"`
}

// ConnectEvent is a completed connection drawn between two node anchors.
type ConnectEvent struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Editor owns the workflow graph and the transient UI state around it.
type Editor struct {
	graph      *model.Graph
	factory    *factory.Factory
	mapper     viewport.Mapper
	picker     picker.Picker
	annotation annotation.Dialog
	notifier   notify.Notifier
	saver      Saver
	now        func() time.Time

	selected string       // selected node id, "" for none
	settings string       // node whose settings panel is open
	drag     *DragPayload // pending palette drag
}

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier sets the notification collaborator.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithSaver sets the persistence collaborator.
func WithSaver(s Saver) Option {
	return func(e *Editor) { e.saver = s }
}

// WithFactory replaces the node factory.
func WithFactory(f *factory.Factory) Option {
	return func(e *Editor) { e.factory = f }
}

// WithClock replaces the clock used to stamp saved workflows.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// New creates an editor with an empty graph.
func New(opts ...Option) *Editor {
	e := &Editor{
		factory:  factory.New(),
		notifier: notify.LogNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.graph = model.NewGraph(e.factory)
	return e
}

// Graph exposes the underlying model for read access.
func (e *Editor) Graph() *model.Graph {
	return e.graph
}

// Mode returns the current pointer interaction state.
func (e *Editor) Mode() Mode {
	if e.drag != nil {
		return ModeDragging
	}
	return ModeIdle
}

// SelectedNode returns the selected node, if any.
func (e *Editor) SelectedNode() (model.Node, bool) {
	if e.selected == "" {
		return model.Node{}, false
	}
	return e.graph.Node(e.selected)
}

// SetViewport records the surface's current transform. Until the first usable
// transform arrives, position-dependent gestures are ignored.
func (e *Editor) SetViewport(t viewport.Transform) {
	e.mapper.Set(t)
	if !e.mapper.Ready() {
		logging.Debug("ignoring unusable viewport transform", "zoom", t.Zoom)
	}
}

// Ready reports whether the surface has reported a usable viewport.
func (e *Editor) Ready() bool {
	return e.mapper.Ready()
}

// BeginDrag starts dragging a node kind from the palette.
func (e *Editor) BeginDrag(payload DragPayload) {
	if payload.Type == "" {
		return
	}
	e.drag = &payload
}

// CancelDrag abandons a palette drag, e.g. when released outside the canvas.
func (e *Editor) CancelDrag() {
	e.drag = nil
}

// Drop completes a palette drag over the canvas and creates a node at the
// drop position. Drops without a node type, or before the viewport is ready,
// are ignored.
func (e *Editor) Drop(ev DropEvent) (model.Node, bool) {
	payload := DragPayload{Type: ev.Type, Label: ev.Label}
	if payload.Type == "" && e.drag != nil {
		payload = *e.drag
	}
	e.drag = nil

	if payload.Type == "" {
		logging.Debug("ignoring drop without node type")
		return model.Node{}, false
	}

	pos, ok := e.mapper.ScreenToCanvas(ev.Screen)
	if !ok {
		logging.Debug("ignoring drop before viewport is ready", "type", payload.Type)
		return model.Node{}, false
	}

	return e.addNode(payload.Type, payload.Label, pos)
}

// AddFromToolbar creates a node in the middle of the visible canvas.
func (e *Editor) AddFromToolbar(nodeType, label string) (model.Node, bool) {
	if nodeType == "" {
		return model.Node{}, false
	}
	pos, ok := e.mapper.Center()
	if !ok {
		logging.Debug("ignoring toolbar add before viewport is ready", "type", nodeType)
		return model.Node{}, false
	}
	return e.addNode(nodeType, label, pos)
}

func (e *Editor) addNode(nodeType, label string, pos model.Point) (model.Node, bool) {
	node := e.factory.Create(nodeType, label, pos)
	if err := e.graph.AddNode(node); err != nil {
		logging.Warn("failed to add node", "nodeID", node.ID, "error", err)
		return model.Node{}, false
	}
	logging.Debug("node added", "nodeID", node.ID, "x", pos.X, "y", pos.Y)
	return node, true
}

// PaneClick handles a click on empty canvas: it clears the selection and
// dismisses the picker.
func (e *Editor) PaneClick() {
	e.selected = ""
	e.picker.Dismiss()
}

// PaneContextMenu opens the node picker at the clicked position.
func (e *Editor) PaneContextMenu(screen model.Point) bool {
	pos, ok := e.mapper.ScreenToCanvas(screen)
	if !ok {
		logging.Debug("ignoring context menu before viewport is ready")
		return false
	}
	e.picker.Open(pos)
	return true
}

// NodeClick selects a node, replacing any previous selection.
func (e *Editor) NodeClick(id string) bool {
	if !e.graph.HasNode(id) {
		return false
	}
	e.selected = id
	e.picker.Dismiss()
	return true
}

// NodeDragStop records the canvas position a node was dragged to.
func (e *Editor) NodeDragStop(id string, pos model.Point) bool {
	return e.graph.MoveNode(id, pos)
}

// Connect adds an edge for a completed connection gesture. Both anchors must
// be present; duplicates and self-loops are accepted.
func (e *Editor) Connect(ev ConnectEvent) (model.Edge, bool) {
	if ev.Source == "" || ev.Target == "" {
		logging.Debug("ignoring incomplete connection", "source", ev.Source, "target", ev.Target)
		return model.Edge{}, false
	}
	edge := e.graph.ConnectHandles(ev.Source, ev.SourceHandle, ev.Target, ev.TargetHandle)
	logging.Debug("nodes connected", "edgeID", edge.ID, "source", ev.Source, "target", ev.Target)
	return edge, true
}

// RemoveEdge deletes an edge through the surface's own edge-removal UI.
func (e *Editor) RemoveEdge(id string) bool {
	return e.graph.RemoveEdge(id)
}

// ConfirmPicker creates the chosen node kind at the picker's anchor and closes it.
func (e *Editor) ConfirmPicker(nodeType, label string) (model.Node, bool) {
	if nodeType == "" || !e.mapper.Ready() {
		return model.Node{}, false
	}
	anchor, ok := e.picker.Confirm()
	if !ok {
		return model.Node{}, false
	}
	return e.addNode(nodeType, label, anchor)
}

// DismissPicker closes the picker without creating anything.
func (e *Editor) DismissPicker() {
	e.picker.Dismiss()
}

// PickerState returns the picker state.
func (e *Editor) PickerState() picker.State {
	return e.picker.State()
}

// DeleteNode removes a node and clears any selection or panel bound to it.
// Edges attached to the node are left in place.
func (e *Editor) DeleteNode(id string) bool {
	if !e.graph.RemoveNode(id) {
		return false
	}
	if e.selected == id {
		e.selected = ""
	}
	if e.settings == id {
		e.settings = ""
	}
	e.notifier.Notify(notify.Info(notify.MsgNodeDeleted))
	return true
}

// CloneNode copies a node next to the original.
func (e *Editor) CloneNode(id string) (model.Node, bool) {
	clone, ok := e.graph.CloneNode(id)
	if !ok {
		return model.Node{}, false
	}
	e.notifier.Notify(notify.Info(notify.MsgNodeCloned))
	return clone, true
}

// OpenSettings selects a node and opens its settings panel.
func (e *Editor) OpenSettings(id string) bool {
	if !e.graph.HasNode(id) {
		return false
	}
	e.selected = id
	e.settings = id
	return true
}

// CloseSettings closes the settings panel.
func (e *Editor) CloseSettings() {
	e.settings = ""
}

// OpenAnnotation opens the note dialog for a node, seeded with its current note.
func (e *Editor) OpenAnnotation(id string) bool {
	node, ok := e.graph.Node(id)
	if !ok {
		return false
	}
	e.annotation.Open(id, node.NoteText())
	return true
}

// SaveAnnotation stores the dialog text on its node. Blank text removes the note.
func (e *Editor) SaveAnnotation(text string) annotation.Outcome {
	outcome := e.annotation.Save(e.graph, text)
	switch outcome {
	case annotation.OutcomeSaved:
		e.notifier.Notify(notify.Info(notify.MsgNoteSaved))
	case annotation.OutcomeRemoved:
		e.notifier.Notify(notify.Info(notify.MsgNoteRemoved))
	}
	return outcome
}

// CancelAnnotation closes the note dialog without changes.
func (e *Editor) CancelAnnotation() {
	e.annotation.Cancel()
}

// AnnotationDetails returns the note text and node name for the open dialog.
func (e *Editor) AnnotationDetails() (note, name string) {
	return e.annotation.Details(e.graph)
}

// Save passes the workflow to the persistence collaborator if the name is not blank.
func (e *Editor) Save(ctx context.Context, name string) error {
	if ok, err := savegate.CanSave(name); !ok {
		e.notifier.Notify(notify.Error(notify.MsgNameRequired))
		return err
	}
	if e.saver == nil {
		return ErrNoSaver
	}

	wf := e.Workflow(strings.TrimSpace(name))
	if err := e.saver.Save(ctx, wf); err != nil {
		e.notifier.Notify(notify.Error(notify.MsgSaveFailed))
		return fmt.Errorf("saving workflow %q: %w", wf.Name, err)
	}

	logging.InfoContext(ctx, "workflow saved", "name", wf.Name, "nodes", len(wf.Nodes), "edges", len(wf.Edges))
	e.notifier.Notify(notify.Info(notify.MsgWorkflowSaved))
	return nil
}

// Workflow captures the current graph under the given name.
func (e *Editor) Workflow(name string) store.Workflow {
	return store.Workflow{
		Name:    name,
		Nodes:   e.graph.Nodes(),
		Edges:   e.graph.Edges(),
		SavedAt: e.now(),
	}
}

// Load replaces the graph with a saved workflow and resets all transient state.
func (e *Editor) Load(wf store.Workflow) error {
	g := model.NewGraph(e.factory)
	g.ContinueVersion(e.graph.Version())
	for _, n := range wf.Nodes {
		if err := g.AddNode(n); err != nil {
			return fmt.Errorf("loading workflow %q: %w", wf.Name, err)
		}
	}
	for _, edge := range wf.Edges {
		if err := g.AddEdge(edge); err != nil {
			return fmt.Errorf("loading workflow %q: %w", wf.Name, err)
		}
	}

	e.graph = g
	e.selected = ""
	e.settings = ""
	e.drag = nil
	e.picker.Dismiss()
	e.annotation.Cancel()
	return nil
}
