package canvas

import (
	"github.com/ritzau/workflow-canvas/pkg/annotation"
	"github.com/ritzau/workflow-canvas/pkg/model"
	"github.com/ritzau/workflow-canvas/pkg/picker"
)

// NodeView is a node as the rendering surface draws it.
type NodeView struct {
	model.Node
	Selected     bool          `json:"selected"`
	Capabilities []CommandKind `json:"capabilities"`
}

// AnnotationView is the note dialog with the details of its target.
type AnnotationView struct {
	annotation.State
	Note     string `json:"note"`
	NodeName string `json:"nodeName"`
}

// Snapshot is the full state the surface needs to render the editor.
type Snapshot struct {
	Version        uint64         `json:"version"`
	Mode           Mode           `json:"mode"`
	Nodes          []NodeView     `json:"nodes"`
	Edges          []model.Edge   `json:"edges"`
	SelectedNodeID string         `json:"selectedNodeId,omitempty"`
	SettingsNodeID string         `json:"settingsNodeId,omitempty"`
	Picker         picker.State   `json:"picker"`
	Annotation     AnnotationView `json:"annotation"`
	ViewportReady  bool           `json:"viewportReady"`
}

// Capabilities lists the commands a node offers. Nodes with a note offer
// edit-note, others add-note.
func Capabilities(n model.Node) []CommandKind {
	caps := []CommandKind{CommandDelete, CommandClone, CommandOpenSettings}
	if n.HasNote() {
		return append(caps, CommandEditNote)
	}
	return append(caps, CommandAddNote)
}

// Snapshot captures the current editor state.
func (e *Editor) Snapshot() Snapshot {
	nodes := e.graph.Nodes()
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, NodeView{
			Node:         n,
			Selected:     n.ID == e.selected,
			Capabilities: Capabilities(n),
		})
	}

	note, name := e.annotation.Details(e.graph)
	return Snapshot{
		Version:        e.graph.Version(),
		Mode:           e.Mode(),
		Nodes:          views,
		Edges:          e.graph.Edges(),
		SelectedNodeID: e.selected,
		SettingsNodeID: e.settings,
		Picker:         e.picker.State(),
		Annotation: AnnotationView{
			State:    e.annotation.State(),
			Note:     note,
			NodeName: name,
		},
		ViewportReady: e.mapper.Ready(),
	}
}
