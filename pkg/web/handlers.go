package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ritzau/workflow-canvas/pkg/analysis"
	"github.com/ritzau/workflow-canvas/pkg/annotation"
	"github.com/ritzau/workflow-canvas/pkg/canvas"
	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/model"
	"github.com/ritzau/workflow-canvas/pkg/notify"
	"github.com/ritzau/workflow-canvas/pkg/savegate"
	"github.com/ritzau/workflow-canvas/pkg/store"
	"github.com/ritzau/workflow-canvas/pkg/viewport"
)

const maxBodyBytes = 1 << 20

// gestureResult is the response to every gesture and command. Applied is
// false when the editor ignored the input.
type gestureResult struct {
	Applied bool        `json:"applied"`
	Node    *model.Node `json:"node,omitempty"`
	Edge    *model.Edge `json:"edge,omitempty"`
	Outcome string      `json:"outcome,omitempty"`
}

type nodeRequest struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type pointRequest struct {
	Screen model.Point `json:"screen"`
}

type nodeClickRequest struct {
	NodeID string `json:"nodeId"`
}

type nodeDragStopRequest struct {
	NodeID   string      `json:"nodeId"`
	Position model.Point `json:"position"`
}

type annotationRequest struct {
	Text string `json:"text"`
}

type saveRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
	return false
}

// apply runs fn against the editor and publishes the resulting snapshot.
func (s *Server) apply(w http.ResponseWriter, fn func(e *canvas.Editor) gestureResult) {
	s.mu.Lock()
	res := fn(s.editor)
	s.publishSnapshotLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

func nodeResult(n model.Node, ok bool) gestureResult {
	if !ok {
		return gestureResult{}
	}
	return gestureResult{Applied: true, Node: &n}
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.editor.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCanvasAnalysis(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	g := s.editor.Graph()
	report := analysis.Inspect(g.Nodes(), g.Edges())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.palette.Categories(),
		"entries":    s.palette.All(),
	})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var t viewport.Transform
	if !decode(w, r, &t) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.SetViewport(t)
		return gestureResult{Applied: e.Ready()}
	})
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var payload canvas.DragPayload
	if !decode(w, r, &payload) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.BeginDrag(payload)
		return gestureResult{Applied: e.Mode() == canvas.ModeDragging}
	})
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.CancelDrag()
		return gestureResult{Applied: true}
	})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var ev canvas.DropEvent
	if !decode(w, r, &ev) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return nodeResult(e.Drop(ev))
	})
}

func (s *Server) handlePaneClick(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.PaneClick()
		return gestureResult{Applied: true}
	})
}

func (s *Server) handleContextMenu(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return gestureResult{Applied: e.PaneContextMenu(req.Screen)}
	})
}

func (s *Server) handleNodeClick(w http.ResponseWriter, r *http.Request) {
	var req nodeClickRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return gestureResult{Applied: e.NodeClick(req.NodeID)}
	})
}

func (s *Server) handleNodeDragStop(w http.ResponseWriter, r *http.Request) {
	var req nodeDragStopRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return gestureResult{Applied: e.NodeDragStop(req.NodeID, req.Position)}
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var ev canvas.ConnectEvent
	if !decode(w, r, &ev) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		edge, ok := e.Connect(ev)
		if !ok {
			return gestureResult{}
		}
		return gestureResult{Applied: true, Edge: &edge}
	})
}

func (s *Server) handleToolbarAdd(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return nodeResult(e.AddFromToolbar(req.Type, req.Label))
	})
}

func (s *Server) handlePickerConfirm(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return nodeResult(e.ConfirmPicker(req.Type, req.Label))
	})
}

func (s *Server) handlePickerDismiss(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.DismissPicker()
		return gestureResult{Applied: true}
	})
}

func (s *Server) handleNodeCommand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := canvas.ParseCommandKind(vars["command"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown command: "+vars["command"])
		return
	}
	cmd := canvas.Command{Kind: kind, NodeID: vars["id"]}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return gestureResult{Applied: e.Dispatch(cmd)}
	})
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.apply(w, func(e *canvas.Editor) gestureResult {
		return gestureResult{Applied: e.RemoveEdge(id)}
	})
}

func (s *Server) handleSettingsClose(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.CloseSettings()
		return gestureResult{Applied: true}
	})
}

func (s *Server) handleAnnotationSave(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if !decode(w, r, &req) {
		return
	}
	s.apply(w, func(e *canvas.Editor) gestureResult {
		outcome := e.SaveAnnotation(req.Text)
		return gestureResult{Applied: outcome != annotation.OutcomeNone, Outcome: outcome.String()}
	})
}

func (s *Server) handleAnnotationCancel(w http.ResponseWriter, r *http.Request) {
	s.apply(w, func(e *canvas.Editor) gestureResult {
		e.CancelAnnotation()
		return gestureResult{Applied: true}
	})
}

func (s *Server) handleSaveWorkflow(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	err := s.editor.Save(r.Context(), req.Name)
	s.mu.Unlock()

	switch {
	case errors.Is(err, savegate.ErrNameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, canvas.ErrNoSaver):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		logging.ErrorContext(r.Context(), "workflow save failed", "error", err)
		writeError(w, http.StatusInternalServerError, notify.MsgSaveFailed)
		return
	}

	if err := s.PublishWorkflows(r.Context(), []string{store.Slug(req.Name)}); err != nil {
		logging.WarnContext(r.Context(), "failed to publish workflow list", "error", err)
	}
	writeJSON(w, http.StatusCreated, map[string]string{"slug": store.Slug(req.Name)})
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.Summary{})
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		logging.ErrorContext(r.Context(), "failed to list workflows", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list workflows")
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) loadWorkflow(w http.ResponseWriter, r *http.Request) (store.Workflow, bool) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, canvas.ErrNoSaver.Error())
		return store.Workflow{}, false
	}
	name := mux.Vars(r)["name"]
	wf, err := s.store.Load(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return store.Workflow{}, false
	}
	if err != nil {
		logging.ErrorContext(r.Context(), "failed to load workflow", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load workflow")
		return store.Workflow{}, false
	}
	return wf, true
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.loadWorkflow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workflow": wf,
		"analysis": analysis.Inspect(wf.Nodes, wf.Edges),
	})
}

func (s *Server) handleOpenWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.loadWorkflow(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	err := s.editor.Load(wf)
	if err == nil {
		s.publishSnapshotLocked()
	}
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	logging.InfoContext(r.Context(), "workflow opened", "name", wf.Name)
	writeJSON(w, http.StatusOK, gestureResult{Applied: true})
}
