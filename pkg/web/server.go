// Package web exposes the canvas editor to a browser-based rendering surface:
// JSON endpoints for gestures and commands, SSE streams for state changes.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/workflow-canvas/pkg/canvas"
	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/palette"
	"github.com/ritzau/workflow-canvas/pkg/pubsub"
	"github.com/ritzau/workflow-canvas/pkg/store"
)

//go:embed static/*
var staticFiles embed.FS

// Options are the collaborators a Server is built from.
type Options struct {
	Editor    *canvas.Editor
	Publisher *pubsub.SSEPublisher
	Store     store.Store
	Palette   *palette.Palette
}

// Server serves the editor over HTTP.
//
// Every request that touches the editor holds mu for its whole duration, so
// gestures are applied one at a time in arrival order.
type Server struct {
	router    *mux.Router
	mu        sync.Mutex
	editor    *canvas.Editor
	publisher *pubsub.SSEPublisher
	store     store.Store
	palette   *palette.Palette
}

// NewServer wires the routes. Publisher and Palette default to fresh instances.
func NewServer(opts Options) (*Server, error) {
	if opts.Editor == nil {
		return nil, errors.New("web: editor is required")
	}
	if opts.Publisher == nil {
		opts.Publisher = pubsub.NewSSEPublisher(pubsub.DefaultTopics())
	}
	if opts.Palette == nil {
		p, err := palette.Builtin()
		if err != nil {
			return nil, err
		}
		opts.Palette = p
	}

	s := &Server{
		router:    mux.NewRouter(),
		editor:    opts.Editor,
		publisher: opts.Publisher,
		store:     opts.Store,
		palette:   opts.Palette,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.publishSnapshotLocked()
	s.mu.Unlock()
	return s, nil
}

func (s *Server) setupRoutes() error {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/subscribe/{topic}", s.handleSubscribe).Methods("GET")

	api.HandleFunc("/canvas", s.handleCanvas).Methods("GET")
	api.HandleFunc("/canvas/analysis", s.handleCanvasAnalysis).Methods("GET")
	api.HandleFunc("/palette", s.handlePalette).Methods("GET")

	api.HandleFunc("/viewport", s.handleViewport).Methods("PUT")

	api.HandleFunc("/gestures/drag", s.handleDragStart).Methods("POST")
	api.HandleFunc("/gestures/drag", s.handleDragCancel).Methods("DELETE")
	api.HandleFunc("/gestures/drop", s.handleDrop).Methods("POST")
	api.HandleFunc("/gestures/pane-click", s.handlePaneClick).Methods("POST")
	api.HandleFunc("/gestures/context-menu", s.handleContextMenu).Methods("POST")
	api.HandleFunc("/gestures/node-click", s.handleNodeClick).Methods("POST")
	api.HandleFunc("/gestures/node-drag-stop", s.handleNodeDragStop).Methods("POST")
	api.HandleFunc("/gestures/connect", s.handleConnect).Methods("POST")

	api.HandleFunc("/toolbar/nodes", s.handleToolbarAdd).Methods("POST")
	api.HandleFunc("/picker/confirm", s.handlePickerConfirm).Methods("POST")
	api.HandleFunc("/picker/dismiss", s.handlePickerDismiss).Methods("POST")

	api.HandleFunc("/nodes/{id}/commands/{command}", s.handleNodeCommand).Methods("POST")
	api.HandleFunc("/edges/{id}", s.handleRemoveEdge).Methods("DELETE")
	api.HandleFunc("/settings/close", s.handleSettingsClose).Methods("POST")

	api.HandleFunc("/annotation/save", s.handleAnnotationSave).Methods("POST")
	api.HandleFunc("/annotation/cancel", s.handleAnnotationCancel).Methods("POST")

	api.HandleFunc("/workflows", s.handleListWorkflows).Methods("GET")
	api.HandleFunc("/workflows", s.handleSaveWorkflow).Methods("POST")
	api.HandleFunc("/workflows/{name}", s.handleGetWorkflow).Methods("GET")
	api.HandleFunc("/workflows/{name}/open", s.handleOpenWorkflow).Methods("POST")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("web: static files: %w", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
	return nil
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

// Publisher returns the event publisher used for SSE streams.
func (s *Server) Publisher() *pubsub.SSEPublisher {
	return s.publisher
}

// publishSnapshotLocked pushes the current editor state to canvas subscribers.
// Callers hold s.mu so snapshots are published in mutation order.
func (s *Server) publishSnapshotLocked() {
	if err := s.publisher.Publish(pubsub.TopicCanvas, "snapshot", s.editor.Snapshot()); err != nil {
		logging.Warn("failed to publish canvas snapshot", "error", err)
	}
}

// PublishWorkflows refreshes the workflow list for subscribers. changed names
// the workflows that triggered the refresh, if known.
func (s *Server) PublishWorkflows(ctx context.Context, changed []string) error {
	if s.store == nil {
		return nil
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing workflows: %w", err)
	}
	return s.publisher.Publish(pubsub.TopicWorkflows, "changed", pubsub.WorkflowsChanged{
		Count:  len(list),
		Events: changed,
	})
}

// Run serves on port until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Close streams first so Shutdown does not wait on them
	s.publisher.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	logging.Info("web server stopped")
	return nil
}
