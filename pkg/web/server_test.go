package web

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/workflow-canvas/pkg/analysis"
	"github.com/ritzau/workflow-canvas/pkg/canvas"
	"github.com/ritzau/workflow-canvas/pkg/codec"
	"github.com/ritzau/workflow-canvas/pkg/notify"
	"github.com/ritzau/workflow-canvas/pkg/pubsub"
	"github.com/ritzau/workflow-canvas/pkg/store"
	"github.com/ritzau/workflow-canvas/pkg/viewport"
)

type fixture struct {
	server *Server
	http   *httptest.Server
	store  store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir(), codec.Default())
	require.NoError(t, err)

	pub := pubsub.NewSSEPublisher(pubsub.DefaultTopics())
	editor := canvas.New(
		canvas.WithNotifier(notify.NewPubSubNotifier(pub)),
		canvas.WithSaver(st),
	)

	srv, err := NewServer(Options{Editor: editor, Publisher: pub, Store: st})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		pub.Close()
		ts.Close()
	})
	return &fixture{server: srv, http: ts, store: st}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.http.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) result(t *testing.T, method, path string, body any) gestureResult {
	t.Helper()
	resp := f.do(t, method, path, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res gestureResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func (f *fixture) snapshot(t *testing.T) canvas.Snapshot {
	t.Helper()
	resp := f.do(t, http.MethodGet, "/api/canvas", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap canvas.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func (f *fixture) ready(t *testing.T) {
	t.Helper()
	res := f.result(t, http.MethodPut, "/api/viewport", viewport.Transform{Zoom: 1, Width: 800, Height: 600})
	require.True(t, res.Applied)
}

func TestDropBeforeViewportIsIgnored(t *testing.T) {
	f := newFixture(t)

	res := f.result(t, http.MethodPost, "/api/gestures/drop", map[string]any{
		"type": "trigger", "screen": map[string]float64{"x": 120, "y": 80},
	})
	assert.False(t, res.Applied)
	assert.Empty(t, f.snapshot(t).Nodes)
}

func TestDragAndDrop(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	res := f.result(t, http.MethodPost, "/api/gestures/drag", canvas.DragPayload{Type: "trigger"})
	require.True(t, res.Applied)
	assert.Equal(t, canvas.ModeDragging, f.snapshot(t).Mode)

	res = f.result(t, http.MethodPost, "/api/gestures/drop", map[string]any{
		"screen": map[string]float64{"x": 120, "y": 80},
	})
	require.True(t, res.Applied)
	require.NotNil(t, res.Node)
	assert.Equal(t, "Trigger", res.Node.Label)
	assert.Equal(t, 120.0, res.Node.Position.X)
	assert.Equal(t, 80.0, res.Node.Position.Y)

	snap := f.snapshot(t)
	assert.Equal(t, canvas.ModeIdle, snap.Mode)
	require.Len(t, snap.Nodes, 1)
	assert.Contains(t, snap.Nodes[0].Capabilities, canvas.CommandAddNote)
}

func TestDropCarriesTypeWithoutDrag(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	res := f.result(t, http.MethodPost, "/api/gestures/drop", map[string]any{
		"type": "webhook", "label": "Webhook", "screen": map[string]float64{"x": 40, "y": 60},
	})
	require.True(t, res.Applied)
	require.NotNil(t, res.Node)
	assert.Equal(t, "webhook", res.Node.Type)
	assert.Equal(t, 40.0, res.Node.Position.X)

	// A drag announced after the drop stays pending and does not add a node
	res = f.result(t, http.MethodPost, "/api/gestures/drag", canvas.DragPayload{Type: "webhook"})
	require.True(t, res.Applied)
	assert.Len(t, f.snapshot(t).Nodes, 1)
}

func TestPickerAndCommands(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	res := f.result(t, http.MethodPost, "/api/gestures/context-menu", map[string]any{
		"screen": map[string]float64{"x": 300, "y": 200},
	})
	require.True(t, res.Applied)
	assert.True(t, f.snapshot(t).Picker.IsOpen)

	res = f.result(t, http.MethodPost, "/api/picker/confirm", map[string]string{"type": "action", "label": "Send Email"})
	require.True(t, res.Applied)
	id := res.Node.ID

	res = f.result(t, http.MethodPost, "/api/nodes/"+id+"/commands/clone", nil)
	assert.True(t, res.Applied)
	assert.Len(t, f.snapshot(t).Nodes, 2)

	res = f.result(t, http.MethodPost, "/api/gestures/node-click", map[string]string{"nodeId": id})
	assert.True(t, res.Applied)
	assert.Equal(t, id, f.snapshot(t).SelectedNodeID)

	res = f.result(t, http.MethodPost, "/api/nodes/"+id+"/commands/delete", nil)
	assert.True(t, res.Applied)
	snap := f.snapshot(t)
	assert.Len(t, snap.Nodes, 1)
	assert.Empty(t, snap.SelectedNodeID)

	// Second delete of the same id is a silent no-op
	res = f.result(t, http.MethodPost, "/api/nodes/"+id+"/commands/delete", nil)
	assert.False(t, res.Applied)

	resp := f.do(t, http.MethodPost, "/api/nodes/"+id+"/commands/explode", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConnectAndAnalysis(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	a := f.result(t, http.MethodPost, "/api/toolbar/nodes", map[string]string{"type": "trigger"}).Node
	b := f.result(t, http.MethodPost, "/api/toolbar/nodes", map[string]string{"type": "action"}).Node

	for i := 0; i < 2; i++ {
		res := f.result(t, http.MethodPost, "/api/gestures/connect", canvas.ConnectEvent{Source: a.ID, Target: b.ID})
		require.True(t, res.Applied)
	}
	f.result(t, http.MethodPost, "/api/nodes/"+a.ID+"/commands/delete", nil)

	resp := f.do(t, http.MethodGet, "/api/canvas/analysis", nil)
	var report analysis.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 2, report.Edges)
	assert.Len(t, report.DanglingEdges, 2)
	assert.Len(t, report.DuplicateEdges, 1)

	edgeID := f.snapshot(t).Edges[0].ID
	assert.True(t, f.result(t, http.MethodDelete, "/api/edges/"+edgeID, nil).Applied)
	assert.False(t, f.result(t, http.MethodDelete, "/api/edges/"+edgeID, nil).Applied)
}

func TestAnnotationEndpoints(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	node := f.result(t, http.MethodPost, "/api/toolbar/nodes", map[string]string{"type": "action", "label": "Send Email"}).Node
	require.True(t, f.result(t, http.MethodPost, "/api/nodes/"+node.ID+"/commands/add-note", nil).Applied)

	snap := f.snapshot(t)
	assert.True(t, snap.Annotation.IsOpen)
	assert.Equal(t, "Send Email", snap.Annotation.NodeName)

	res := f.result(t, http.MethodPost, "/api/annotation/save", map[string]string{"text": "  hello  "})
	assert.Equal(t, "saved", res.Outcome)
	snap = f.snapshot(t)
	require.NotNil(t, snap.Nodes[0].Note)
	assert.Equal(t, "hello", *snap.Nodes[0].Note)

	f.result(t, http.MethodPost, "/api/nodes/"+node.ID+"/commands/edit-note", nil)
	res = f.result(t, http.MethodPost, "/api/annotation/save", map[string]string{"text": "   "})
	assert.Equal(t, "removed", res.Outcome)
	assert.Nil(t, f.snapshot(t).Nodes[0].Note)
}

func TestSaveAndOpenWorkflow(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	resp := f.do(t, http.MethodPost, "/api/workflows", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	f.result(t, http.MethodPost, "/api/toolbar/nodes", map[string]string{"type": "trigger"})
	resp = f.do(t, http.MethodPost, "/api/workflows", map[string]string{"name": "My Flow"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/workflows", nil)
	var list []store.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "my-flow", list[0].Slug)
	assert.Equal(t, 1, list[0].Nodes)

	// Clear the canvas, then reopen the saved workflow
	id := f.snapshot(t).Nodes[0].ID
	f.result(t, http.MethodPost, "/api/nodes/"+id+"/commands/delete", nil)
	require.Empty(t, f.snapshot(t).Nodes)

	res := f.result(t, http.MethodPost, "/api/workflows/my-flow/open", nil)
	assert.True(t, res.Applied)
	assert.Len(t, f.snapshot(t).Nodes, 1)

	resp = f.do(t, http.MethodGet, "/api/workflows/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaletteEndpoint(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/palette", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Categories []string `json:"categories"`
		Entries    []struct {
			Type string `json:"type"`
		} `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Categories)
	assert.NotEmpty(t, body.Entries)
}

func TestInvalidBody(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodPut, f.http.URL+"/api/viewport", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubscribeStreamsNotifications(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.http.URL+"/api/subscribe/notifications", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	node := f.result(t, http.MethodPost, "/api/toolbar/nodes", map[string]string{"type": "action"}).Node
	f.result(t, http.MethodPost, "/api/nodes/"+node.ID+"/commands/delete", nil)

	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event pubsub.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		var n notify.Notification
		require.NoError(t, json.Unmarshal(event.Data, &n))
		assert.Equal(t, notify.MsgNodeDeleted, n.Message)
		return
	}
}

func TestSubscribeUnknownTopic(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/subscribe/bogus", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewServerRequiresEditor(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)
}
