package viewport

import (
	"math"
	"testing"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

func TestScreenToCanvasNotReady(t *testing.T) {
	var m Mapper

	if _, ok := m.ScreenToCanvas(model.Point{X: 1, Y: 1}); ok {
		t.Error("Expected no mapping before a transform is set")
	}
	if _, ok := m.Center(); ok {
		t.Error("Expected no center before a transform is set")
	}
}

func TestScreenToCanvasIdentity(t *testing.T) {
	var m Mapper
	m.Set(Identity())

	got, ok := m.ScreenToCanvas(model.Point{X: 120, Y: 80})
	if !ok {
		t.Fatal("Expected mapping with identity transform")
	}
	if got != (model.Point{X: 120, Y: 80}) {
		t.Errorf("Expected (120,80), got %v", got)
	}
}

func TestScreenToCanvasPanZoom(t *testing.T) {
	var m Mapper
	m.Set(Transform{OriginX: 100, OriginY: 50, PanX: 20, PanY: -10, Zoom: 2})

	got, _ := m.ScreenToCanvas(model.Point{X: 220, Y: 140})
	want := model.Point{X: 50, Y: 50}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	back, _ := m.CanvasToScreen(got)
	if back != (model.Point{X: 220, Y: 140}) {
		t.Errorf("Round trip mismatch: got %v", back)
	}
}

func TestSetInvalidTransform(t *testing.T) {
	var m Mapper
	m.Set(Identity())

	m.Set(Transform{Zoom: 0})
	if m.Ready() {
		t.Error("Zero zoom should leave the mapper not ready")
	}

	m.Set(Transform{Zoom: 1, PanX: math.Inf(1)})
	if m.Ready() {
		t.Error("Infinite pan should leave the mapper not ready")
	}
}

func TestCenter(t *testing.T) {
	var m Mapper
	m.Set(Transform{Zoom: 1, Width: 800, Height: 600})

	got, ok := m.Center()
	if !ok || got != (model.Point{X: 400, Y: 300}) {
		t.Errorf("Expected (400,300), got %v (ok=%v)", got, ok)
	}
}
