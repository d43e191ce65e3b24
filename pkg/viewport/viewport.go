// Package viewport converts between screen space and canvas space using the
// pan/zoom transform reported by the rendering surface.
package viewport

import (
	"math"

	"github.com/ritzau/workflow-canvas/pkg/model"
)

// Transform is the viewport state of the rendering surface.
//
// Origin is the top-left corner of the canvas element in screen space, Pan is
// the translation applied to the canvas, and Width/Height are the element's
// size in screen pixels.
type Transform struct {
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
	PanX    float64 `json:"panX"`
	PanY    float64 `json:"panY"`
	Zoom    float64 `json:"zoom"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Identity returns a transform that maps screen space onto canvas space unchanged.
func Identity() Transform {
	return Transform{Zoom: 1}
}

// Valid returns true if the transform can be used for mapping.
func (t Transform) Valid() bool {
	for _, v := range []float64{t.OriginX, t.OriginY, t.PanX, t.PanY, t.Zoom, t.Width, t.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return t.Zoom > 0
}

// Mapper holds the most recent transform. The zero value has no transform,
// which is the state before the surface has mounted.
type Mapper struct {
	transform *Transform
}

// Set records the transform reported by the surface. An unusable transform
// puts the mapper back into the not-ready state.
func (m *Mapper) Set(t Transform) {
	if !t.Valid() {
		m.transform = nil
		return
	}
	m.transform = &t
}

// Reset forgets the current transform.
func (m *Mapper) Reset() {
	m.transform = nil
}

// Ready reports whether a usable transform is available.
func (m *Mapper) Ready() bool {
	return m.transform != nil
}

// Transform returns the current transform, if any.
func (m *Mapper) Transform() (Transform, bool) {
	if m.transform == nil {
		return Transform{}, false
	}
	return *m.transform, true
}

// ScreenToCanvas maps a screen-space point into canvas space.
// The second return value is false when no transform is available.
func (m *Mapper) ScreenToCanvas(p model.Point) (model.Point, bool) {
	if m.transform == nil {
		return model.Point{}, false
	}
	t := m.transform
	return model.Point{
		X: (p.X - t.OriginX - t.PanX) / t.Zoom,
		Y: (p.Y - t.OriginY - t.PanY) / t.Zoom,
	}, true
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (m *Mapper) CanvasToScreen(p model.Point) (model.Point, bool) {
	if m.transform == nil {
		return model.Point{}, false
	}
	t := m.transform
	return model.Point{
		X: p.X*t.Zoom + t.PanX + t.OriginX,
		Y: p.Y*t.Zoom + t.PanY + t.OriginY,
	}, true
}

// Center returns the canvas-space point under the middle of the surface.
func (m *Mapper) Center() (model.Point, bool) {
	if m.transform == nil {
		return model.Point{}, false
	}
	t := m.transform
	return m.ScreenToCanvas(model.Point{
		X: t.OriginX + t.Width/2,
		Y: t.OriginY + t.Height/2,
	})
}
