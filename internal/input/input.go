// Package input turns pointer and wheel events into camera changes and body
// selection.
package input

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/render"
)

// MinHitRadius is the smallest pick radius in screen pixels, so tiny or
// zoomed-out bodies stay clickable.
const MinHitRadius = 20.0

// Result reports what a pointer event changed.
type Result struct {
	Selected     string // body focused by a click, "" if none
	FocusCleared bool   // a drag dropped the focus
}

// Handler tracks one pointer gesture at a time. Positions are screen
// pixels.
type Handler struct {
	cam *camera.Camera

	pressed bool
	pressAt r2.Vec
	last    r2.Vec
	moved   bool
}

// NewHandler creates a handler that drives cam.
func NewHandler(cam *camera.Camera) *Handler {
	return &Handler{cam: cam}
}

// Wheel applies one wheel notch; positive deltaY zooms out.
func (h *Handler) Wheel(deltaY float64) {
	h.cam.WheelZoom(deltaY)
}

// Dragging reports whether a button is held.
func (h *Handler) Dragging() bool {
	return h.pressed
}

// PointerDown starts a gesture.
func (h *Handler) PointerDown(p r2.Vec) {
	h.pressed = true
	h.pressAt = p
	h.last = p
	h.moved = false
}

// PointerMove pans by the movement since the last event while a button is
// held. Moves without a press are ignored.
func (h *Handler) PointerMove(p r2.Vec) Result {
	if !h.pressed {
		return Result{}
	}
	delta := r2.Sub(p, h.last)
	h.last = p
	if camera.ExceedsJitter(r2.Sub(p, h.pressAt)) {
		h.moved = true
	}
	if delta == (r2.Vec{}) {
		return Result{}
	}
	return Result{FocusCleared: h.cam.Drag(delta)}
}

// PointerUp ends the gesture. A gesture that never left the jitter
// threshold is a click and selects the body under p, if any; a click on
// empty space leaves the selection alone.
func (h *Handler) PointerUp(p r2.Vec, cache *render.PositionCache) Result {
	if !h.pressed {
		return Result{}
	}
	res := h.PointerMove(p)
	h.pressed = false
	if h.moved {
		return res
	}
	if id, ok := HitTest(cache, p, h.cam.Zoom()); ok {
		h.cam.SetFocus(id)
		res.Selected = id
	}
	return res
}

// PointerLeave cancels the gesture without a click.
func (h *Handler) PointerLeave() {
	h.pressed = false
	h.moved = false
}

// HitTest returns the body nearest to p whose pick radius contains it. The
// pick radius is the drawn radius, but never less than MinHitRadius. Ties
// go to the body drawn first.
func HitTest(cache *render.PositionCache, p r2.Vec, zoom float64) (string, bool) {
	if cache == nil {
		return "", false
	}
	best := ""
	bestDist := math.Inf(1)
	for _, e := range cache.Entries() {
		d := r2.Norm(r2.Sub(p, e.Point()))
		if d >= math.Max(e.Radius*zoom, MinHitRadius) {
			continue
		}
		if d < bestDist {
			best, bestDist = e.ID, d
		}
	}
	return best, best != ""
}
