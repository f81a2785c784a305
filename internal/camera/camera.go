// Package camera holds the pan/zoom/focus state of the orrery view and
// derives the world-to-screen transform from it.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MinZoom     = 0.1
	MaxZoom     = 5.0
	DefaultZoom = 1.0
	ZoomStep    = 0.2

	wheelOut = 0.9
	wheelIn  = 1.1

	// JitterThreshold is the per-axis pointer movement, in screen pixels,
	// above which a gesture counts as a drag.
	JitterThreshold = 1.0
)

// Camera is the mutable view state. Focus and free pan are exclusive: while
// a body is focused the pan offset is ignored.
type Camera struct {
	zoom  float64
	pan   r2.Vec
	focus string
}

// New returns a camera at DefaultZoom with no pan and no focus.
func New() *Camera {
	return &Camera{zoom: DefaultZoom}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	switch {
	case math.IsNaN(z):
		return DefaultZoom
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	}
	return z
}

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetZoom sets the zoom factor, clamped, and returns the applied value.
func (c *Camera) SetZoom(z float64) float64 {
	c.zoom = ClampZoom(z)
	return c.zoom
}

// WheelZoom applies one wheel notch. A positive delta (scrolling down)
// zooms out.
func (c *Camera) WheelZoom(deltaY float64) float64 {
	if deltaY > 0 {
		return c.SetZoom(c.zoom * wheelOut)
	}
	return c.SetZoom(c.zoom * wheelIn)
}

// StepZoom applies the given number of discrete zoom button presses.
func (c *Camera) StepZoom(steps int) float64 {
	return c.SetZoom(c.zoom + float64(steps)*ZoomStep)
}

// Pan returns the free-pan offset in screen pixels.
func (c *Camera) Pan() r2.Vec {
	return c.pan
}

// SetPan replaces the free-pan offset.
func (c *Camera) SetPan(p r2.Vec) {
	c.pan = p
}

// Focus returns the focused body id, or "" when nothing is focused.
func (c *Camera) Focus() string {
	return c.focus
}

// SetFocus focuses a body; "" clears focus.
func (c *Camera) SetFocus(id string) {
	c.focus = id
}

// ClearFocus drops the focus.
func (c *Camera) ClearFocus() {
	c.focus = ""
}

// Drag applies a pointer movement delta. If a body is focused and the
// movement exceeds the jitter threshold, the focus is dropped first so the
// delta pans freely. Reports whether focus was cleared.
func (c *Camera) Drag(delta r2.Vec) bool {
	cleared := false
	if c.focus != "" && ExceedsJitter(delta) {
		c.focus = ""
		cleared = true
	}
	c.pan = r2.Add(c.pan, delta)
	return cleared
}

// Reset restores the default zoom, pan and focus.
func (c *Camera) Reset() {
	c.zoom = DefaultZoom
	c.pan = r2.Vec{}
	c.focus = ""
}

// ExceedsJitter reports whether a movement is a drag rather than a tremor.
func ExceedsJitter(delta r2.Vec) bool {
	return math.Abs(delta.X) > JitterThreshold || math.Abs(delta.Y) > JitterThreshold
}

// Target is the live world position of the focused body, resolved by the
// caller each frame. Valid is false when the focus id names no body.
type Target struct {
	World r2.Vec
	Valid bool
}

// Offset returns the effective screen offset for this frame: the free pan
// when nothing is focused, otherwise the offset that pins the target to the
// viewport centre.
func (c *Camera) Offset(t Target) r2.Vec {
	if c.focus == "" || !t.Valid {
		return c.pan
	}
	return r2.Scale(-c.zoom, t.World)
}

// Transform builds this frame's world-to-screen transform.
func (c *Camera) Transform(viewportCenter r2.Vec, t Target) Transform {
	return Transform{
		Origin: r2.Add(viewportCenter, c.Offset(t)),
		Zoom:   c.zoom,
	}
}

// ViewportCenter returns the centre of a width x height surface.
func ViewportCenter(width, height int) r2.Vec {
	return r2.Vec{X: float64(width) / 2, Y: float64(height) / 2}
}

// Transform maps world space to screen space:
// screen = Origin + world * Zoom.
type Transform struct {
	Origin r2.Vec
	Zoom   float64
}

// ToScreen maps a world point to screen pixels.
func (t Transform) ToScreen(world r2.Vec) r2.Vec {
	return r2.Add(t.Origin, r2.Scale(t.Zoom, world))
}

// Length converts a world length to screen pixels.
func (t Transform) Length(world float64) float64 {
	return world * t.Zoom
}
