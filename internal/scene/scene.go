// Package scene owns the mutable orrery state and runs one frame at a time.
//
// A Scene is driven by a single goroutine (the UI loop). It is not safe for
// concurrent use; fact requests run elsewhere and come back through
// ResolveFact with the token they were started with.
package scene

import (
	"image"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/facts"
	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
)

// Options configures a Scene.
type Options struct {
	Render  render.Options
	Zoom    float64
	Speed   float64
	Logger  *logging.Logger
	Metrics *metrics.Collector
}

// DefaultOptions returns the startup state of the interactive view.
func DefaultOptions() Options {
	return Options{
		Render: render.DefaultOptions(),
		Zoom:   camera.DefaultZoom,
		Speed:  sim.DefaultSpeed,
	}
}

// Scene ties the clock, camera, renderer and input handler together.
type Scene struct {
	registry *bodies.Registry
	cam      *camera.Camera
	clock    *sim.Clock
	renderer *render.Renderer
	input    *input.Handler
	facts    facts.Tracker

	log     *logging.Logger
	metrics *metrics.Collector

	start   time.Time
	last    time.Time
	frame   *image.RGBA
	frameNo uint64
}

// New creates a scene over reg.
func New(reg *bodies.Registry, opts Options) *Scene {
	cam := camera.New()
	cam.SetZoom(opts.Zoom)

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Scene{
		registry: reg,
		cam:      cam,
		clock:    sim.NewClock(opts.Speed),
		renderer: render.New(reg, opts.Render),
		input:    input.NewHandler(cam),
		log:      log,
		metrics:  opts.Metrics,
	}
}

// Registry returns the body table.
func (s *Scene) Registry() *bodies.Registry { return s.registry }

// Camera returns the camera.
func (s *Scene) Camera() *camera.Camera { return s.cam }

// Clock returns the simulation clock.
func (s *Scene) Clock() *sim.Clock { return s.clock }

// Renderer returns the renderer.
func (s *Scene) Renderer() *render.Renderer { return s.renderer }

// Facts returns the fact state of the current selection.
func (s *Scene) Facts() *facts.Tracker { return &s.facts }

// Frame returns the latest rendered raster, or nil before the first Tick.
func (s *Scene) Frame() *image.RGBA { return s.frame }

// Tick advances the clock by the wall time since the previous tick and
// renders a width x height frame.
func (s *Scene) Tick(now time.Time, width, height int) *image.RGBA {
	if s.start.IsZero() {
		s.start = now
		s.last = now
	}
	s.clock.Advance(now.Sub(s.last))
	s.last = now

	began := time.Now()
	s.frame = s.renderer.Render(s.cam, render.Frame{
		Width:    width,
		Height:   height,
		SimTime:  s.clock.Time(),
		WallTime: now.Sub(s.start).Seconds(),
	})
	s.frameNo++
	s.metrics.RecordFrame(time.Since(began), s.cam.Zoom(), s.clock.Speed())
	return s.frame
}

// Snapshot renders a single frame at simulation time t without touching
// the wall clock.
func (s *Scene) Snapshot(t float64, width, height int) *image.RGBA {
	s.clock.SetTime(t)
	s.frame = s.renderer.Render(s.cam, render.Frame{
		Width:   width,
		Height:  height,
		SimTime: t,
	})
	return s.frame
}

// Selected returns the focused body.
func (s *Scene) Selected() (bodies.Body, bool) {
	id := s.cam.Focus()
	if id == "" {
		return bodies.Body{}, false
	}
	return s.registry.Get(id)
}

// Select focuses id. Unknown ids are ignored.
func (s *Scene) Select(id string) bool {
	if _, ok := s.registry.Get(id); !ok {
		return false
	}
	s.setFocus(id)
	return true
}

// ClearSelection drops the focus and keeps the current view.
func (s *Scene) ClearSelection() {
	s.setFocus("")
}

// CycleFocus moves the focus dir steps through the table, star first.
// With nothing focused, forward starts at the star and backward at the
// last body.
func (s *Scene) CycleFocus(dir int) string {
	all := s.registry.All()
	if len(all) == 0 || dir == 0 {
		return s.cam.Focus()
	}
	n := len(all)
	i := s.registry.Index(s.cam.Focus())
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+dir)%n + n) % n
	}
	s.setFocus(all[i].ID)
	return all[i].ID
}

func (s *Scene) setFocus(id string) {
	if id == s.cam.Focus() {
		return
	}
	s.cam.SetFocus(id)
	s.selectionChanged()
}

func (s *Scene) selectionChanged() {
	s.facts.Reset()
	if id := s.cam.Focus(); id != "" {
		s.log.Debug("focus %s", id)
	} else {
		s.log.Debug("focus cleared")
	}
}

// ResetView restores the default camera.
func (s *Scene) ResetView() {
	had := s.cam.Focus()
	s.cam.Reset()
	if had != "" {
		s.selectionChanged()
	}
}

// Wheel applies a wheel notch.
func (s *Scene) Wheel(deltaY float64) {
	s.input.Wheel(deltaY)
}

// PointerDown starts a gesture at p, in raster pixels.
func (s *Scene) PointerDown(p r2.Vec) {
	s.input.PointerDown(p)
}

// PointerMove continues a gesture.
func (s *Scene) PointerMove(p r2.Vec) {
	s.apply(s.input.PointerMove(p))
}

// PointerUp ends a gesture, selecting the body under p on a click.
func (s *Scene) PointerUp(p r2.Vec) {
	before := s.cam.Focus()
	res := s.input.PointerUp(p, s.renderer.Cache())
	if res.Selected != "" && res.Selected != before {
		s.selectionChanged()
		return
	}
	s.apply(res)
}

// PointerLeave cancels a gesture.
func (s *Scene) PointerLeave() {
	s.input.PointerLeave()
}

func (s *Scene) apply(res input.Result) {
	if res.FocusCleared {
		s.selectionChanged()
	}
}

// BeginFact starts a fact request for the selection and returns its token
// and the body name to ask about.
func (s *Scene) BeginFact() (facts.Token, string, bool) {
	b, ok := s.Selected()
	if !ok {
		return facts.Token{}, "", false
	}
	return s.facts.Begin(b.ID), b.Name, true
}

// ResolveFact delivers a fact. Responses for an old selection are dropped.
func (s *Scene) ResolveFact(tok facts.Token, text string) bool {
	if !s.facts.Resolve(tok, text) {
		s.metrics.RecordStaleFact()
		s.log.Debug("dropped stale fact for %s (#%d)", tok.BodyID, tok.Seq)
		return false
	}
	return true
}

// Label is a body name anchored at its screen position.
type Label struct {
	ID, Name string
	X, Y     float64
	Radius   float64 // screen pixels
}

// Labels returns name anchors for bodies drawn in the latest frame.
func (s *Scene) Labels() []Label {
	zoom := s.renderer.Transform().Zoom
	entries := s.renderer.Cache().Entries()
	out := make([]Label, 0, len(entries))
	for _, e := range entries {
		b, ok := s.registry.Get(e.ID)
		if !ok {
			continue
		}
		out = append(out, Label{ID: e.ID, Name: b.Name, X: e.X, Y: e.Y, Radius: e.Radius * zoom})
	}
	return out
}

// Period returns the orbital period of id in simulation seconds.
func (s *Scene) Period(id string) float64 {
	b, ok := s.registry.Get(id)
	if !ok {
		return 0
	}
	return orbit.Period(b)
}

// FrameCount returns the number of frames rendered by Tick.
func (s *Scene) FrameCount() uint64 {
	return s.frameNo
}
