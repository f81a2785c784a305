// Package render draws a frame of the orrery onto an RGBA raster.
//
// Screen space is raster pixels with the origin at the top-left corner.
// Every frame repaints the whole surface; the renderer also records where
// each body landed so pointer input can be matched against it.
package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/orbit"
)

// Visual constants.
const (
	SelectionScale = 1.4 // selection ring radius as a multiple of body radius
	RingSquash     = 0.3 // vertical scale of planetary rings
	CoronaScale    = 3.0 // corona radius as a multiple of the star radius

	orbitAlpha     = 0.15
	selectionAlpha = 0.8
	selectionWidth = 2.0
	selectionDash  = 4.0
	landRadius     = 0.4
	landSpinRate   = 0.5
	cloudAlpha     = 0.35
	cloudDriftRate = 0.35
)

var (
	background = colorful.Color{R: 5.0 / 255, G: 5.0 / 255, B: 5.0 / 255}
	white      = colorful.Color{R: 1, G: 1, B: 1}
	black      = colorful.Color{}
)

// Options toggles optional layers.
type Options struct {
	ShowOrbits bool
	ShowStars  bool
}

// DefaultOptions draws every layer.
func DefaultOptions() Options {
	return Options{ShowOrbits: true, ShowStars: true}
}

// Frame is the per-frame input of Render.
type Frame struct {
	Width, Height int
	SimTime       float64 // simulation seconds, drives orbits and rotation
	WallTime      float64 // wall-clock seconds, drives star twinkle
}

// Renderer owns the raster and the screen position cache. It is not safe
// for concurrent use.
type Renderer struct {
	registry *bodies.Registry
	orbiting []bodies.Body
	opts     Options

	img *image.RGBA
	dc  *gg.Context

	cache     PositionCache
	transform camera.Transform
}

// New creates a renderer for the bodies in reg.
func New(reg *bodies.Registry, opts Options) *Renderer {
	return &Renderer{
		registry: reg,
		orbiting: reg.Orbiting(),
		opts:     opts,
	}
}

// Options returns the current layer toggles.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the layer toggles.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

// Cache returns the screen positions recorded by the latest Render.
func (r *Renderer) Cache() *PositionCache {
	return &r.cache
}

// Transform returns the world-to-screen transform used by the latest Render.
func (r *Renderer) Transform() camera.Transform {
	return r.transform
}

// Render paints one frame and refreshes the position cache. The returned
// image is reused by the next call. A zero-sized frame returns nil.
func (r *Renderer) Render(cam *camera.Camera, f Frame) *image.RGBA {
	r.cache.Reset()
	if f.Width <= 0 || f.Height <= 0 {
		return nil
	}
	r.ensureSurface(f.Width, f.Height)

	dc := r.dc
	dc.Identity()
	dc.ResetClip()
	dc.SetDash()
	dc.ClearPath()

	focus := cam.Focus()
	star := r.registry.Star()
	positions := make([]r2.Vec, len(r.orbiting))
	var target camera.Target
	if focus == star.ID {
		target = camera.Target{Valid: true}
	}
	for i, b := range r.orbiting {
		positions[i] = orbit.Position(b, f.SimTime)
		if b.ID == focus {
			target = camera.Target{World: positions[i], Valid: true}
		}
	}

	tr := cam.Transform(camera.ViewportCenter(f.Width, f.Height), target)
	r.transform = tr

	dc.SetColor(background)
	dc.Clear()

	if r.opts.ShowStars {
		r.drawStarfield(f)
	}
	if r.opts.ShowOrbits {
		r.drawOrbits(tr)
	}

	r.drawStar(star, tr)
	r.cache.Set(star.ID, tr.Origin, star.Radius)

	for i, b := range r.orbiting {
		sp := tr.ToScreen(positions[i])
		r.drawBody(b, positions[i], sp, tr.Zoom, f.SimTime)
		if b.ID == focus {
			r.drawSelection(sp, tr.Length(b.Radius)*SelectionScale)
		}
		r.cache.Set(b.ID, sp, b.Radius)
	}

	return r.img
}

func (r *Renderer) ensureSurface(w, h int) {
	if r.img != nil {
		b := r.img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	r.dc = gg.NewContextForRGBA(r.img)
}

func (r *Renderer) drawStarfield(f Frame) {
	dc := r.dc
	for i := 0; i < StarCount; i++ {
		x, y, size := BackgroundStar(i, f.Width, f.Height)
		dc.SetRGBA(1, 1, 1, Twinkle(i, f.WallTime))
		dc.DrawCircle(x, y, size)
		dc.Fill()
	}
}

func (r *Renderer) drawOrbits(tr camera.Transform) {
	dc := r.dc
	dc.SetRGBA(1, 1, 1, orbitAlpha)
	dc.SetLineWidth(1)
	for _, b := range r.orbiting {
		radius := tr.Length(b.OrbitDistance)
		if radius <= 0 {
			continue
		}
		dc.DrawCircle(tr.Origin.X, tr.Origin.Y, radius)
		dc.Stroke()
	}
}

func (r *Renderer) drawStar(star bodies.Body, tr camera.Transform) {
	radius := tr.Length(star.Radius)
	if !r.visible(tr.Origin, radius*CoronaScale) {
		return
	}
	dc := r.dc
	local := newFrame(tr.Origin, 0, tr.Zoom, tr.Zoom)

	corona := newRadialGradient(local, r2.Vec{}, star.Radius*0.8, r2.Vec{}, star.Radius*CoronaScale).
		addStop(0, rgb(255, 200, 0), 0.8).
		addStop(0.2, rgb(255, 100, 0), 0.4).
		addStop(1, rgb(255, 50, 0), 0)
	dc.SetFillStyle(corona)
	dc.DrawCircle(tr.Origin.X, tr.Origin.Y, radius*CoronaScale)
	dc.Fill()

	core := newRadialGradient(local, r2.Vec{}, 0, r2.Vec{}, star.Radius).
		addStop(0, rgb(0xFF, 0xF5, 0xDD), 1).
		addStop(0.3, rgb(0xFF, 0xD7, 0x00), 1).
		addStop(0.9, rgb(0xFF, 0x8C, 0x00), 1).
		addStop(1, rgb(0xFF, 0x45, 0x00), 1)
	dc.SetFillStyle(core)
	dc.DrawCircle(tr.Origin.X, tr.Origin.Y, radius)
	dc.Fill()
}

// drawBody paints a planet: its surface clipped to the disc, the lighting
// overlay facing the star, then the ring.
func (r *Renderer) drawBody(b bodies.Body, world, screen r2.Vec, zoom, simTime float64) {
	radius := b.Radius * zoom
	extent := radius
	if b.Ring != nil {
		extent = math.Max(extent, b.Ring.OuterRadius*zoom)
	}
	if radius <= 0 || !r.visible(screen, extent) {
		return
	}
	dc := r.dc

	dc.DrawCircle(screen.X, screen.Y, radius)
	dc.Clip()
	r.drawSurface(b, screen, zoom, simTime)
	dc.ResetClip()

	light := newRadialGradient(newFrame(screen, orbit.AngleToStar(world), zoom, zoom),
		r2.Vec{X: b.Radius * 0.4}, 0, r2.Vec{}, b.Radius).
		addStop(0, white, 0.1).
		addStop(0.4, black, 0).
		addStop(0.8, black, 0.5).
		addStop(1, black, 0.9)
	dc.SetFillStyle(light)
	dc.DrawCircle(screen.X, screen.Y, radius)
	dc.Fill()

	if b.Ring != nil {
		r.drawRing(b, screen, zoom)
	}
}

func (r *Renderer) drawSurface(b bodies.Body, screen r2.Vec, zoom, simTime float64) {
	dc := r.dc
	radius := b.Radius * zoom

	switch s := b.Surface.(type) {
	case bodies.BandedSurface:
		if len(s.Bands) == 0 {
			r.fillDisc(b.Color, screen, radius)
			return
		}
		dc.Push()
		dc.Translate(screen.X, screen.Y)
		dc.Scale(zoom, zoom)
		dc.Rotate(s.Tilt)
		bandH := 2 * b.Radius / float64(len(s.Bands))
		for i, c := range s.Bands {
			dc.SetColor(c)
			dc.DrawRectangle(-b.Radius, -b.Radius+float64(i)*bandH, 2*b.Radius, bandH+1)
			dc.Fill()
		}
		dc.Pop()

	case bodies.HomeWorldSurface:
		r.fillDisc(s.Ocean, screen, radius)
		rot := simTime * landSpinRate
		dc.SetColor(s.Land)
		for i := 0; i < 3; i++ {
			a := rot + float64(i)*2
			dc.DrawCircle(screen.X+math.Sin(a)*0.6*radius, screen.Y+math.Cos(a)*0.4*radius, landRadius*radius)
			dc.Fill()
		}
		drift := simTime * cloudDriftRate
		dc.SetRGBA(s.Cloud.R, s.Cloud.G, s.Cloud.B, cloudAlpha)
		for i, lat := range []float64{-0.45, 0.35} {
			a := drift + float64(i)*math.Pi
			dc.DrawEllipse(screen.X+math.Sin(a)*0.5*radius, screen.Y+lat*radius, 0.5*radius, 0.12*radius)
			dc.Fill()
		}

	case bodies.FlatSurface:
		r.fillDisc(s.Color, screen, radius)

	case bodies.StarSurface:
		r.fillDisc(b.Color, screen, radius)

	default:
		r.fillDisc(b.Color, screen, radius)
	}
}

func (r *Renderer) fillDisc(c colorful.Color, screen r2.Vec, radius float64) {
	r.dc.SetColor(c)
	r.dc.DrawRectangle(screen.X-radius, screen.Y-radius, 2*radius, 2*radius)
	r.dc.Fill()
}

func (r *Renderer) drawRing(b bodies.Body, screen r2.Vec, zoom float64) {
	ring := b.Ring
	g := newRadialGradient(newFrame(screen, 0, zoom, zoom*RingSquash),
		r2.Vec{}, b.Radius, r2.Vec{}, ring.OuterRadius).
		addStop(0, black, 0).
		addStop(0.4, ring.Color, ring.Opacity).
		addStop(0.7, black, 0).
		addStop(1, ring.Color, ring.Opacity)
	r.dc.SetFillStyle(g)
	r.dc.DrawEllipse(screen.X, screen.Y, ring.OuterRadius*zoom, ring.OuterRadius*zoom*RingSquash)
	r.dc.Fill()
}

func (r *Renderer) drawSelection(screen r2.Vec, radius float64) {
	dc := r.dc
	dc.SetRGBA(1, 1, 1, selectionAlpha)
	dc.SetLineWidth(selectionWidth)
	dc.SetDash(selectionDash, selectionDash)
	dc.DrawCircle(screen.X, screen.Y, radius)
	dc.Stroke()
	dc.SetDash()
}

// visible reports whether a disc of the given radius overlaps the surface.
func (r *Renderer) visible(p r2.Vec, radius float64) bool {
	b := r.img.Bounds()
	return p.X+radius >= 0 && p.Y+radius >= 0 &&
		p.X-radius <= float64(b.Dx()) && p.Y-radius <= float64(b.Dy())
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
