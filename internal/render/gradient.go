package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// frame maps device pixels into a body's local drawing space. It mirrors a
// gg Translate(origin) / Scale(sx, sy) / Rotate(rotation) sequence, which
// gg does not apply to fill patterns on its own.
type frame struct {
	origin   r2.Vec
	sx, sy   float64
	cos, sin float64
}

func newFrame(origin r2.Vec, rotation, sx, sy float64) frame {
	return frame{
		origin: origin,
		sx:     sx,
		sy:     sy,
		cos:    math.Cos(rotation),
		sin:    math.Sin(rotation),
	}
}

func (f frame) toLocal(x, y float64) r2.Vec {
	vx := (x - f.origin.X) / f.sx
	vy := (y - f.origin.Y) / f.sy
	return r2.Vec{
		X: vx*f.cos + vy*f.sin,
		Y: -vx*f.sin + vy*f.cos,
	}
}

// colorStop holds a straight (non-premultiplied) colour at a gradient
// offset. Stops are interpolated straight, as canvas gradients are, and
// premultiplied only when converted to color.RGBA.
type colorStop struct {
	offset     float64
	r, g, b, a float64
}

// radialGradient is a two-circle radial gradient with the same geometry as
// a 2D canvas gradient: the colour at a point comes from the largest circle
// of the interpolated family that passes through it. It implements
// gg.Pattern.
type radialGradient struct {
	frame  frame
	c0, c1 r2.Vec
	r0, r1 float64
	stops  []colorStop
}

func newRadialGradient(f frame, c0 r2.Vec, r0 float64, c1 r2.Vec, r1 float64) *radialGradient {
	return &radialGradient{frame: f, c0: c0, r0: r0, c1: c1, r1: r1}
}

// addStop appends a colour stop; offsets must be added in ascending order.
func (g *radialGradient) addStop(offset float64, c colorful.Color, alpha float64) *radialGradient {
	c = c.Clamped()
	g.stops = append(g.stops, colorStop{
		offset: offset,
		r:      c.R,
		g:      c.G,
		b:      c.B,
		a:      clamp01(alpha),
	})
	return g
}

// ColorAt implements gg.Pattern, sampling at the pixel centre.
func (g *radialGradient) ColorAt(x, y int) color.Color {
	p := g.frame.toLocal(float64(x)+0.5, float64(y)+0.5)
	w, ok := g.param(p)
	if !ok {
		return color.Transparent
	}
	return g.sample(w)
}

// param solves |p - c(w)| = r(w) for the largest w with r(w) >= 0, where
// c(w) = c0 + w(c1-c0) and r(w) = r0 + w(r1-r0).
func (g *radialGradient) param(p r2.Vec) (float64, bool) {
	cd := r2.Sub(g.c1, g.c0)
	pd := r2.Sub(p, g.c0)
	dr := g.r1 - g.r0

	a := r2.Dot(cd, cd) - dr*dr
	b := r2.Dot(pd, cd) + g.r0*dr
	c := r2.Dot(pd, pd) - g.r0*g.r0

	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0, false
		}
		w := c / (2 * b)
		return w, g.r0+w*dr >= 0
	}

	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	w1 := (b + sq) / a
	w2 := (b - sq) / a
	if w1 < w2 {
		w1, w2 = w2, w1
	}
	if g.r0+w1*dr >= 0 {
		return w1, true
	}
	if g.r0+w2*dr >= 0 {
		return w2, true
	}
	return 0, false
}

// sample interpolates the stops at offset w, padding beyond both ends.
func (g *radialGradient) sample(w float64) color.RGBA {
	n := len(g.stops)
	if n == 0 {
		return color.RGBA{}
	}
	if w <= g.stops[0].offset {
		return g.stops[0].rgba()
	}
	if w >= g.stops[n-1].offset {
		return g.stops[n-1].rgba()
	}
	for i := 1; i < n; i++ {
		hi := g.stops[i]
		if w > hi.offset {
			continue
		}
		lo := g.stops[i-1]
		span := hi.offset - lo.offset
		if span <= 0 {
			return hi.rgba()
		}
		t := (w - lo.offset) / span
		return colorStop{
			r: lo.r + (hi.r-lo.r)*t,
			g: lo.g + (hi.g-lo.g)*t,
			b: lo.b + (hi.b-lo.b)*t,
			a: lo.a + (hi.a-lo.a)*t,
		}.rgba()
	}
	return g.stops[n-1].rgba()
}

func (s colorStop) rgba() color.RGBA {
	return color.RGBA{
		R: to8(s.r * s.a),
		G: to8(s.g * s.a),
		B: to8(s.b * s.a),
		A: to8(s.a),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
