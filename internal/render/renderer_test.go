package render

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/camera"
)

func newTestRenderer(opts Options) *Renderer {
	return New(bodies.Default(), opts)
}

func TestRenderZeroSize(t *testing.T) {
	r := newTestRenderer(DefaultOptions())
	cam := camera.New()

	if img := r.Render(cam, Frame{Width: 0, Height: 40}); img != nil {
		t.Error("zero-width frame should return nil")
	}
	if r.Cache().Len() != 0 {
		t.Errorf("cache should be empty, got %d entries", r.Cache().Len())
	}
}

func TestRenderCachesEveryBody(t *testing.T) {
	r := newTestRenderer(DefaultOptions())
	cam := camera.New()

	img := r.Render(cam, Frame{Width: 320, Height: 200})
	if img == nil {
		t.Fatal("Render returned nil")
	}
	if got := img.Bounds().Dx(); got != 320 {
		t.Errorf("width = %d, want 320", got)
	}
	if r.Cache().Len() != 9 {
		t.Fatalf("cache has %d entries, want 9", r.Cache().Len())
	}

	sun, ok := r.Cache().Get("sun")
	if !ok {
		t.Fatal("sun not cached")
	}
	if sun.X != 160 || sun.Y != 100 || sun.Radius != 40 {
		t.Errorf("sun = %+v, want centre (160,100) radius 40", sun)
	}

	// at t=0 every planet sits on the +x axis
	earth, _ := r.Cache().Get("earth")
	if earth.X != 160+130 || earth.Y != 100 {
		t.Errorf("earth = (%g,%g), want (290,100)", earth.X, earth.Y)
	}
	if r.Cache().Entries()[0].ID != "sun" {
		t.Errorf("first entry = %q, want sun", r.Cache().Entries()[0].ID)
	}
}

func TestRenderFocusedPlanetStaysCentred(t *testing.T) {
	r := newTestRenderer(DefaultOptions())
	cam := camera.New()
	cam.SetZoom(2)
	cam.SetFocus("mars")

	for _, simTime := range []float64{0, 1.5, 12, 99.9} {
		r.Render(cam, Frame{Width: 200, Height: 160, SimTime: simTime})
		mars, ok := r.Cache().Get("mars")
		if !ok {
			t.Fatal("mars not cached")
		}
		if math.Abs(mars.X-100) > 1e-9 || math.Abs(mars.Y-80) > 1e-9 {
			t.Errorf("t=%g: mars at (%g,%g), want centre", simTime, mars.X, mars.Y)
		}
	}
}

func TestRenderUnknownFocusUsesPan(t *testing.T) {
	r := newTestRenderer(DefaultOptions())
	cam := camera.New()
	cam.SetPan(r2.Vec{X: 10, Y: -5})
	cam.SetFocus("pluto")

	r.Render(cam, Frame{Width: 100, Height: 100})
	sun, _ := r.Cache().Get("sun")
	if sun.X != 60 || sun.Y != 45 {
		t.Errorf("sun = (%g,%g), want (60,45)", sun.X, sun.Y)
	}
}

func TestRenderDeterministic(t *testing.T) {
	cam := camera.New()
	cam.SetFocus("saturn")
	cam.SetZoom(3)
	f := Frame{Width: 160, Height: 120, SimTime: 42, WallTime: 3}

	a := newTestRenderer(DefaultOptions()).Render(cam, f)
	b := newTestRenderer(DefaultOptions()).Render(cam, f)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("identical inputs produced different frames")
	}
}

func TestRenderBackground(t *testing.T) {
	r := newTestRenderer(Options{})
	cam := camera.New()

	img := r.Render(cam, Frame{Width: 400, Height: 300})
	got := img.RGBAAt(2, 2)
	want := color.RGBA{R: 5, G: 5, B: 5, A: 255}
	if got != want {
		t.Errorf("corner pixel = %v, want %v", got, want)
	}

	centre := img.RGBAAt(200, 150)
	if centre.R < 200 || centre.G < 200 {
		t.Errorf("star core pixel = %v, want bright", centre)
	}
}

func TestRenderLitSideFacesStar(t *testing.T) {
	r := newTestRenderer(Options{})
	cam := camera.New()
	cam.SetZoom(5)
	cam.SetFocus("mars")

	// mars is at +x at t=0, so the star lies to its left
	img := r.Render(cam, Frame{Width: 120, Height: 120})
	lit := luminance(img.RGBAAt(60-15, 60))
	dark := luminance(img.RGBAAt(60+15, 60))
	if lit <= dark {
		t.Errorf("star-facing side luminance %g not above far side %g", lit, dark)
	}
}

func TestRenderResize(t *testing.T) {
	r := newTestRenderer(DefaultOptions())
	cam := camera.New()

	r.Render(cam, Frame{Width: 100, Height: 80})
	img := r.Render(cam, Frame{Width: 200, Height: 120})
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 120 {
		t.Errorf("bounds = %v, want 200x120", img.Bounds())
	}
}

func luminance(c color.RGBA) float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}
