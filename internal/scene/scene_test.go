package scene

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/facts"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/render"
)

func newTestScene() *Scene {
	opts := DefaultOptions()
	opts.Render = render.Options{}
	return New(bodies.Default(), opts)
}

func TestTickAdvancesClock(t *testing.T) {
	s := newTestScene()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Tick(t0, 80, 60)
	if s.Clock().Time() != 0 {
		t.Errorf("first tick advanced clock to %g", s.Clock().Time())
	}
	s.Tick(t0.Add(50*time.Millisecond), 80, 60)
	if got := s.Clock().Time(); math.Abs(got-0.05) > 1e-9 {
		t.Errorf("Time = %g, want 0.05", got)
	}

	// a stall is capped
	s.Tick(t0.Add(10*time.Second), 80, 60)
	if got := s.Clock().Time(); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("Time after stall = %g, want 0.15", got)
	}
	if s.FrameCount() != 3 {
		t.Errorf("FrameCount = %d, want 3", s.FrameCount())
	}
	if s.Frame() == nil || s.Frame().Bounds().Dx() != 80 {
		t.Error("frame not kept")
	}
}

func TestTickRecordsMetrics(t *testing.T) {
	m := metrics.NewCollector()
	opts := DefaultOptions()
	opts.Metrics = m
	s := New(bodies.Default(), opts)

	s.Tick(time.Now(), 40, 30)
	mfs, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "orrery_frames_total" {
			found = mf.GetMetric()[0].GetCounter().GetValue() == 1
		}
	}
	if !found {
		t.Error("frames_total not recorded")
	}
}

func TestClickSelectsAndResetsFacts(t *testing.T) {
	s := newTestScene()
	s.Tick(time.Now(), 400, 300)

	tok, name, ok := s.BeginFact()
	if ok {
		t.Fatalf("BeginFact without selection returned %v %q", tok, name)
	}

	// earth sits at (200+130, 150) at t=0
	s.PointerDown(r2.Vec{X: 331, Y: 150})
	s.PointerUp(r2.Vec{X: 331, Y: 150})
	b, ok := s.Selected()
	if !ok || b.ID != "earth" {
		t.Fatalf("Selected = %q, %v; want earth", b.ID, ok)
	}

	tok, name, ok = s.BeginFact()
	if !ok || name != "Earth" {
		t.Fatalf("BeginFact = %v %q %v", tok, name, ok)
	}

	// moving the selection makes the pending answer stale
	s.Select("mars")
	if s.ResolveFact(tok, "late") {
		t.Error("stale fact accepted")
	}
	if s.Facts().State() != facts.StateIdle {
		t.Errorf("fact state = %v, want idle", s.Facts().State())
	}
}

func TestDragClearsFocusAndFacts(t *testing.T) {
	s := newTestScene()
	s.Select("venus")
	tok, _, _ := s.BeginFact()

	s.PointerDown(r2.Vec{X: 10, Y: 10})
	s.PointerMove(r2.Vec{X: 30, Y: 10})
	s.PointerUp(r2.Vec{X: 30, Y: 10})

	if _, ok := s.Selected(); ok {
		t.Error("drag should clear focus")
	}
	if s.ResolveFact(tok, "late") {
		t.Error("fact for dropped focus accepted")
	}
	if s.Camera().Pan() != (r2.Vec{X: 20}) {
		t.Errorf("Pan = %v, want (20,0)", s.Camera().Pan())
	}
}

func TestCycleFocus(t *testing.T) {
	s := newTestScene()

	if got := s.CycleFocus(1); got != "sun" {
		t.Errorf("first forward = %q, want sun", got)
	}
	if got := s.CycleFocus(1); got != "mercury" {
		t.Errorf("second forward = %q, want mercury", got)
	}
	if got := s.CycleFocus(-2); got != "neptune" {
		t.Errorf("wrap backward = %q, want neptune", got)
	}

	s.ClearSelection()
	if got := s.CycleFocus(-1); got != "neptune" {
		t.Errorf("backward from none = %q, want neptune", got)
	}
}

func TestSelectUnknown(t *testing.T) {
	s := newTestScene()
	if s.Select("pluto") {
		t.Error("unknown body selected")
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection should stay empty")
	}
}

func TestSnapshotFocusCentres(t *testing.T) {
	s := newTestScene()
	s.Select("jupiter")
	img := s.Snapshot(123.4, 160, 100)
	if img == nil {
		t.Fatal("nil snapshot")
	}
	for _, l := range s.Labels() {
		if l.ID != "jupiter" {
			continue
		}
		if math.Abs(l.X-80) > 1e-9 || math.Abs(l.Y-50) > 1e-9 {
			t.Errorf("jupiter label at (%g,%g), want centre", l.X, l.Y)
		}
		if l.Radius != 22 {
			t.Errorf("label radius = %g, want 22", l.Radius)
		}
		return
	}
	t.Error("no label for jupiter")
}

func TestResetView(t *testing.T) {
	s := newTestScene()
	s.Select("saturn")
	s.Camera().SetZoom(3)
	tok, _, _ := s.BeginFact()

	s.ResetView()
	if s.Camera().Zoom() != 1 || s.Camera().Focus() != "" {
		t.Errorf("zoom %g focus %q after reset", s.Camera().Zoom(), s.Camera().Focus())
	}
	if s.ResolveFact(tok, "late") {
		t.Error("fact accepted after reset")
	}
}
