package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/facts"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestModel(src facts.Source) Model {
	opts := scene.DefaultOptions()
	opts.Render = render.Options{}
	sc := scene.New(bodies.Default(), opts)
	return New(context.Background(), sc, src, Options{View: config.DefaultView()})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	um, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return um, cmd
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// sized returns a model that has seen a window size and one frame.
func sized(t *testing.T, src facts.Source) Model {
	m := newTestModel(src)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, FrameMsg(testStart))
	return m
}

func TestModelViewBeforeSize(t *testing.T) {
	m := newTestModel(nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestModelTooSmall(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 8})
	if !strings.Contains(m.View(), "too small") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestModelLayout(t *testing.T) {
	m := sized(t, nil)

	cols, rows := m.orrery.Size()
	if cols != 100 || rows != 37 {
		t.Errorf("canvas = %dx%d, want 100x37", cols, rows)
	}
	if w, h := m.orrery.RasterSize(); w != 800 || h != 592 {
		t.Errorf("raster = %dx%d, want 800x592", w, h)
	}
	if got := strings.Count(m.View(), "\n") + 1; got != 40 {
		t.Errorf("View() has %d lines, want 40", got)
	}

	// the info panel takes columns from the canvas
	m, _ = update(t, m, key('k'))
	if cols, _ := m.orrery.Size(); cols != 100-InfoPanelWidth {
		t.Errorf("canvas cols with panel = %d, want %d", cols, 100-InfoPanelWidth)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cols, _ := m.orrery.Size(); cols != 100 {
		t.Errorf("canvas cols after esc = %d, want 100", cols)
	}
}

func TestModelFrameTicks(t *testing.T) {
	m := sized(t, nil)
	m, cmd := update(t, m, FrameMsg(testStart.Add(50*time.Millisecond)))
	if cmd == nil {
		t.Error("frame should schedule the next frame")
	}
	if got := m.Scene().Clock().Time(); got < 0.049 || got > 0.051 {
		t.Errorf("sim time = %g, want 0.05", got)
	}
	if m.Scene().Frame().Bounds().Dx() != 800 {
		t.Errorf("frame width = %d, want 800", m.Scene().Frame().Bounds().Dx())
	}
}

func TestModelKeys(t *testing.T) {
	m := sized(t, nil)
	sc := m.Scene()

	m, _ = update(t, m, key('+'))
	if got := sc.Camera().Zoom(); got < 1.19 || got > 1.21 {
		t.Errorf("zoom after + = %g, want 1.2", got)
	}
	m, _ = update(t, m, key(']'))
	if sc.Clock().Speed() != 1.5 {
		t.Errorf("speed after ] = %g, want 1.5", sc.Clock().Speed())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !sc.Clock().Paused() {
		t.Error("space should pause")
	}
	m, _ = update(t, m, key('o'))
	if sc.Renderer().Options().ShowOrbits {
		t.Error("o should toggle orbits")
	}
	m, _ = update(t, m, key('l'))
	if m.orrery.LabelMode() != LabelNone {
		t.Errorf("label mode after l = %v, want off", m.orrery.LabelMode())
	}
	m, _ = update(t, m, key('j'))
	if sc.Camera().Focus() != "neptune" {
		t.Errorf("focus after j = %q, want neptune", sc.Camera().Focus())
	}
	m, _ = update(t, m, key('r'))
	if sc.Camera().Focus() != "" || sc.Camera().Zoom() != 1 {
		t.Errorf("reset left focus %q zoom %g", sc.Camera().Focus(), sc.Camera().Zoom())
	}

	_, cmd := update(t, m, key('q'))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelClickSelectsSun(t *testing.T) {
	m := sized(t, nil)

	// the sun is drawn at raster (400,296): cell (50,18), screen row 19
	press := tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	release := tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, press)
	m, _ = update(t, m, release)

	if got := m.Scene().Camera().Focus(); got != "sun" {
		t.Errorf("focus = %q, want sun", got)
	}
	if !strings.Contains(m.View(), "Sun") {
		t.Error("info panel should name the sun")
	}
}

func TestModelDragPans(t *testing.T) {
	m := sized(t, nil)

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if got := m.Scene().Camera().Pan(); got.X != 16 || got.Y != 0 {
		t.Errorf("pan = %v, want (16,0)", got)
	}
}

func TestModelBlurCancelsGesture(t *testing.T) {
	m := sized(t, nil)

	m, _ = update(t, m, tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.BlurMsg{})
	m, _ = update(t, m, tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if got := m.Scene().Camera().Focus(); got != "" {
		t.Errorf("focus = %q after blur, want none", got)
	}
}

func TestModelWheel(t *testing.T) {
	m := sized(t, nil)
	m, _ = update(t, m, tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := m.Scene().Camera().Zoom(); got != 0.9 {
		t.Errorf("zoom after wheel down = %g, want 0.9", got)
	}
}

// countingGenerator counts how often the model is asked.
type countingGenerator struct {
	calls *int
	text  string
}

func (g countingGenerator) Generate(_ context.Context, _ string) (string, error) {
	*g.calls++
	return g.text, nil
}

func TestModelFactFlow(t *testing.T) {
	src := facts.NewService(facts.Static{Text: "The Sun is a star."})
	m := sized(t, src)

	_, cmd := update(t, m, key('f'))
	if cmd != nil {
		t.Fatal("fact requested without a selection")
	}

	m, cmd = update(t, m, key('k'))
	if cmd != nil {
		t.Fatal("selecting a body should not ask for a fact")
	}
	if !strings.Contains(m.View(), "[f] ask for a fact") {
		t.Error("idle panel should offer the f key")
	}

	m, cmd = update(t, m, key('f'))
	if cmd == nil {
		t.Fatal("no fact command")
	}
	if m.Scene().Facts().State() != facts.StatePending {
		t.Errorf("state = %v, want pending", m.Scene().Facts().State())
	}
	if _, again := update(t, m, key('f')); again != nil {
		t.Error("second request while one is pending")
	}

	m, _ = update(t, m, cmd())
	tracker := m.Scene().Facts()
	if tracker.State() != facts.StateReady || tracker.Text() != "The Sun is a star." {
		t.Errorf("state %v text %q", tracker.State(), tracker.Text())
	}
	if !strings.Contains(m.View(), "Space fact") {
		t.Error("fact not shown in panel")
	}

	if _, cmd = update(t, m, key('f')); cmd == nil {
		t.Error("f should ask again once the fact is shown")
	}
}

func TestModelSelectionDoesNotAsk(t *testing.T) {
	calls := 0
	m := sized(t, facts.NewService(countingGenerator{calls: &calls, text: "x"}))

	for i := 0; i < 5; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, key('k'))
		if cmd != nil {
			t.Fatalf("focus change %d issued a command", i+1)
		}
	}
	m, _ = update(t, m, tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd != nil {
		t.Error("click selection issued a command")
	}

	if calls != 0 {
		t.Errorf("generator called %d times without f", calls)
	}
	if got := m.Scene().Facts().State(); got != facts.StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestModelStaleFactDropped(t *testing.T) {
	src := facts.NewService(facts.Static{Text: "late"})
	m := sized(t, src)

	m, _ = update(t, m, key('k'))
	m, first := update(t, m, key('f'))
	m, _ = update(t, m, key('k'))
	m, second := update(t, m, key('f'))
	if first == nil || second == nil {
		t.Fatal("f should ask for each selection")
	}

	m, _ = update(t, m, first())
	if got := m.Scene().Facts().State(); got != facts.StatePending {
		t.Errorf("state after stale reply = %v, want pending", got)
	}

	m, _ = update(t, m, second())
	if got := m.Scene().Facts().State(); got != facts.StateReady {
		t.Errorf("state = %v, want ready", got)
	}
}

func TestModelClickThenAsk(t *testing.T) {
	m := sized(t, facts.NewService(facts.Static{Text: "hot"}))

	m, _ = update(t, m, tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 50, Y: 19, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, key('f'))
	if cmd == nil {
		t.Fatal("f after a click should ask for a fact")
	}
	m, _ = update(t, m, cmd())
	if got := m.Scene().Facts().Text(); got != "hot" {
		t.Errorf("fact = %q, want hot", got)
	}
}
