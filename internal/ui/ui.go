// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/facts"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/version"
)

// Msg types for Bubble Tea
type (
	// FrameMsg triggers rendering of the next frame.
	FrameMsg time.Time

	// AnimTickMsg drives the spinner.
	AnimTickMsg time.Time

	// factMsg carries a fact back to the selection that asked for it.
	factMsg struct {
		token facts.Token
		text  string
	}
)

// Layout rows outside the canvas.
const (
	headerRows = 1
	hudRows    = 1
	footerRows = 1

	minWidth  = 40
	minHeight = 10
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx   context.Context
	scene *scene.Scene
	facts facts.Source
	log   *logging.Logger

	// UI state
	width    int
	height   int
	ready    bool
	animTick int
	interval time.Duration

	orrery OrreryView
}

// Options configures the root model.
type Options struct {
	View   config.View
	Logger *logging.Logger
}

// New creates the root UI model. ctx bounds fact requests.
func New(ctx context.Context, sc *scene.Scene, src facts.Source, opts Options) Model {
	view := opts.View.Validate()
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	orrery := NewOrreryView(view.PixelWidth, view.PixelHeight)
	if !view.ShowLabels {
		orrery = orrery.SetLabelMode(LabelNone)
	}

	return Model{
		ctx:      ctx,
		scene:    sc,
		facts:    src,
		log:      log,
		interval: view.FrameInterval(),
		orrery:   orrery,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.interval),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.BlurMsg:
		m.scene.PointerLeave()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case FrameMsg:
		w, h := m.orrery.RasterSize()
		m.scene.Tick(time.Time(msg), w, h)
		return m, frameCmd(m.interval)

	case AnimTickMsg:
		m.animTick++
		return m, animTickCmd()

	case factMsg:
		if m.scene.ResolveFact(msg.token, msg.text) {
			m.log.Debug("fact for %s ready", msg.token.BodyID)
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	sc := m.scene
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Zoom buttons
	case "+", "=":
		sc.Camera().StepZoom(1)
	case "-", "_":
		sc.Camera().StepZoom(-1)
	case "0", "r":
		sc.ResetView()

	// Speed slider
	case "]":
		sc.Clock().StepSpeed(1)
	case "[":
		sc.Clock().StepSpeed(-1)
	case " ", "space", "p":
		sc.Clock().TogglePause()

	// Layers
	case "o":
		opts := sc.Renderer().Options()
		opts.ShowOrbits = !opts.ShowOrbits
		sc.Renderer().SetOptions(opts)
	case "t":
		opts := sc.Renderer().Options()
		opts.ShowStars = !opts.ShowStars
		sc.Renderer().SetOptions(opts)
	case "l":
		m.orrery = m.orrery.CycleLabels()

	// Focus list
	case "k", "tab":
		sc.CycleFocus(1)
		m.layout()
	case "j", "shift+tab":
		sc.CycleFocus(-1)
		m.layout()
	case "esc":
		sc.ClearSelection()
		m.layout()

	case "f":
		return m, m.requestFact()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X, msg.Y-headerRows
	p := m.orrery.CellToPixel(col, row)
	inside := m.orrery.Contains(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scene.Wheel(-1)
		case tea.MouseButtonWheelDown:
			m.scene.Wheel(1)
		case tea.MouseButtonLeft:
			if inside {
				m.scene.PointerDown(p)
			}
		}
	case tea.MouseActionMotion:
		m.scene.PointerMove(p)
	case tea.MouseActionRelease:
		m.scene.PointerUp(p)
	}
	m.layout()
}

// requestFact starts a fact request for the selection. Only the f key
// asks; a selection change just resets the panel. The response is matched
// against the token when it arrives.
func (m Model) requestFact() tea.Cmd {
	if m.facts == nil || m.scene.Facts().State() == facts.StatePending {
		return nil
	}
	tok, name, ok := m.scene.BeginFact()
	if !ok {
		return nil
	}
	m.log.Debug("asking for a fact about %s (#%d)", name, tok.Seq)
	ctx, src := m.ctx, m.facts
	return func() tea.Msg {
		return factMsg{token: tok, text: src.Fact(ctx, name)}
	}
}

// layout sizes the canvas around the header, HUD, footer and info panel.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	cols := m.width
	if _, ok := m.scene.Selected(); ok && cols-InfoPanelWidth >= minWidth {
		cols -= InfoPanelWidth
	}
	rows := m.height - headerRows - hudRows - footerRows
	m.orrery = m.orrery.SetSize(cols, rows)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < minWidth || m.height < minHeight {
		return "Terminal too small for the orrery"
	}

	content := m.orrery.View(m.scene)
	if b, ok := m.scene.Selected(); ok {
		cols, rows := m.orrery.Size()
		if cols < m.width {
			panel := RenderInfoPanel(b, m.scene.Period(b.ID), m.scene.Facts(), m.animTick, rows)
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	}

	opts := m.scene.Renderer().Options()
	return m.renderHeader() + "\n" +
		content + "\n" +
		renderHUD(m.scene, m.orrery, opts.ShowOrbits, opts.ShowStars) + "\n" +
		m.renderFooter()
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("  ls-orrery v%s", version.Version)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return gradientText(title) + muted.Render("  · interactive solar system")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	help := "wheel: zoom • drag: pan • click: select"
	keys := "j/k: focus | +/-: zoom | [/]: speed | space: pause | f: fact | o: orbits | t: stars | l: labels | esc: close | q: quit"
	line := "  " + accentStyle.Render(help) + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(keys)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// gradientText colours text with a blue to magenta sweep.
func gradientText(text string) string {
	from, _ := colorful.Hex("#3B82F6")
	to, _ := colorful.Hex("#D946EF")

	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendHcl(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true).Render(string(r)))
	}
	return b.String()
}

// Scene returns the scene driven by the model.
func (m Model) Scene() *scene.Scene {
	return m.scene
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
