package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/scene"
)

// LabelMode controls which body names are drawn on the canvas.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every body
)

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	default:
		return "all"
	}
}

var (
	labelColor = colorful.Color{R: 0.78, G: 0.78, B: 0.78}
	focusColor = colorful.Color{R: 1, G: 1, B: 0.69}
)

// OrreryView presents the scene's raster as terminal cells.
type OrreryView struct {
	cols, rows     int
	pixelW, pixelH int
	labelMode      LabelMode
}

// NewOrreryView creates a view with the given raster pixels per cell.
func NewOrreryView(pixelW, pixelH int) OrreryView {
	return OrreryView{
		pixelW:    pixelW,
		pixelH:    pixelH,
		labelMode: LabelAll,
	}
}

// SetSize sets the canvas size in cells.
func (v OrreryView) SetSize(cols, rows int) OrreryView {
	v.cols = max(cols, 0)
	v.rows = max(rows, 0)
	return v
}

// Size returns the canvas size in cells.
func (v OrreryView) Size() (cols, rows int) {
	return v.cols, v.rows
}

// RasterSize returns the render surface size in pixels.
func (v OrreryView) RasterSize() (width, height int) {
	return v.cols * v.pixelW, v.rows * v.pixelH
}

// CellToPixel maps a canvas cell to the raster pixel at its centre.
func (v OrreryView) CellToPixel(col, row int) r2.Vec {
	return r2.Vec{
		X: (float64(col) + 0.5) * float64(v.pixelW),
		Y: (float64(row) + 0.5) * float64(v.pixelH),
	}
}

// PixelToCell maps a raster pixel to the canvas cell containing it.
func (v OrreryView) PixelToCell(p r2.Vec) (col, row int) {
	return floorDiv(p.X, v.pixelW), floorDiv(p.Y, v.pixelH)
}

// Contains reports whether a canvas cell is inside the view.
func (v OrreryView) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < v.cols && row < v.rows
}

// CycleLabels advances the label mode.
func (v OrreryView) CycleLabels() OrreryView {
	v.labelMode = (v.labelMode + 1) % 3
	return v
}

// SetLabelMode sets the label mode.
func (v OrreryView) SetLabelMode(mode LabelMode) OrreryView {
	v.labelMode = mode
	return v
}

// LabelMode returns the label mode.
func (v OrreryView) LabelMode() LabelMode {
	return v.labelMode
}

// View renders the latest frame of sc.
func (v OrreryView) View(sc *scene.Scene) string {
	if v.cols == 0 || v.rows == 0 {
		return ""
	}
	img := sc.Frame()
	if img == nil {
		return strings.TrimRight(strings.Repeat(strings.Repeat(" ", v.cols)+"\n", v.rows), "\n")
	}

	grid := downsample(img, v.cols, v.rows, v.pixelW, v.pixelH)
	v.renderLabels(grid, sc)
	return renderCells(grid)
}

func (v OrreryView) renderLabels(grid [][]cell, sc *scene.Scene) {
	if v.labelMode == LabelNone {
		return
	}
	focus := sc.Camera().Focus()

	for _, l := range sc.Labels() {
		focused := l.ID == focus
		if v.labelMode == LabelFocused && !focused {
			continue
		}

		// right of the disc, on the body's row
		col, row := v.PixelToCell(r2.Vec{X: l.X + l.Radius, Y: l.Y})
		col++
		if !v.Contains(col, row) {
			continue
		}

		text, fg := l.Name, labelColor
		if focused {
			text, fg = "◄ "+l.Name, focusColor
		}
		overlay(grid, col, row, text, fg, focused)
	}
}

// renderHUD renders the one-line camera and clock readout.
func renderHUD(sc *scene.Scene, view OrreryView, showOrbits, showStars bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	var b strings.Builder
	b.WriteString("  ")
	if body, ok := sc.Selected(); ok {
		b.WriteString(headerStyle.Render("◆ " + body.Name))
	} else {
		b.WriteString(headerStyle.Render("☉ free view"))
	}

	clock := sc.Clock()
	item := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(label + ":"))
		b.WriteString(valueStyle.Render(value))
	}
	item("Zoom", fmt.Sprintf("%.2fx", sc.Camera().Zoom()))
	item("Speed", fmt.Sprintf("%.1fx", clock.Speed()))
	item("Time", fmt.Sprintf("%.1fs", clock.Time()))
	item("Clock", clock.Status().String())
	item("Orbits", onOff(showOrbits))
	item("Stars", onOff(showStars))
	item("Labels", view.LabelMode().String())
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func floorDiv(v float64, d int) int {
	if d <= 0 {
		return 0
	}
	q := v / float64(d)
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
