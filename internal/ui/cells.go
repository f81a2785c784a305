package ui

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock shows the top colour as foreground and the bottom colour as
// background, giving two vertical samples per terminal cell.
const halfBlock = '▀'

// cell is one terminal character of the canvas.
type cell struct {
	top, bottom colorful.Color
	text        rune // overlay character, 0 for a half block
	textColor   colorful.Color
	bold        bool
}

// downsample averages each pixelW x pixelH block of img into a cell: the
// upper half of the block becomes the top colour, the lower half the
// bottom colour.
func downsample(img *image.RGBA, cols, rows, pixelW, pixelH int) [][]cell {
	grid := make([][]cell, rows)
	half := pixelH / 2
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			x0, y0 := x*pixelW, y*pixelH
			grid[y][x] = cell{
				top:    average(img, x0, y0, pixelW, half),
				bottom: average(img, x0, y0+half, pixelW, pixelH-half),
			}
		}
	}
	return grid
}

// average returns the mean colour of a w x h block, clipped to the image.
func average(img *image.RGBA, x0, y0, w, h int) colorful.Color {
	if img == nil {
		return colorful.Color{}
	}
	b := img.Bounds()
	var r, g, bl float64
	n := 0
	for y := y0; y < y0+h && y < b.Max.Y; y++ {
		for x := x0; x < x0+w && x < b.Max.X; x++ {
			p := img.RGBAAt(x, y)
			r += float64(p.R)
			g += float64(p.G)
			bl += float64(p.B)
			n++
		}
	}
	if n == 0 {
		return colorful.Color{}
	}
	d := float64(n) * 255
	return colorful.Color{R: r / d, G: g / d, B: bl / d}
}

// overlay writes text into row y starting at column x. The background of
// each touched cell becomes the blend of its two halves.
func overlay(grid [][]cell, x, y int, text string, fg colorful.Color, bold bool) {
	if y < 0 || y >= len(grid) {
		return
	}
	row := grid[y]
	for _, r := range text {
		if x >= len(row) {
			return
		}
		if x >= 0 {
			c := &row[x]
			mid := c.top.BlendRgb(c.bottom, 0.5)
			c.top, c.bottom = mid, mid
			c.text = r
			c.textColor = fg
			c.bold = bold
		}
		x++
	}
}

// renderCells turns the grid into styled lines. Runs of cells with the same
// colours share one style so large flat areas stay cheap.
func renderCells(grid [][]cell) string {
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle lipgloss.Style
		runKey := ""
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for _, c := range row {
			fg, ch := c.top, halfBlock
			if c.text != 0 {
				fg, ch = c.textColor, c.text
			}
			key := fg.Hex() + c.bottom.Hex()
			if c.bold {
				key += "b"
			}
			if key != runKey {
				flush()
				runKey = key
				runStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color(fg.Hex())).
					Background(lipgloss.Color(c.bottom.Hex())).
					Bold(c.bold)
			}
			run.WriteRune(ch)
		}
		flush()
	}
	return b.String()
}
