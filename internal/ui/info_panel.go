package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/facts"
)

// InfoPanelWidth is the panel width in cells, border included.
const InfoPanelWidth = 36

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderInfoPanel renders the details of the selected body:
//
//	● Mars
//	The fourth planet, known as ...
//
//	Distance  170 AU    Speed  0.53x
//	Period    11.9s
//	─────────────────────────────
//	[f] ask for a fact
func RenderInfoPanel(b bodies.Body, period float64, tracker *facts.Tracker, animTick, height int) string {
	inner := InfoPanelWidth - 4

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	swatchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color.Hex()))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(inner)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	factStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("189")).Italic(true).Width(inner)
	factHeader := lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)

	var lines []string
	lines = append(lines, swatchStyle.Render("●")+" "+titleStyle.Render(b.Name))
	if b.Description != "" {
		lines = append(lines, textStyle.Render(b.Description))
	}

	if !b.IsStar() {
		lines = append(lines, "",
			labelStyle.Render("Distance ")+valueStyle.Render(fmt.Sprintf("%g AU", b.OrbitDistance))+
				"  "+labelStyle.Render("Speed ")+valueStyle.Render(fmt.Sprintf("%gx", b.AngularSpeed)))
		if period > 0 {
			lines = append(lines, labelStyle.Render("Period   ")+valueStyle.Render(fmt.Sprintf("%.1fs", period)))
		}
	}

	lines = append(lines, dimStyle.Render(strings.Repeat("─", inner)))
	switch tracker.State() {
	case facts.StatePending:
		spinner := spinnerFrames[animTick%len(spinnerFrames)]
		lines = append(lines, accentStyle.Render(spinner)+" "+dimStyle.Render("Contacting the cosmos..."))
	case facts.StateReady:
		lines = append(lines, factHeader.Render("✦ Space fact"), factStyle.Render("“"+tracker.Text()+"”"))
	default:
		lines = append(lines, dimStyle.Render("[f] ask for a fact  [esc] close"))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1).
		Width(InfoPanelWidth - 2)
	if height > 2 {
		panel = panel.Height(height - 2).MaxHeight(height)
	}
	return panel.Render(strings.Join(lines, "\n"))
}
