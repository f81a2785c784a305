package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/orbit"
)

func newBodiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bodies",
		Short: "List the bodies of the loaded table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			log, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			reg, err := loadRegistry(cfg.BodiesFile, log.Named("bodies"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bodyTable(reg))
			return nil
		},
	}
}

func bodyTable(reg *bodies.Registry) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "NAME", "KIND", "SIZE", "DISTANCE", "PERIOD", "SURFACE")

	for _, b := range reg.All() {
		period := "-"
		if p := orbit.Period(b); p > 0 {
			period = fmt.Sprintf("%.1fs", p)
		}
		t.Row(
			b.ID,
			b.Name,
			b.Kind.String(),
			fmt.Sprintf("%g", b.Radius),
			fmt.Sprintf("%g", b.OrbitDistance),
			period,
			surfaceName(b),
		)
	}
	return t.Render()
}

func surfaceName(b bodies.Body) string {
	var name string
	switch b.Surface.(type) {
	case bodies.StarSurface:
		name = "star"
	case bodies.BandedSurface:
		name = "banded"
	case bodies.HomeWorldSurface:
		name = "home world"
	default:
		name = "flat"
	}
	if b.Ring != nil {
		name += ", ringed"
	}
	return name
}
