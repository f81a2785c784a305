package main

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Snapshot size limits, in pixels.
const (
	defaultSnapshotWidth  = 1200
	defaultSnapshotHeight = 800
	maxSnapshotSide       = 8192
)

var errTerminalOutput = errors.New("refusing to write PNG data to a terminal, use --out or redirect stdout")

type snapshotOptions struct {
	time   float64
	focus  string
	width  int
	height int
	out    string
}

func newSnapshotCmd() *cobra.Command {
	var opts snapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to a PNG file without starting the TUI",
		Example: `  ls-orrery snapshot --time 120 --focus saturn --out saturn.png
  ls-orrery snapshot --zoom 0.4 > system.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if opts.out == "" || opts.out == "-" {
				if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
					return errTerminalOutput
				}
			}
			return runSnapshot(cmd, cfg, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.time, "time", 0, "Simulation time in seconds")
	f.StringVar(&opts.focus, "focus", "", "Body to centre the view on")
	f.IntVar(&opts.width, "width", defaultSnapshotWidth, "Image width in pixels")
	f.IntVar(&opts.height, "height", defaultSnapshotHeight, "Image height in pixels")
	f.StringVarP(&opts.out, "out", "o", "-", "Output file (- for stdout)")
	return cmd
}

func runSnapshot(cmd *cobra.Command, cfg config.Config, opts snapshotOptions) error {
	if opts.width <= 0 || opts.height <= 0 || opts.width > maxSnapshotSide || opts.height > maxSnapshotSide {
		return fmt.Errorf("image size %dx%d out of range (1 to %d)", opts.width, opts.height, maxSnapshotSide)
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

	img, err := renderSnapshot(reg, cfg.View, opts)
	if err != nil {
		return err
	}

	if opts.out == "" || opts.out == "-" {
		return encodePNG(cmd.OutOrStdout(), img)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := encodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	log.Info("wrote %dx%d snapshot to %s", opts.width, opts.height, opts.out)
	return nil
}

func renderSnapshot(reg *bodies.Registry, view config.View, opts snapshotOptions) (image.Image, error) {
	sc := scene.New(reg, sceneOptions(view, nil, nil))
	if opts.focus != "" && !sc.Select(opts.focus) {
		return nil, fmt.Errorf("unknown body %q", opts.focus)
	}
	return sc.Snapshot(opts.time, opts.width, opts.height), nil
}

func encodePNG(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	if err := png.Encode(bw, img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return bw.Flush()
}
