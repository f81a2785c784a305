// Package config gathers runtime settings from flags and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/sim"
)

// View limits.
const (
	MinFPS     = 1
	MaxFPS     = 60
	DefaultFPS = 30

	// Raster pixels per terminal cell. Each cell shows two vertically
	// stacked colours, so the height should be even.
	DefaultPixelWidth  = 8
	DefaultPixelHeight = 16
	MaxPixelsPerCell   = 32
)

// Facts configures the fact generator. Values come from the environment.
type Facts struct {
	APIKey       string        `env:"LS_ORRERY_API_KEY"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	LegacyAPIKey string        `env:"API_KEY"`
	Model        string        `env:"LS_ORRERY_FACT_MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL      string        `env:"LS_ORRERY_FACT_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Timeout      time.Duration `env:"LS_ORRERY_FACT_TIMEOUT" envDefault:"20s"`
	Rate         float64       `env:"LS_ORRERY_FACT_RATE" envDefault:"0.5"`
	Burst        int           `env:"LS_ORRERY_FACT_BURST" envDefault:"3"`
	CacheTTL     time.Duration `env:"LS_ORRERY_FACT_CACHE_TTL" envDefault:"10m"`
}

// Key returns the first API key set, most specific first.
func (f Facts) Key() string {
	for _, k := range []string{f.APIKey, f.GeminiAPIKey, f.LegacyAPIKey} {
		if k = strings.TrimSpace(k); k != "" {
			return k
		}
	}
	return ""
}

// View holds the presentation settings set by flags.
type View struct {
	FPS         int
	Zoom        float64
	Speed       float64
	PixelWidth  int
	PixelHeight int
	ShowOrbits  bool
	ShowStars   bool
	ShowLabels  bool
}

// DefaultView returns the settings used when no flag overrides them.
func DefaultView() View {
	return View{
		FPS:         DefaultFPS,
		Zoom:        camera.DefaultZoom,
		Speed:       sim.DefaultSpeed,
		PixelWidth:  DefaultPixelWidth,
		PixelHeight: DefaultPixelHeight,
		ShowOrbits:  true,
		ShowStars:   true,
		ShowLabels:  true,
	}
}

// Validate clamps out-of-range values and returns the result.
func (v View) Validate() View {
	v.FPS = clampInt(v.FPS, MinFPS, MaxFPS)
	v.Zoom = camera.ClampZoom(v.Zoom)
	v.Speed = sim.ClampSpeed(v.Speed)
	v.PixelWidth = clampInt(v.PixelWidth, 1, MaxPixelsPerCell)
	v.PixelHeight = clampInt(v.PixelHeight, 2, MaxPixelsPerCell)
	if v.PixelHeight%2 != 0 {
		v.PixelHeight++
	}
	return v
}

// FrameInterval returns the render tick period.
func (v View) FrameInterval() time.Duration {
	return time.Second / time.Duration(clampInt(v.FPS, MinFPS, MaxFPS))
}

// Config is the full runtime configuration.
type Config struct {
	View        View
	Facts       Facts
	LogLevel    string `env:"LS_ORRERY_LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LS_ORRERY_LOG_FILE"`
	MetricsAddr string `env:"LS_ORRERY_METRICS_ADDR"`
	BodiesFile  string `env:"LS_ORRERY_BODIES"`
}

// Default returns the configuration before the environment is read.
func Default() Config {
	return Config{View: DefaultView(), LogLevel: "info"}
}

// Load reads the process environment on top of the defaults.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads settings from the given variables instead of the process
// environment.
func LoadFrom(vars map[string]string) (Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
