package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Facts.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Facts.Model)
	}
	if cfg.Facts.Timeout != 20*time.Second || cfg.Facts.CacheTTL != 10*time.Minute {
		t.Errorf("Timeout = %v CacheTTL = %v", cfg.Facts.Timeout, cfg.Facts.CacheTTL)
	}
	if cfg.Facts.Rate != 0.5 || cfg.Facts.Burst != 3 {
		t.Errorf("Rate = %g Burst = %d", cfg.Facts.Rate, cfg.Facts.Burst)
	}
	if cfg.Facts.Key() != "" {
		t.Errorf("Key() = %q, want empty", cfg.Facts.Key())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.View != DefaultView() {
		t.Errorf("View = %+v, want defaults", cfg.View)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"GEMINI_API_KEY":           "gem",
		"API_KEY":                  "legacy",
		"LS_ORRERY_FACT_MODEL":     "other-model",
		"LS_ORRERY_FACT_TIMEOUT":   "3s",
		"LS_ORRERY_METRICS_ADDR":   ":9090",
		"LS_ORRERY_FACT_CACHE_TTL": "0s",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Facts.Key() != "gem" {
		t.Errorf("Key() = %q, want gem", cfg.Facts.Key())
	}
	if cfg.Facts.Model != "other-model" || cfg.Facts.Timeout != 3*time.Second {
		t.Errorf("Facts = %+v", cfg.Facts)
	}
	if cfg.Facts.CacheTTL != 0 {
		t.Errorf("CacheTTL = %v, want 0", cfg.Facts.CacheTTL)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
}

func TestKeyPrecedence(t *testing.T) {
	f := Facts{APIKey: " own ", GeminiAPIKey: "gem", LegacyAPIKey: "legacy"}
	if f.Key() != "own" {
		t.Errorf("Key() = %q, want own", f.Key())
	}
	f.APIKey = ""
	f.GeminiAPIKey = "  "
	if f.Key() != "legacy" {
		t.Errorf("Key() = %q, want legacy", f.Key())
	}
}

func TestLoadFromError(t *testing.T) {
	_, err := LoadFrom(map[string]string{"LS_ORRERY_FACT_TIMEOUT": "soon"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("error = %v, want parse env prefix", err)
	}
}

func TestViewValidate(t *testing.T) {
	tests := []struct {
		name string
		in   View
		want View
	}{
		{
			name: "defaults unchanged",
			in:   DefaultView(),
			want: DefaultView(),
		},
		{
			name: "clamped",
			in:   View{FPS: 500, Zoom: 50, Speed: -1, PixelWidth: 0, PixelHeight: 7},
			want: View{FPS: MaxFPS, Zoom: 5, Speed: 0, PixelWidth: 1, PixelHeight: 8},
		},
		{
			name: "lower bounds",
			in:   View{FPS: 0, Zoom: 0, Speed: 11, PixelWidth: 99, PixelHeight: 0},
			want: View{FPS: MinFPS, Zoom: 0.1, Speed: 10, PixelWidth: MaxPixelsPerCell, PixelHeight: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Validate(); got != tt.want {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	v := DefaultView()
	if got := v.FrameInterval(); got != time.Second/30 {
		t.Errorf("FrameInterval() = %v", got)
	}
	v.FPS = 0
	if got := v.FrameInterval(); got != time.Second {
		t.Errorf("FrameInterval() at 0 fps = %v, want 1s", got)
	}
}
