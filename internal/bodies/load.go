package bodies

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed solar_system.yaml
var solarSystemYAML []byte

// Defaults for optional attributes that are missing or unparseable.
var (
	DefaultRingColor = colorful.Color{R: 1, G: 1, B: 1}
)

const (
	// DefaultRingScale is the outer ring radius as a multiple of the body
	// radius when the table omits it.
	DefaultRingScale = 1.8
)

// record is one entry of the YAML body table.
type record struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Type          string   `yaml:"type"`
	Color         string   `yaml:"color"`
	Size          float64  `yaml:"size"`
	Distance      float64  `yaml:"distance"`
	Speed         float64  `yaml:"speed"`
	TextureColors []string `yaml:"texture_colors"`
	HasRings      bool     `yaml:"has_rings"`
	RingColor     string   `yaml:"ring_color"`
	RingSize      float64  `yaml:"ring_size"`
}

type table struct {
	Bodies []record `yaml:"bodies"`
}

// Default returns the built-in solar system table.
func Default() *Registry {
	r, err := Parse(solarSystemYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in body table: %v", err))
	}
	return r
}

// Load reads a YAML body table.
func Load(rd io.Reader) (*Registry, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read body table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML body table. Broken optional attributes fall back to
// defaults and are reported through Registry.Warnings.
func Parse(data []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode body table: %w", err)
	}
	if len(t.Bodies) == 0 {
		return nil, fmt.Errorf("body table is empty")
	}

	var warnings []string
	list := make([]Body, 0, len(t.Bodies))
	for _, rec := range t.Bodies {
		b, w, err := rec.body()
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
		list = append(list, b)
	}

	reg, err := NewRegistry(list)
	if err != nil {
		return nil, err
	}
	reg.warnings = warnings
	return reg, nil
}

func (rec record) body() (Body, []string, error) {
	var warnings []string

	kind, err := ParseKind(rec.Type)
	if err != nil {
		return Body{}, nil, fmt.Errorf("body %q: %w", rec.ID, err)
	}
	base, _, err := ParseColor(rec.Color)
	if err != nil {
		return Body{}, nil, fmt.Errorf("body %q: %w", rec.ID, err)
	}

	name := rec.Name
	if name == "" {
		name = rec.ID
	}

	var palette []colorful.Color
	for _, s := range rec.TextureColors {
		c, _, err := ParseColor(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("body %q: texture colour skipped: %v", rec.ID, err))
			continue
		}
		palette = append(palette, c)
	}

	b := Body{
		ID:            rec.ID,
		Name:          name,
		Description:   rec.Description,
		Kind:          kind,
		Color:         base,
		Radius:        rec.Size,
		OrbitDistance: rec.Distance,
		AngularSpeed:  rec.Speed,
		Palette:       palette,
	}

	if rec.HasRings {
		ring := &Ring{Color: DefaultRingColor, Opacity: 1, OuterRadius: rec.RingSize}
		if rec.RingColor == "" {
			warnings = append(warnings, fmt.Sprintf("body %q: ring colour missing, using default", rec.ID))
		} else if c, a, err := ParseColor(rec.RingColor); err != nil {
			warnings = append(warnings, fmt.Sprintf("body %q: ring colour ignored: %v", rec.ID, err))
		} else {
			ring.Color, ring.Opacity = c, a
		}
		if ring.OuterRadius <= rec.Size {
			warnings = append(warnings, fmt.Sprintf("body %q: ring size %g not outside body, using default", rec.ID, rec.RingSize))
			ring.OuterRadius = rec.Size * DefaultRingScale
		}
		b.Ring = ring
	}

	b.Surface = resolveSurface(kind, base, palette)
	return b, warnings, nil
}
