// Package bodies provides the static table of celestial bodies drawn by the orrery.
package bodies

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind selects how a body is shaded.
type Kind int

const (
	KindStar Kind = iota
	KindTerrestrial
	KindGasGiant
	KindIceGiant
)

// String returns the kind name as used in the body table.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindTerrestrial:
		return "terrestrial"
	case KindGasGiant:
		return "gas_giant"
	case KindIceGiant:
		return "ice_giant"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name from the body table.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "star":
		return KindStar, nil
	case "terrestrial":
		return KindTerrestrial, nil
	case "gas_giant":
		return KindGasGiant, nil
	case "ice_giant":
		return KindIceGiant, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q", s)
	}
}

// GasGiantTilt is the fixed axial tilt of gas giant bands, in radians.
const GasGiantTilt = math.Pi * 0.1

// Surface is the texture strategy of a body. The concrete types are
// StarSurface, BandedSurface, HomeWorldSurface and FlatSurface.
type Surface interface {
	surface()
}

// StarSurface is the glowing core of the central star.
type StarSurface struct{}

// BandedSurface draws horizontal cloud bands, top to bottom.
type BandedSurface struct {
	Bands []colorful.Color
	Tilt  float64
}

// HomeWorldSurface is an ocean world with drifting continents and clouds.
type HomeWorldSurface struct {
	Ocean colorful.Color
	Land  colorful.Color
	Cloud colorful.Color
}

// FlatSurface is a single fill colour.
type FlatSurface struct {
	Color colorful.Color
}

func (StarSurface) surface()      {}
func (BandedSurface) surface()    {}
func (HomeWorldSurface) surface() {}
func (FlatSurface) surface()      {}

// Ring is a planetary ring system, drawn flattened around the body.
type Ring struct {
	Color       colorful.Color
	Opacity     float64
	OuterRadius float64
}

// Body is an immutable celestial body record.
type Body struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	Color       colorful.Color

	Radius        float64 // display units
	OrbitDistance float64 // world units from the star
	AngularSpeed  float64 // radians per simulation second

	Palette []colorful.Color
	Surface Surface
	Ring    *Ring
}

// IsStar reports whether b is the central star.
func (b Body) IsStar() bool {
	return b.Kind == KindStar
}

// resolveSurface picks the texture strategy for a body from its kind and palette.
func resolveSurface(kind Kind, base colorful.Color, palette []colorful.Color) Surface {
	switch kind {
	case KindStar:
		return StarSurface{}
	case KindGasGiant:
		if len(palette) > 0 {
			return BandedSurface{Bands: palette, Tilt: GasGiantTilt}
		}
	case KindTerrestrial:
		if len(palette) >= 3 {
			return HomeWorldSurface{Ocean: palette[0], Land: palette[1], Cloud: palette[2]}
		}
	}
	return FlatSurface{Color: base}
}

// Registry is the ordered, validated set of bodies. It is read-only after
// construction.
type Registry struct {
	bodies   []Body
	byID     map[string]int
	star     int
	warnings []string
}

// NewRegistry validates bodies and builds a registry.
// Exactly one star is required and it must sit at the origin.
func NewRegistry(bodies []Body) (*Registry, error) {
	r := &Registry{
		bodies: make([]Body, len(bodies)),
		byID:   make(map[string]int, len(bodies)),
		star:   -1,
	}
	copy(r.bodies, bodies)

	for i, b := range r.bodies {
		if b.ID == "" {
			return nil, fmt.Errorf("body %d: missing id", i)
		}
		if _, dup := r.byID[b.ID]; dup {
			return nil, fmt.Errorf("body %q: duplicate id", b.ID)
		}
		if b.Radius <= 0 {
			return nil, fmt.Errorf("body %q: radius must be positive, got %g", b.ID, b.Radius)
		}
		if b.OrbitDistance < 0 {
			return nil, fmt.Errorf("body %q: orbit distance must not be negative", b.ID)
		}
		if b.IsStar() {
			if r.star >= 0 {
				return nil, fmt.Errorf("body %q: second star (already have %q)", b.ID, r.bodies[r.star].ID)
			}
			if b.OrbitDistance != 0 || b.AngularSpeed != 0 {
				return nil, fmt.Errorf("body %q: star must sit at the origin", b.ID)
			}
			r.star = i
		}
		if b.Surface == nil {
			r.bodies[i].Surface = resolveSurface(b.Kind, b.Color, b.Palette)
		}
		r.byID[b.ID] = i
	}

	if r.star < 0 {
		return nil, fmt.Errorf("no star in body table")
	}
	return r, nil
}

// Star returns the central star.
func (r *Registry) Star() Body {
	return r.bodies[r.star]
}

// Get returns a body by id.
func (r *Registry) Get(id string) (Body, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Body{}, false
	}
	return r.bodies[i], true
}

// All returns every body in table order.
func (r *Registry) All() []Body {
	return r.bodies
}

// Orbiting returns the non-star bodies in table order.
func (r *Registry) Orbiting() []Body {
	out := make([]Body, 0, len(r.bodies)-1)
	for _, b := range r.bodies {
		if !b.IsStar() {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of bodies, star included.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// Index returns the table position of id, or -1.
func (r *Registry) Index(id string) int {
	if i, ok := r.byID[id]; ok {
		return i
	}
	return -1
}

// Warnings lists recoverable problems found while loading the table.
func (r *Registry) Warnings() []string {
	return r.warnings
}
