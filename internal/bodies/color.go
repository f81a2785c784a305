package bodies

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#RRGGBB", "#RGB", "rgb(r, g, b)" or "rgba(r, g, b, a)".
// Channels of the functional forms are 0-255, alpha is 0-1. The returned
// opacity is 1 for colours without alpha.
func ParseColor(s string) (colorful.Color, float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("parse colour %q: %w", s, err)
		}
		return c, 1, nil
	}

	var args string
	var want int
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args, want = s[len("rgba("):len(s)-1], 4
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args, want = s[len("rgb("):len(s)-1], 3
	default:
		return colorful.Color{}, 0, fmt.Errorf("parse colour %q: unsupported format", s)
	}

	parts := strings.Split(args, ",")
	if len(parts) != want {
		return colorful.Color{}, 0, fmt.Errorf("parse colour %q: want %d components, got %d", s, want, len(parts))
	}
	vals := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("parse colour %q: %w", s, err)
		}
		vals[i] = v
	}

	c := colorful.Color{R: vals[0] / 255, G: vals[1] / 255, B: vals[2] / 255}.Clamped()
	alpha := 1.0
	if want == 4 {
		alpha = clamp01(vals[3])
	}
	return c, alpha, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
