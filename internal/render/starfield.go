package render

import "math"

// StarCount is the number of background stars.
const StarCount = 150

// BackgroundStar returns the position and radius of background star i on a
// width x height surface. Positions depend only on i and the surface size.
func BackgroundStar(i, width, height int) (x, y, size float64) {
	fi := float64(i)
	x = wrap(math.Sin(fi*123.45)*10000, float64(width))
	y = wrap(math.Cos(fi*678.90)*10000, float64(height))
	size = (math.Sin(fi*32.1) + 1.5) * 0.8
	return x, y, size
}

// Twinkle returns the opacity of background star i at wall-clock time
// seconds.
func Twinkle(i int, seconds float64) float64 {
	return math.Sin(seconds*2+float64(i))*0.3 + 0.7
}

// wrap returns v modulo m in [0, m).
func wrap(v, m float64) float64 {
	if m <= 0 {
		return 0
	}
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}
