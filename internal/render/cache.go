package render

import "gonum.org/v1/gonum/spatial/r2"

// ScreenPosition is where a body was drawn in the latest frame.
type ScreenPosition struct {
	ID     string
	X, Y   float64
	Radius float64 // display radius, before zoom
}

// Point returns the screen position as a vector.
func (p ScreenPosition) Point() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// PositionCache maps body ids to their screen positions for one frame.
// Entries keep draw order so hit-test ties resolve deterministically.
type PositionCache struct {
	entries []ScreenPosition
	index   map[string]int
}

// Reset empties the cache.
func (c *PositionCache) Reset() {
	c.entries = c.entries[:0]
	for k := range c.index {
		delete(c.index, k)
	}
}

// Set records or replaces a body's position.
func (c *PositionCache) Set(id string, p r2.Vec, radius float64) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	pos := ScreenPosition{ID: id, X: p.X, Y: p.Y, Radius: radius}
	if i, ok := c.index[id]; ok {
		c.entries[i] = pos
		return
	}
	c.index[id] = len(c.entries)
	c.entries = append(c.entries, pos)
}

// Get returns the cached position of a body.
func (c *PositionCache) Get(id string) (ScreenPosition, bool) {
	i, ok := c.index[id]
	if !ok {
		return ScreenPosition{}, false
	}
	return c.entries[i], true
}

// Entries returns the cached positions in draw order. The slice is reused
// by the next frame.
func (c *PositionCache) Entries() []ScreenPosition {
	return c.entries
}

// Len returns the number of cached bodies.
func (c *PositionCache) Len() int {
	return len(c.entries)
}
