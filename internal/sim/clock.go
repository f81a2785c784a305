// Package sim advances simulation time from wall-clock frame deltas.
package sim

import (
	"math"
	"time"
)

const (
	MinSpeed     = 0.0
	MaxSpeed     = 10.0
	SpeedStep    = 0.5
	DefaultSpeed = 1.0

	// MaxFrameDelta caps a single frame's wall-clock delta so a resumed or
	// stalled process does not teleport the bodies along their orbits.
	MaxFrameDelta = 100 * time.Millisecond
)

// Status describes the clock for display.
type Status int

const (
	StatusRunning Status = iota
	StatusStopped        // running with zero speed
	StatusPaused
)

// String returns the status label.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Clock accumulates simulation seconds.
type Clock struct {
	time   float64
	speed  float64
	paused bool
}

// NewClock creates a running clock at time zero.
func NewClock(speed float64) *Clock {
	c := &Clock{}
	c.SetSpeed(speed)
	return c
}

// Advance moves simulation time forward by dt scaled by the speed
// multiplier and returns the new time. Nothing happens while paused.
func (c *Clock) Advance(dt time.Duration) float64 {
	if c.paused {
		return c.time
	}
	if dt < 0 {
		dt = 0
	} else if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	c.time += dt.Seconds() * c.speed
	return c.time
}

// Time returns the accumulated simulation seconds.
func (c *Clock) Time() float64 {
	return c.time
}

// SetTime jumps to t.
func (c *Clock) SetTime(t float64) {
	c.time = t
}

// Speed returns the speed multiplier.
func (c *Clock) Speed() float64 {
	return c.speed
}

// SetSpeed sets the multiplier, clamped to [MinSpeed, MaxSpeed], and
// returns the value applied.
func (c *Clock) SetSpeed(v float64) float64 {
	c.speed = ClampSpeed(v)
	return c.speed
}

// ClampSpeed limits v to [MinSpeed, MaxSpeed]; NaN becomes DefaultSpeed.
func ClampSpeed(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultSpeed
	case v < MinSpeed:
		return MinSpeed
	case v > MaxSpeed:
		return MaxSpeed
	}
	return v
}

// StepSpeed changes the multiplier by the given number of slider steps.
func (c *Clock) StepSpeed(steps int) float64 {
	return c.SetSpeed(c.speed + float64(steps)*SpeedStep)
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool {
	return c.paused
}

// SetPaused pauses or resumes the clock.
func (c *Clock) SetPaused(p bool) {
	c.paused = p
}

// TogglePause flips the pause flag and returns the new value.
func (c *Clock) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}

// Status reports paused, stopped (zero speed) or running.
func (c *Clock) Status() Status {
	switch {
	case c.paused:
		return StatusPaused
	case c.speed == 0:
		return StatusStopped
	default:
		return StatusRunning
	}
}
