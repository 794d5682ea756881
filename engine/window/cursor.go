package window

// cursorTracker turns absolute cursor positions into deltas while the cursor is captured.
// The first position after a capture only primes the tracker, so capturing never produces a jump.
type cursorTracker struct {
	captured bool
	primed   bool
	lastX    float64
	lastY    float64
}

// capture starts or stops delta tracking.
func (c *cursorTracker) capture(on bool) {
	c.captured = on
	c.primed = false
}

// move records a cursor position.
//
// Parameters:
//   - x, y: the cursor position in screen pixels
//
// Returns:
//   - float32, float32: the delta since the previous position
//   - bool: false when not captured or when this position only primed the tracker
func (c *cursorTracker) move(x, y float64) (float32, float32, bool) {
	if !c.captured {
		return 0, 0, false
	}
	if !c.primed {
		c.lastX, c.lastY = x, y
		c.primed = true
		return 0, 0, false
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}
	return float32(dx), float32(dy), true
}
