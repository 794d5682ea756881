package window

import "testing"

func TestCursorTrackerIgnoresMovementWhenReleased(t *testing.T) {
	var c cursorTracker
	if _, _, ok := c.move(10, 10); ok {
		t.Fatal("released cursor should not report deltas")
	}
}

func TestCursorTrackerPrimesAfterCapture(t *testing.T) {
	var c cursorTracker
	c.capture(true)

	if _, _, ok := c.move(100, 50); ok {
		t.Fatal("first position after capture should only prime the tracker")
	}
	dx, dy, ok := c.move(103, 46)
	if !ok || dx != 3 || dy != -4 {
		t.Fatalf("delta: got (%v, %v, %v), want (3, -4, true)", dx, dy, ok)
	}
	if _, _, ok := c.move(103, 46); ok {
		t.Fatal("a zero delta should not be reported")
	}

	c.capture(false)
	c.capture(true)
	if _, _, ok := c.move(500, 500); ok {
		t.Fatal("recapture should prime again instead of jumping")
	}
}

func TestEngineWindowForwardsLookDeltas(t *testing.T) {
	w := &engineWindow{}
	var gotX, gotY float32
	calls := 0
	w.SetLookCallback(func(dx, dy float32) {
		gotX, gotY = dx, dy
		calls++
	})

	w.cursorMoved(5, 5)
	w.cursor.capture(true)
	w.cursorMoved(5, 5)
	w.cursorMoved(7, 8)
	if calls != 1 || gotX != 2 || gotY != 3 {
		t.Fatalf("look callback: %d calls with (%v, %v), want 1 call with (2, 3)", calls, gotX, gotY)
	}
	if !w.Captured() {
		t.Fatal("window should report the cursor as captured")
	}
}
