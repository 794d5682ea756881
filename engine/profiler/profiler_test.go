package profiler

import (
	"testing"
	"time"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	p := NewProfiler(time.Hour)
	if p.Tick(FrameStats{ChunksDrawn: 3}) {
		t.Fatal("first tick inside the interval should not log")
	}
	if p.Last().ChunksDrawn != 3 {
		t.Fatalf("last stats: got %d chunks, want 3", p.Last().ChunksDrawn)
	}

	p.lastTime = time.Now().Add(-2 * time.Hour)
	if !p.Tick(FrameStats{ChunksDrawn: 4, ChunksCulled: 1}) {
		t.Fatal("tick past the interval should log")
	}
	if p.frameCount != 0 {
		t.Fatalf("frame count after logging: got %d, want 0", p.frameCount)
	}
}

func TestNewProfilerDefaultsInterval(t *testing.T) {
	if p := NewProfiler(0); p.updateInterval != time.Second {
		t.Fatalf("interval: got %v, want 1s", p.updateInterval)
	}
}
