package chunk

import (
	"testing"
	"time"
)

func TestBuilderMeshesSubmittedChunks(t *testing.T) {
	b := NewBuilder(WithWorkers(2), WithQueueSize(8))
	defer b.Stop()

	chunks := []Chunk{
		NewChunk(Coord{0, 0, 0}),
		NewChunk(Coord{1, 0, 0}),
		NewChunk(Coord{2, 0, 0}),
	}
	for i, c := range chunks {
		for j := 0; j <= i; j++ {
			_ = c.Set(uint32(j)*2, 0, 0, 1)
		}
		if !b.Submit(c) {
			t.Fatalf("Submit %v: not queued", c.Coord())
		}
	}
	b.Wait()

	got := make(map[Coord]int)
	for _, r := range b.Drain() {
		got[r.Coord] = len(r.Mesh.Indices) / 36
	}
	for i, c := range chunks {
		if got[c.Coord()] != i+1 {
			t.Errorf("%v: got %d cubes, want %d", c.Coord(), got[c.Coord()], i+1)
		}
	}
}

func TestBuilderSkipsQueuedVersion(t *testing.T) {
	b := NewBuilder(WithWorkers(1), WithQueueSize(4))
	defer b.Stop()

	c := NewChunk(Coord{})
	_ = c.Set(0, 0, 0, 1)
	if !b.Submit(c) {
		t.Fatal("first Submit: not queued")
	}
	if b.Submit(c) {
		t.Fatal("second Submit of the same version was queued")
	}
	b.Wait()
	if n := len(b.Drain()); n != 1 {
		t.Fatalf("results: got %d, want 1", n)
	}
	if !b.Submit(c) {
		t.Fatal("Submit after drain: not queued")
	}
	b.Wait()
	b.Drain()
}

func TestBuilderSnapshotIsolation(t *testing.T) {
	b := NewBuilder(WithWorkers(1), WithQueueSize(4))
	defer b.Stop()

	c := NewChunk(Coord{})
	_ = c.Set(0, 0, 0, 1)
	b.Submit(c)
	_ = c.Set(3, 3, 3, 1)
	b.Wait()

	results := b.Drain()
	if len(results) != 1 {
		t.Fatalf("results: got %d, want 1", len(results))
	}
	if cubes := len(results[0].Mesh.Indices) / 36; cubes != 1 {
		t.Fatalf("mesh reflects a later edit: got %d cubes, want 1", cubes)
	}
}

func TestBuilderStopRejectsSubmit(t *testing.T) {
	b := NewBuilder(WithWorkers(1))
	b.Stop()
	if b.Submit(NewChunk(Coord{})) {
		t.Fatal("Submit after Stop was queued")
	}
}

func TestBuilderSubmitBeyondQueueSizeWithoutDrain(t *testing.T) {
	b := NewBuilder(WithWorkers(1), WithQueueSize(2))
	defer b.Stop()

	const n = 10
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range n {
			c := NewChunk(Coord{X: int32(i)})
			_ = c.Set(0, 0, 0, 1)
			if !b.Submit(c) {
				t.Errorf("Submit %d: not queued", i)
			}
		}
		b.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("%d submits with queue size 2 did not complete without a Drain", n)
	}

	results := b.Drain()
	if len(results) != n {
		t.Fatalf("results: got %d, want %d", len(results), n)
	}
	seen := make(map[Coord]bool)
	for _, r := range results {
		seen[r.Coord] = true
	}
	if len(seen) != n {
		t.Fatalf("distinct coords: got %d, want %d", len(seen), n)
	}
}

func TestBuilderDeliversLatestVersion(t *testing.T) {
	b := NewBuilder(WithWorkers(1), WithQueueSize(1))
	defer b.Stop()

	chunks := make([]Chunk, 6)
	for i := range chunks {
		chunks[i] = NewChunk(Coord{Z: int32(i)})
		_ = chunks[i].Set(0, 0, 0, 1)
		b.Submit(chunks[i])
	}
	last := chunks[len(chunks)-1]
	_ = last.Set(2, 2, 2, 1)
	if !b.Submit(last) {
		t.Fatal("Submit of an edited chunk: not accepted")
	}
	b.Wait()

	var newest BuildResult
	for _, r := range b.Drain() {
		if r.Coord == last.Coord() && r.Version >= newest.Version {
			newest = r
		}
	}
	if newest.Version != last.Version() {
		t.Fatalf("version: got %d, want %d", newest.Version, last.Version())
	}
	if cubes := len(newest.Mesh.Indices) / 36; cubes != 2 {
		t.Fatalf("cubes: got %d, want 2", cubes)
	}

	if !b.Submit(last) {
		t.Fatal("Submit after the result was drained: not queued")
	}
	b.Wait()
	b.Drain()
}
