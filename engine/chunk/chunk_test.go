package chunk

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestChunkSetAndBlock(t *testing.T) {
	c := NewChunk(Coord{1, 0, -1})
	if err := c.Set(2, 3, 4, 9); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok := c.Block(2, 3, 4)
	if !ok {
		t.Fatal("Block: expected a block at (2, 3, 4)")
	}
	if x, y, z := b.Position(); x != 2 || y != 3 || z != 4 {
		t.Fatalf("position: got (%d, %d, %d), want (2, 3, 4)", x, y, z)
	}
	if b.ID() != 9 {
		t.Fatalf("id: got %d, want 9", b.ID())
	}
	if c.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", c.Len())
	}

	c.Remove(2, 3, 4)
	if _, ok := c.Block(2, 3, 4); ok {
		t.Fatal("Remove: block still present")
	}
	if c.Len() != 0 {
		t.Fatalf("Len after remove: got %d, want 0", c.Len())
	}
}

func TestChunkSetOutOfRange(t *testing.T) {
	c := NewChunk(Coord{})
	err := c.Set(CellsPerAxis, 0, 0, 1)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Set(%d, 0, 0): got %v, want ErrOutOfRange", CellsPerAxis, err)
	}
	if c.Version() != 0 {
		t.Fatalf("failed Set bumped the version to %d", c.Version())
	}
}

func TestChunkVersionOnlyChangesOnEdits(t *testing.T) {
	c := NewChunk(Coord{})
	_ = c.Set(0, 0, 0, 1)
	v := c.Version()
	_ = c.Set(0, 0, 0, 1)
	if c.Version() != v {
		t.Fatalf("rewriting the same id changed the version: %d -> %d", v, c.Version())
	}
	_ = c.Set(0, 0, 0, 2)
	if c.Version() == v {
		t.Fatal("changing the id did not change the version")
	}
}

func TestChunkWithFill(t *testing.T) {
	c := NewChunk(Coord{}, WithFill(3))
	if c.Len() != CellsPerAxis*CellsPerAxis*CellsPerAxis {
		t.Fatalf("Len: got %d, want %d", c.Len(), CellsPerAxis*CellsPerAxis*CellsPerAxis)
	}
	for _, b := range c.Blocks() {
		if b.ID() != 3 {
			t.Fatalf("block id: got %d, want 3", b.ID())
		}
	}
}

func TestChunkPositionAndAABB(t *testing.T) {
	c := NewChunk(Coord{2, -1, 0})
	if got, want := c.Position(), (mgl32.Vec3{14, -7, 0}); got != want {
		t.Fatalf("Position: got %v, want %v", got, want)
	}
	box := c.AABB()
	if want := (mgl32.Vec3{7, -3.5, 0}); box.Min != want {
		t.Fatalf("AABB.Min: got %v, want %v", box.Min, want)
	}
	if want := (mgl32.Vec3{10.5, 0, 3.5}); box.Max != want {
		t.Fatalf("AABB.Max: got %v, want %v", box.Max, want)
	}
}

func TestChunkUniform(t *testing.T) {
	u := NewChunk(Coord{1, 2, 3}).Uniform()
	if u.Size() != 16 {
		t.Fatalf("Size: got %d, want 16", u.Size())
	}
	buf := u.Marshal()
	want := []float32{7, 14, 21, 0}
	for i, w := range want {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != w {
			t.Errorf("float %d: got %v, want %v", i, got, w)
		}
	}
}

func TestChunkProviderLabel(t *testing.T) {
	c := NewChunk(Coord{1, -2, 3})
	if got := c.BindGroupProvider().Label(); got != "chunk_1_-2_3" {
		t.Fatalf("provider label: got %q, want %q", got, "chunk_1_-2_3")
	}
}
