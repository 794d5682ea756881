package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for x := uint32(0); x < AxisSize; x++ {
		for y := uint32(0); y < AxisSize; y++ {
			for z := uint32(0); z < AxisSize; z++ {
				packed := Encode(x, y, z)
				if packed > PositionMask {
					t.Fatalf("Encode(%d,%d,%d) = %#x: exceeds 9 bits", x, y, z, packed)
				}
				gx, gy, gz := Decode(packed)
				if gx != x || gy != y || gz != z {
					t.Fatalf("Decode(Encode(%d,%d,%d)): got (%d,%d,%d)", x, y, z, gx, gy, gz)
				}
			}
		}
	}
}

func TestEncodeBitLayout(t *testing.T) {
	tests := []struct {
		x, y, z uint32
		want    uint32
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1 << 6},
		{0, 1, 0, 1 << 3},
		{0, 0, 1, 1},
		{7, 7, 7, 0x1FF},
		{5, 2, 3, 5<<6 | 2<<3 | 3},
	}
	for _, tt := range tests {
		if got := Encode(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("Encode(%d,%d,%d): got %#x, want %#x", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestEncodeMasksOutOfRangeAxes(t *testing.T) {
	if got := Encode(9, 0, 0); got != Encode(1, 0, 0) {
		t.Fatalf("Encode(9,0,0): got %#x, want %#x", got, Encode(1, 0, 0))
	}
	if got := Encode(0, 0, 8); got != 0 {
		t.Fatalf("Encode(0,0,8): got %#x, want 0", got)
	}
}

func TestDecodeIgnoresHighBits(t *testing.T) {
	packed := Encode(3, 4, 5) | 0xABCD<<IDShift
	x, y, z := Decode(packed)
	if x != 3 || y != 4 || z != 5 {
		t.Fatalf("Decode with id bits: got (%d,%d,%d), want (3,4,5)", x, y, z)
	}
}

func TestLocalToWorld(t *testing.T) {
	got := LocalToWorld(Encode(1, 2, 3), mgl32.Vec3{8, 0, -8})
	want := mgl32.Vec3{4.5, 1, -2.5}
	if !got.ApproxEqual(want) {
		t.Fatalf("LocalToWorld: got %v, want %v", got, want)
	}
}

func TestChunkOffsetDeltaIsScaled(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{8, -16, 24}
	packed := Encode(6, 1, 4)

	delta := LocalToWorld(packed, b).Sub(LocalToWorld(packed, a))
	want := b.Sub(a).Mul(Scale)
	if !delta.ApproxEqual(want) {
		t.Fatalf("offset delta: got %v, want %v", delta, want)
	}
}

func TestBlockIDAndPosition(t *testing.T) {
	b := NewBlock(0).WithPosition(7, 0, 2).WithID(513)
	if id := b.ID(); id != 513 {
		t.Fatalf("ID: got %d, want 513", id)
	}
	if x, y, z := b.Position(); x != 7 || y != 0 || z != 2 {
		t.Fatalf("Position: got (%d,%d,%d), want (7,0,2)", x, y, z)
	}

	b = b.WithPosition(1, 1, 1)
	if id := b.ID(); id != 513 {
		t.Fatalf("ID after WithPosition: got %d, want 513", id)
	}
	b = b.WithID(0)
	if !b.Air() {
		t.Fatal("WithID(0): expected air")
	}
	if b.Data() != Encode(1, 1, 1) {
		t.Fatalf("Data: got %#x, want %#x", b.Data(), Encode(1, 1, 1))
	}
}

func TestGPUChunkVertexMarshal(t *testing.T) {
	v := GPUChunkVertex{Packed: Encode(1, 2, 3), TexCoord: [2]float32{0.25, 1}}
	if v.Size() != 12 {
		t.Fatalf("Size: got %d, want 12", v.Size())
	}
	buf := v.Marshal()
	if len(buf) != 12 {
		t.Fatalf("Marshal length: got %d, want 12", len(buf))
	}
	if buf[0] != byte(Encode(1, 2, 3)) {
		t.Fatalf("packed low byte: got %#x", buf[0])
	}

	all := MarshalChunkVertices([]GPUChunkVertex{v, v})
	if len(all) != 24 || string(all[12:]) != string(buf) {
		t.Fatalf("MarshalChunkVertices: unexpected layout %v", all)
	}
}
