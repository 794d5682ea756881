package instance

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentityInstance(t *testing.T) {
	inst := Identity()
	if m := inst.Model(); m != mgl32.Ident4() {
		t.Fatalf("Model: got %v, want identity", m)
	}
	if n := inst.NormalMatrix(); n != mgl32.Ident3() {
		t.Fatalf("NormalMatrix: got %v, want identity", n)
	}
}

func TestZeroValueInstanceIsIdentity(t *testing.T) {
	var inst Instance
	if m := inst.Model(); m != mgl32.Ident4() {
		t.Fatalf("zero Instance Model: got %v, want identity", m)
	}
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	inst := Identity()
	inst.Scale = mgl32.Vec3{2, 1, 4}
	inst.Position = mgl32.Vec3{10, 20, 30}

	got := inst.NormalMatrix()
	want := mgl32.Diag3(mgl32.Vec3{0.5, 1, 0.25})
	if !got.ApproxEqual(want) {
		t.Fatalf("NormalMatrix: got %v, want %v", got, want)
	}

	// a surface normal stays perpendicular to a transformed tangent
	tangent := inst.Model().Mul4x1(mgl32.Vec4{1, 1, 0, 0}).Vec3()
	normal := got.Mul3x1(mgl32.Vec3{1, -1, 0})
	if d := tangent.Dot(normal); math.Abs(float64(d)) > 1e-5 {
		t.Fatalf("normal not perpendicular after scale: dot = %v", d)
	}
}

func TestNormalMatrixPureRotation(t *testing.T) {
	inst := Identity()
	inst.Rotation = mgl32.QuatRotate(float32(math.Pi/3), mgl32.Vec3{0, 1, 0})

	got := inst.NormalMatrix()
	want := inst.Model().Mat3()
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("rotation normal matrix: got %v, want %v", got, want)
	}
}

func TestGPUInstanceLayout(t *testing.T) {
	inst := New(mgl32.Vec3{1, 2, 3})
	raw := inst.Raw()
	if raw.Size() != 64 {
		t.Fatalf("GPUInstance Size: got %d, want 64", raw.Size())
	}
	buf := raw.Marshal()
	// column 3 starts at byte 48: translation x
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])); got != 1 {
		t.Fatalf("translation x at offset 48: got %v, want 1", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[60:64])); got != 1 {
		t.Fatalf("w at offset 60: got %v, want 1", got)
	}
}

func TestGPUMeshInstanceLayout(t *testing.T) {
	inst := Identity()
	inst.Scale = mgl32.Vec3{2, 2, 2}
	raw := inst.MeshRaw()
	if raw.Size() != 100 {
		t.Fatalf("GPUMeshInstance Size: got %d, want 100", raw.Size())
	}
	buf := raw.Marshal()
	if len(buf) != 100 {
		t.Fatalf("Marshal length: got %d, want 100", len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[64:68])); got != 0.5 {
		t.Fatalf("normal matrix [0][0] at offset 64: got %v, want 0.5", got)
	}
}

func TestMarshalInstanceSlices(t *testing.T) {
	insts := []Instance{New(mgl32.Vec3{1, 0, 0}), New(mgl32.Vec3{2, 0, 0})}

	chunkBuf := MarshalInstances(insts)
	if len(chunkBuf) != 128 {
		t.Fatalf("MarshalInstances length: got %d, want 128", len(chunkBuf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(chunkBuf[64+48:])); got != 2 {
		t.Fatalf("second instance translation x: got %v, want 2", got)
	}

	meshBuf := MarshalMeshInstances(insts)
	if len(meshBuf) != 200 {
		t.Fatalf("MarshalMeshInstances length: got %d, want 200", len(meshBuf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(meshBuf[100+48:])); got != 2 {
		t.Fatalf("second mesh instance translation x: got %v, want 2", got)
	}
}
