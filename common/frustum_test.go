package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testViewProj() mgl32.Mat4 {
	proj := Perspective(float32(math.Pi/2), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(float32(math.Pi/2), 1, 0.1, 100)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	if d := near.Z() / near.W(); !ApproxEqual(d, 0, 1e-5) {
		t.Fatalf("near plane depth: got %v, want 0", d)
	}
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	if d := far.Z() / far.W(); !ApproxEqual(d, 1, 1e-5) {
		t.Fatalf("far plane depth: got %v, want 1", d)
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj())

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"in front", NewAABB(mgl32.Vec3{-1, -1, -11}, mgl32.Vec3{1, 1, -9}), true},
		{"behind camera", NewAABB(mgl32.Vec3{-1, -1, 5}, mgl32.Vec3{1, 1, 7}), false},
		{"beyond far plane", NewAABB(mgl32.Vec3{-1, -1, -210}, mgl32.Vec3{1, 1, -200}), false},
		{"far to the left", NewAABB(mgl32.Vec3{-60, -1, -11}, mgl32.Vec3{-50, 1, -9}), false},
		{"straddling the left plane", NewAABB(mgl32.Vec3{-15, -1, -11}, mgl32.Vec3{-5, 1, -9}), true},
	}
	for _, tt := range tests {
		if got := f.IntersectsAABB(tt.box); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExtractFrustumPlanesAreNormalized(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj())
	for i, p := range f.Planes {
		if l := p.Normal.Len(); !ApproxEqual(l, 1, 1e-5) {
			t.Errorf("plane %d: normal length got %v, want 1", i, l)
		}
	}
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	got := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	want := mgl32.Vec4{3, 4, 5, 1}
	if !got.ApproxEqual(want) {
		t.Fatalf("model transform: got %v, want %v", got, want)
	}
}

func TestLookDirection(t *testing.T) {
	if got := LookDirection(0, 0); !got.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("yaw 0 pitch 0: got %v, want +X", got)
	}
	if got := LookDirection(float32(-math.Pi/2), 0); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Fatalf("yaw -pi/2: got %v, want -Z", got)
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj())

	tests := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		want   bool
	}{
		{"in front", mgl32.Vec3{0, 0, -10}, 1, true},
		{"behind camera", mgl32.Vec3{0, 0, 10}, 1, false},
		{"behind but large enough to reach the near plane", mgl32.Vec3{0, 0, 3}, 4, true},
		{"far to the right", mgl32.Vec3{60, 0, -10}, 1, false},
	}
	for _, tt := range tests {
		if got := f.IntersectsSphere(tt.center, tt.radius); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}
