package mesh

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

func whiteLight(radius float32) light.GPULightUniform {
	return light.GPULightUniform{Color: [3]float32{1, 1, 1}, Radius: radius}
}

func TestFragmentStageDarkWithoutAmbientOrLight(t *testing.T) {
	objects := []mgl32.Vec4{
		{1, 1, 1, 1},
		{0.3, 0.7, 0.2, 0.5},
		{5, 5, 5, 1},
	}
	for _, obj := range objects {
		got := FragmentStage(obj, whiteLight(10), 0, 10)
		if got[0] != 0 || got[1] != 0 || got[2] != 0 {
			t.Errorf("object %v: got rgb %v, want black", obj, got.Vec3())
		}
		if got[3] != obj[3] {
			t.Errorf("object %v: alpha got %v, want %v", obj, got[3], obj[3])
		}
	}
}

func TestFragmentStageIsUnclamped(t *testing.T) {
	got := FragmentStage(mgl32.Vec4{1, 1, 1, 1}, whiteLight(10), 0.2, 0)
	want := mgl32.Vec4{1.2, 1.2, 1.2, 1}
	if !got.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("got %v, want %v", got, want)
	}

	clamped := ClampToDisplay(got)
	if !clamped.ApproxEqual(mgl32.Vec4{1, 1, 1, 1}) {
		t.Fatalf("clamped: got %v, want white", clamped)
	}
}

func TestFragmentStageTintsByLightColor(t *testing.T) {
	l := light.GPULightUniform{Color: [3]float32{1, 0.5, 0}, Radius: 4}
	got := FragmentStage(mgl32.Vec4{0.5, 0.5, 0.5, 0.8}, l, 0.1, 2)
	// att = 1 - 4/16 = 0.75; lit = color * (0.1 + 0.75)
	want := mgl32.Vec4{0.425, 0.2125, 0, 0.8}
	if !got.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFragmentStageBeyondRadiusKeepsAmbient(t *testing.T) {
	got := FragmentStage(mgl32.Vec4{1, 1, 1, 1}, whiteLight(5), 0.25, 50)
	if !got.Vec3().ApproxEqual(mgl32.Vec3{0.25, 0.25, 0.25}) {
		t.Fatalf("got %v, want ambient only", got)
	}
}

func TestClampToDisplayNegative(t *testing.T) {
	got := ClampToDisplay(mgl32.Vec4{-0.5, 0.5, 2, 1})
	if got != (mgl32.Vec4{0, 0.5, 1, 1}) {
		t.Fatalf("got %v", got)
	}
}

func TestVertexStageIdentity(t *testing.T) {
	v := GPUMeshVertex{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0.25, 0.75}}
	out := VertexStage(v, mgl32.Ident4(), mgl32.Ident4(), mgl32.Vec3{3, 4, 0})
	if out.Clip != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Fatalf("clip: got %v, want (0,0,0,1)", out.Clip)
	}
	if out.TexCoord != (mgl32.Vec2{0.25, 0.75}) {
		t.Fatalf("uv: got %v", out.TexCoord)
	}
	if !mgl32.FloatEqual(out.LightDistance, 5) {
		t.Fatalf("light distance: got %v, want 5", out.LightDistance)
	}
}

func TestVertexStageUsesWorldPositionForDistance(t *testing.T) {
	v := GPUMeshVertex{Position: [3]float32{1, 0, 0}}
	model := mgl32.Translate3D(0, 10, 0)
	viewProj := mgl32.Scale3D(2, 2, 2)
	out := VertexStage(v, model, viewProj, mgl32.Vec3{1, 10, 0})
	if out.LightDistance != 0 {
		t.Fatalf("light distance: got %v, want 0", out.LightDistance)
	}
	if !out.Clip.ApproxEqual(mgl32.Vec4{2, 20, 0, 1}) {
		t.Fatalf("clip: got %v, want (2,20,0,1)", out.Clip)
	}
}

func TestVertexStageIgnoresFrame(t *testing.T) {
	a := GPUMeshVertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}}
	b := a
	b.Normal = [3]float32{1, 0, 0}
	b.Tangent = [3]float32{0, 0, 1}
	b.Bitangent = [3]float32{0, 1, 0}
	m := mgl32.Translate3D(1, 1, 1)
	if VertexStage(a, m, m, mgl32.Vec3{}) != VertexStage(b, m, m, mgl32.Vec3{}) {
		t.Fatal("normal/tangent/bitangent changed the vertex output")
	}
}
