package game_object

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/instance"
	"github.com/Carmen-Shannon/oxy-voxel/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewGameObjectDefaultsToOneInstance(t *testing.T) {
	g := NewGameObject(mesh.NewCube("crate", 1))
	if g.InstanceCount() != 1 {
		t.Fatalf("instances: got %d, want 1", g.InstanceCount())
	}
	if !g.Enabled() {
		t.Fatal("objects should be enabled by default")
	}
	data, version := g.InstanceData()
	if len(data) != 100 || version != 1 {
		t.Fatalf("instance data: got %d bytes at version %d, want 100 at 1", len(data), version)
	}
}

func TestInstancesBumpVersion(t *testing.T) {
	g := NewGameObject(mesh.NewCube("crate", 1), WithPosition(1, 0, 0), WithPosition(-1, 0, 0))
	if g.InstanceCount() != 2 {
		t.Fatalf("instances: got %d, want 2", g.InstanceCount())
	}
	v := g.Version()

	if i := g.AddInstance(instance.New(mgl32.Vec3{0, 2, 0})); i != 2 {
		t.Fatalf("AddInstance index: got %d, want 2", i)
	}
	if err := g.SetInstance(0, instance.Identity()); err != nil {
		t.Fatalf("SetInstance: %v", err)
	}
	if g.Version() != v+2 {
		t.Fatalf("version: got %d, want %d", g.Version(), v+2)
	}
	if err := g.SetInstance(5, instance.Identity()); err == nil {
		t.Fatal("SetInstance out of range: expected an error")
	}
}

func TestUpdateSpinsInstances(t *testing.T) {
	g := NewGameObject(mesh.NewCube("crate", 1), WithRotationSpeed(0, math.Pi, 0))
	v := g.Version()

	g.Update(500 * time.Millisecond)

	if g.Version() != v+1 {
		t.Fatalf("version after update: got %d, want %d", g.Version(), v+1)
	}
	// A quarter turn around Y maps +X to -Z.
	got := g.Instances()[0].Model().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !got.ApproxEqualThreshold(mgl32.Vec4{0, 0, -1, 1}, 1e-5) {
		t.Fatalf("rotated +X: got %v, want (0, 0, -1, 1)", got)
	}

	still := NewGameObject(mesh.NewCube("still", 1))
	sv := still.Version()
	still.Update(time.Second)
	if still.Version() != sv {
		t.Fatal("an object without spin should not change on update")
	}
}

func TestVisibleUsesScaledBoundingSphere(t *testing.T) {
	proj := common.Perspective(float32(math.Pi/2), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := common.ExtractFrustumFromMatrix(proj.Mul4(view))

	inFront := NewGameObject(mesh.NewCube("a", 1), WithPosition(0, 0, -5))
	if !inFront.Visible(f) {
		t.Fatal("cube in front of the camera should be visible")
	}

	behind := NewGameObject(mesh.NewCube("b", 1), WithPosition(0, 0, 5))
	if behind.Visible(f) {
		t.Fatal("cube behind the camera should not be visible")
	}

	huge := instance.New(mgl32.Vec3{0, 0, 5})
	huge.Scale = mgl32.Vec3{20, 20, 20}
	if !NewGameObject(mesh.NewCube("c", 1), WithInstances(huge)).Visible(f) {
		t.Fatal("scaled cube reaching in front of the camera should be visible")
	}
}
