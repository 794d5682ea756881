// Package game_object places meshes in the world. A GameObject is one mesh drawn once per
// instance through the mesh pipeline, with an optional constant spin applied each frame.
package game_object

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/instance"
	"github.com/Carmen-Shannon/oxy-voxel/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

var objectCount atomic.Uint64

type gameObject struct {
	mu        *sync.Mutex
	id        uint64
	enabled   atomic.Bool
	mesh      mesh.Mesh
	instances []instance.Instance

	// rotationSpeed is the spin in radians per second around X, Y and Z, applied in Update.
	rotationSpeed mgl32.Vec3

	// version increments whenever an instance changes so the scene knows to re-upload.
	version uint64
}

// GameObject defines the interface for a mesh placed in the scene one or more times.
type GameObject interface {
	// ID returns the object's unique identifier.
	ID() uint64

	// Enabled returns whether this object is drawn.
	Enabled() bool

	// SetEnabled sets whether the object is drawn.
	SetEnabled(enabled bool)

	// Mesh returns the mesh drawn for every instance.
	Mesh() mesh.Mesh

	// Instances returns a copy of the object's instances.
	//
	// Returns:
	//   - []instance.Instance: the instances
	Instances() []instance.Instance

	// InstanceCount returns the number of instances.
	InstanceCount() int

	// AddInstance appends an instance.
	//
	// Parameters:
	//   - inst: the transform to add
	//
	// Returns:
	//   - int: the index of the new instance
	AddInstance(inst instance.Instance) int

	// SetInstance replaces the instance at index.
	//
	// Parameters:
	//   - index: the instance index
	//   - inst: the new transform
	//
	// Returns:
	//   - error: an error if index is out of range
	SetInstance(index int, inst instance.Instance) error

	// RotationSpeed returns the spin in radians per second around each axis.
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the spin in radians per second around each axis.
	SetRotationSpeed(rx, ry, rz float32)

	// Update advances the spin of every instance by dt.
	//
	// Parameters:
	//   - dt: the frame time
	Update(dt time.Duration)

	// InstanceData marshals every instance into the 100-byte mesh pipeline layout.
	//
	// Returns:
	//   - []byte: the instance buffer contents
	//   - uint64: the instance version the data was taken at
	InstanceData() ([]byte, uint64)

	// Version returns the instance version.
	Version() uint64

	// Visible reports whether any instance's bounding sphere intersects the frustum.
	//
	// Parameters:
	//   - f: the view frustum
	//
	// Returns:
	//   - bool: true if at least one instance may be on screen
	Visible(f common.Frustum) bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject for a mesh. Without instances it is placed once at the origin.
//
// Parameters:
//   - m: the mesh to draw
//   - options: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(m mesh.Mesh, options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		mu:   &sync.Mutex{},
		id:   objectCount.Add(1),
		mesh: m,
	}
	g.enabled.Store(true)
	for _, opt := range options {
		opt(g)
	}
	if len(g.instances) == 0 {
		g.instances = append(g.instances, instance.Identity())
	}
	g.version = 1
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Mesh() mesh.Mesh {
	return g.mesh
}

func (g *gameObject) Instances() []instance.Instance {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]instance.Instance, len(g.instances))
	copy(out, g.instances)
	return out
}

func (g *gameObject) InstanceCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.instances)
}

func (g *gameObject) AddInstance(inst instance.Instance) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.instances = append(g.instances, inst)
	g.version++
	return len(g.instances) - 1
}

func (g *gameObject) SetInstance(index int, inst instance.Instance) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index < 0 || index >= len(g.instances) {
		return fmt.Errorf("game object %d: instance %d out of range [0, %d)", g.id, index, len(g.instances))
	}
	g.instances[index] = inst
	g.version++
	return nil
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = mgl32.Vec3{rx, ry, rz}
}

func (g *gameObject) Update(dt time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rotationSpeed == (mgl32.Vec3{}) || dt <= 0 {
		return
	}
	step := g.rotationSpeed.Mul(float32(dt.Seconds()))
	delta := mgl32.AnglesToQuat(step.X(), step.Y(), step.Z(), mgl32.XYZ)
	for i := range g.instances {
		rot := g.instances[i].Rotation
		if rot.Len() == 0 {
			rot = mgl32.QuatIdent()
		}
		g.instances[i].Rotation = delta.Mul(rot).Normalize()
	}
	g.version++
}

func (g *gameObject) InstanceData() ([]byte, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return instance.MarshalMeshInstances(g.instances), g.version
}

func (g *gameObject) Version() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.version
}

func (g *gameObject) Visible(f common.Frustum) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	radius := g.mesh.BoundingRadius()
	for _, inst := range g.instances {
		scale := inst.Scale
		if scale == (mgl32.Vec3{}) {
			scale = mgl32.Vec3{1, 1, 1}
		}
		maxScale := max(abs(scale.X()), abs(scale.Y()), abs(scale.Z()))
		if f.IntersectsSphere(inst.Position, radius*maxScale) {
			return true
		}
	}
	return false
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
