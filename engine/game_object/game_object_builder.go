package game_object

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/instance"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithEnabled sets whether the object is drawn. Objects are enabled by default.
//
// Parameters:
//   - enabled: true to draw the object
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.enabled.Store(enabled)
	}
}

// WithInstances places the object once per instance.
//
// Parameters:
//   - instances: the transforms
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithInstances(instances ...instance.Instance) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.instances = append(g.instances, instances...)
	}
}

// WithPosition places one instance at a position with identity rotation and unit scale.
//
// Parameters:
//   - x, y, z: world-space position
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.instances = append(g.instances, instance.New(mgl32.Vec3{x, y, z}))
	}
}

// WithRotationSpeed sets a constant spin in radians per second around each axis.
//
// Parameters:
//   - rx, ry, rz: angular speed per axis
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}
