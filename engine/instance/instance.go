// Package instance holds per-instance transforms and their GPU encodings. Every draw is instanced:
// a chunk or mesh is drawn once per Instance, with the instance's model matrix (and, for the mesh
// pipeline, its normal matrix) streamed through a per-instance vertex buffer.
package instance

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Instance is a rigid transform with an optional non-uniform scale.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// New creates an Instance at the given position with identity rotation and unit scale.
//
// Parameters:
//   - position: the world-space translation
//
// Returns:
//   - Instance: the instance
func New(position mgl32.Vec3) Instance {
	return Instance{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Identity returns an Instance whose model matrix is the identity.
func Identity() Instance {
	return New(mgl32.Vec3{})
}

// Model returns the model matrix T * R * S.
//
// Returns:
//   - mgl32.Mat4: the model matrix (column-major)
func (i Instance) Model() mgl32.Mat4 {
	scale := i.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	rot := i.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	return mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// NormalMatrix returns the inverse-transpose of the model's upper 3x3, which keeps normals
// perpendicular to surfaces under non-uniform scale.
//
// Returns:
//   - mgl32.Mat3: the normal matrix, or the zero matrix when the model is singular
func (i Instance) NormalMatrix() mgl32.Mat3 {
	return NormalMatrix(i.Model())
}

// NormalMatrix computes the inverse-transpose of the upper 3x3 of an arbitrary model matrix.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix, or the zero matrix when model is singular
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}

// Raw returns the 64-byte per-instance record used by the chunk pipeline.
func (i Instance) Raw() GPUInstance {
	return GPUInstance{Model: i.Model()}
}

// MeshRaw returns the 100-byte per-instance record used by the mesh pipeline.
func (i Instance) MeshRaw() GPUMeshInstance {
	model := i.Model()
	return GPUMeshInstance{Model: model, Normal: NormalMatrix(model)}
}
