package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SafeFracPi2 is the largest pitch magnitude a fly camera may reach before the look direction
// becomes parallel to the world up vector.
const SafeFracPi2 = float32(math.Pi/2) - 0.0001

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective creates a right-handed perspective projection matrix for WebGPU clip space,
// where depth is mapped to [0, 1] instead of the OpenGL [-1, 1] range used by mgl32.Perspective.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// LookDirection returns the unit forward vector for a yaw/pitch pair. Yaw is measured
// around +Y starting at +X, pitch is the elevation above the XZ plane.
//
// Parameters:
//   - yaw: horizontal angle in radians
//   - pitch: vertical angle in radians
//
// Returns:
//   - mgl32.Vec3: the normalized look direction
func LookDirection(yaw, pitch float32) mgl32.Vec3 {
	sinPitch, cosPitch := math.Sincos(float64(pitch))
	sinYaw, cosYaw := math.Sincos(float64(yaw))
	return mgl32.Vec3{
		float32(cosPitch * cosYaw),
		float32(sinPitch),
		float32(cosPitch * sinYaw),
	}.Normalize()
}

// LookTo builds a right-handed view matrix looking from eye along dir.
//
// Parameters:
//   - eye: camera position in world space
//   - dir: look direction (need not be normalized)
//   - up: world up vector, typically +Y
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookTo(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(dir), up)
}

// BuildModelMatrix constructs a model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll), applied after scale and before translation.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around X, Y and Z
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the model matrix
func BuildModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// ApproxEqual reports whether a and b differ by no more than eps.
func ApproxEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}
