// Package voxel defines the packed voxel position format shared by the host and the chunk
// shader. A packed value stores a local voxel corner (x, y, z) in the low 9 bits, three bits
// per axis, and an optional 16-bit block id above it:
//
//	bit  24 ........ 9 | 8 7 6 | 5 4 3 | 2 1 0
//	     block id      |   x   |   y   |   z
//
// Only the low 9 bits are read by the vertex shader.
package voxel

import "github.com/go-gl/mathgl/mgl32"

const (
	// AxisBits is the number of bits used by each packed axis.
	AxisBits = 3
	// AxisSize is the number of distinct values per axis (0..7).
	AxisSize = 1 << AxisBits
	// AxisMask masks a single axis value.
	AxisMask = AxisSize - 1
	// PositionMask masks the nine position bits of a packed value.
	PositionMask = 0x1FF

	// IDShift is the bit offset of the block id.
	IDShift = 9
	// IDMask masks a block id once shifted down.
	IDMask = 0xFFFF

	// Scale converts local voxel units into world units.
	Scale float32 = 0.5
)

// Encode packs a local voxel coordinate into a u32. Each axis is masked to three bits, so
// values outside [0, 7] wrap instead of bleeding into neighbouring axes.
//
// Parameters:
//   - x, y, z: the local voxel coordinate, each in [0, 7]
//
// Returns:
//   - uint32: the packed position
func Encode(x, y, z uint32) uint32 {
	return (x&AxisMask)<<(2*AxisBits) | (y&AxisMask)<<AxisBits | z&AxisMask
}

// Decode unpacks the local voxel coordinate from a packed value. Bits above the position are
// ignored. There is no error path: a malformed value decodes to a wrong but defined coordinate.
//
// Parameters:
//   - packed: the packed position (may carry a block id)
//
// Returns:
//   - x, y, z: the local voxel coordinate
func Decode(packed uint32) (x, y, z uint32) {
	p := packed & PositionMask
	return p >> (2 * AxisBits), (p >> AxisBits) & AxisMask, p & AxisMask
}

// DecodeVec3 unpacks a packed value into a float vector, the form the vertex stage works in.
func DecodeVec3(packed uint32) mgl32.Vec3 {
	x, y, z := Decode(packed)
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// LocalToWorld converts a packed local coordinate into world units: the chunk offset is added
// to the decoded coordinate and the sum is scaled by Scale.
//
// Parameters:
//   - packed: the packed position
//   - chunkPos: the chunk offset in voxel units
//
// Returns:
//   - mgl32.Vec3: the position in world units, before the instance transform
func LocalToWorld(packed uint32, chunkPos mgl32.Vec3) mgl32.Vec3 {
	return DecodeVec3(packed).Add(chunkPos).Mul(Scale)
}
