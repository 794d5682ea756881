package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightSource is the canonical WGSL definition of the Light uniform struct.
// Matches GPULightUniform layout exactly (32 bytes, WGSL uniform aligned).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULightUniform is the GPU-aligned representation of the point light uniform.
// Matches the WGSL Light struct layout exactly (see GPULightSource). The radius fills
// the slot after the position vec3, which would otherwise be alignment padding.
// Size: 32 bytes.
type GPULightUniform struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	Radius   float32    // offset 12: attenuation radius, must be > 0 (f32)
	Color    [3]float32 // offset 16: RGB color, not clamped (vec3<f32>)
	_pad     float32    // offset 28: padding to 32 bytes
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Radius))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], 0) // _pad
	return buf
}

// Validate checks the uniform invariants before upload.
//
// Returns:
//   - error: ErrInvalidRadius when the radius is not a positive finite number
func (g *GPULightUniform) Validate() error {
	return validateRadius(g.Radius)
}
