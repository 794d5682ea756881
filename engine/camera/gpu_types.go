package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (96 bytes, WGSL uniform aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// DefaultAmbientStrength is the ambient light factor a new camera starts with.
const DefaultAmbientStrength float32 = 0.01

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 96 bytes.
type GPUCameraUniform struct {
	ViewPosition    [4]float32  // offset  0: world-space eye position, w = 0 (vec4<f32>)
	ViewProj        [16]float32 // offset 16: combined view-projection matrix (mat4x4<f32>)
	AmbientStrength float32     // offset 80: ambient light factor, not clamped (f32)
	_pad            [3]float32  // offset 84: padding to 96 bytes
}

// NewGPUCameraUniform returns a uniform with an identity view-projection and the default
// ambient strength.
//
// Returns:
//   - GPUCameraUniform: the initial uniform
func NewGPUCameraUniform() GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:        [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		AmbientStrength: DefaultAmbientStrength,
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized 96-byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewPosition[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.ViewProj[i]))
	}
	binary.LittleEndian.PutUint32(buf[80:], math.Float32bits(g.AmbientStrength))
	// bytes 84..96 stay zero
	return buf
}
