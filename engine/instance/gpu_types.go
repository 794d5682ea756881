package instance

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUInstanceSource is the canonical WGSL definition of the per-instance input of the chunk pipeline.
// Matches GPUInstance layout exactly (64 bytes, locations 5-8).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUMeshInstanceSource is the canonical WGSL definition of the per-instance input of the mesh pipeline.
// Matches GPUMeshInstance layout exactly (100 bytes, locations 5-11).
//
//go:embed assets/mesh_instance.wgsl
var GPUMeshInstanceSource string

const (
	// InstanceStride is the byte size of one chunk pipeline instance record.
	InstanceStride = 64
	// MeshInstanceStride is the byte size of one mesh pipeline instance record.
	MeshInstanceStride = 100
)

// GPUInstance is the per-instance record of the chunk pipeline: the model matrix as four
// column vectors.
// Size: 64 bytes.
type GPUInstance struct {
	Model [16]float32 // offset 0: model matrix columns (@location(5..8), vec4<f32> each)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, g.Model[:])
	return buf
}

// GPUMeshInstance is the per-instance record of the mesh pipeline: the model matrix followed
// by the three columns of the normal matrix, tightly packed.
// Size: 100 bytes.
type GPUMeshInstance struct {
	Model  [16]float32 // offset  0: model matrix columns (@location(5..8), vec4<f32> each)
	Normal [9]float32  // offset 64: normal matrix columns (@location(9..11), vec3<f32> each)
}

// Size returns the size of the GPUMeshInstance struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (100)
func (g *GPUMeshInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 100-byte buffer ready for GPU upload
func (g *GPUMeshInstance) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf[0:64], g.Model[:])
	putFloats(buf[64:100], g.Normal[:])
	return buf
}

// MarshalInstances serializes chunk-pipeline instances into one contiguous buffer.
//
// Parameters:
//   - instances: the instances to serialize
//
// Returns:
//   - []byte: len(instances)*64 bytes
func MarshalInstances(instances []Instance) []byte {
	const stride = InstanceStride
	buf := make([]byte, len(instances)*stride)
	for i, inst := range instances {
		raw := inst.Raw()
		putFloats(buf[i*stride:], raw.Model[:])
	}
	return buf
}

// MarshalMeshInstances serializes mesh-pipeline instances into one contiguous buffer.
//
// Parameters:
//   - instances: the instances to serialize
//
// Returns:
//   - []byte: len(instances)*100 bytes
func MarshalMeshInstances(instances []Instance) []byte {
	const stride = MeshInstanceStride
	buf := make([]byte, len(instances)*stride)
	for i, inst := range instances {
		raw := inst.MeshRaw()
		off := i * stride
		putFloats(buf[off:off+64], raw.Model[:])
		putFloats(buf[off+64:off+stride], raw.Normal[:])
	}
	return buf
}

func putFloats(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
