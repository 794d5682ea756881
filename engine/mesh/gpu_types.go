package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMeshVertexSource is the canonical WGSL definition of the VertexInput struct for the mesh pipeline.
// Matches GPUMeshVertex layout exactly (56 bytes, tightly packed vertex attributes).
//
//go:embed assets/mesh_vertex.wgsl
var GPUMeshVertexSource string

// GPUMeshVertex is the GPU representation of a single unpacked mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUMeshVertexSource).
// Size: 56 bytes. Vertex attributes have no uniform alignment rules, so there is no padding.
type GPUMeshVertex struct {
	Position  [3]float32 // offset  0: model-space position (location 0)
	TexCoord  [2]float32 // offset 12: UV texture coordinate (location 1)
	Normal    [3]float32 // offset 20: vertex normal (location 2)
	Tangent   [3]float32 // offset 32: tangent, reserved for normal mapping (location 3)
	Bitangent [3]float32 // offset 44: bitangent, reserved for normal mapping (location 4)
}

// Size returns the size of the GPUMeshVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (56)
func (g *GPUMeshVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload
func (g *GPUMeshVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.put(buf)
	return buf
}

func (g *GPUMeshVertex) put(buf []byte) {
	off := 0
	for _, f := range [...]float32{
		g.Position[0], g.Position[1], g.Position[2],
		g.TexCoord[0], g.TexCoord[1],
		g.Normal[0], g.Normal[1], g.Normal[2],
		g.Tangent[0], g.Tangent[1], g.Tangent[2],
		g.Bitangent[0], g.Bitangent[1], g.Bitangent[2],
	} {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
}

// MarshalMeshVertices serializes a vertex slice into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices) * 56 bytes
func MarshalMeshVertices(vertices []GPUMeshVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	stride := vertices[0].Size()
	buf := make([]byte, len(vertices)*stride)
	for i := range vertices {
		vertices[i].put(buf[i*stride:])
	}
	return buf
}

// MarshalIndices serializes a uint32 index slice for upload as an index buffer.
//
// Parameters:
//   - indices: the triangle indices
//
// Returns:
//   - []byte: len(indices) * 4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
