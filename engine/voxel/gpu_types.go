package voxel

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUChunkVertexSource is the canonical WGSL definition of the VertexInput struct for the chunk pipeline.
// Matches GPUChunkVertex layout exactly (12 bytes).
//
//go:embed assets/chunk_vertex.wgsl
var GPUChunkVertexSource string

// GPUChunkVertex is the GPU representation of one chunk vertex: a packed voxel corner and a UV.
// Size: 12 bytes, per-vertex step.
type GPUChunkVertex struct {
	Packed   uint32     // offset 0: packed local position (@location(0), u32)
	TexCoord [2]float32 // offset 4: texture coordinate (@location(1), vec2<f32>)
}

// Size returns the size of the GPUChunkVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (12)
func (g *GPUChunkVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUChunkVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 12-byte buffer ready for GPU upload
func (g *GPUChunkVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.put(buf)
	return buf
}

func (g *GPUChunkVertex) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], g.Packed)
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.TexCoord[1]))
}

// MarshalChunkVertices serializes a vertex slice into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*12 bytes
func MarshalChunkVertices(vertices []GPUChunkVertex) []byte {
	const stride = 12
	buf := make([]byte, len(vertices)*stride)
	for i := range vertices {
		vertices[i].put(buf[i*stride:])
	}
	return buf
}
