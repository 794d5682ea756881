package chunk

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUChunkPositionSource is the canonical WGSL definition of the ChunkPositionUniform struct.
// Matches GPUChunkPositionUniform layout exactly (16 bytes).
//
//go:embed assets/chunk_position.wgsl
var GPUChunkPositionSource string

// GPUChunkPositionUniform is the per-chunk offset added to packed voxel coordinates before
// scaling. The offset is in voxel units.
// Size: 16 bytes.
type GPUChunkPositionUniform struct {
	ChunkPos [3]float32 // offset  0: chunk origin in voxel units (vec3<f32>)
	_pad     float32    // offset 12: padding to 16 bytes
}

// Size returns the size of the GPUChunkPositionUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUChunkPositionUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUChunkPositionUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.ChunkPos[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.ChunkPos[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.ChunkPos[2]))
	binary.LittleEndian.PutUint32(buf[12:16], 0) // _pad
	return buf
}
