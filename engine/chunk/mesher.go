package chunk

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-voxel/engine/voxel"
)

// Mesh is the built geometry of one chunk: packed vertices and a u32 index list.
type Mesh struct {
	Vertices []voxel.GPUChunkVertex
	Indices  []uint32
}

// Empty reports whether the mesh has no triangles.
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// VertexBytes serializes the vertices for upload.
func (m Mesh) VertexBytes() []byte {
	return voxel.MarshalChunkVertices(m.Vertices)
}

// IndexBytes serializes the indices for upload.
func (m Mesh) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// face is one side of a unit cube: the neighbour offset and four corners wound counter-clockwise
// when seen from outside.
type face struct {
	dir     [3]int
	corners [4][3]uint32
}

var faces = [6]face{
	{dir: [3]int{1, 0, 0}, corners: [4][3]uint32{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}},
	{dir: [3]int{-1, 0, 0}, corners: [4][3]uint32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{dir: [3]int{0, 1, 0}, corners: [4][3]uint32{{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}}},
	{dir: [3]int{0, -1, 0}, corners: [4][3]uint32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{dir: [3]int{0, 0, 1}, corners: [4][3]uint32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{dir: [3]int{0, 0, -1}, corners: [4][3]uint32{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}}},
}

// faceUVs maps the four face corners onto a texture tile, v pointing down.
var faceUVs = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// Atlas describes a texture atlas of equally sized tiles. Block id n uses tile n-1, counted
// row-major from the top left.
type Atlas struct {
	Columns, Rows uint32
}

// tileUV maps a corner UV into the tile of a block id.
func (a Atlas) tileUV(id uint16, uv [2]float32) [2]float32 {
	cols, rows := max(a.Columns, 1), max(a.Rows, 1)
	tile := (uint32(id) - 1) % (cols * rows)
	col, row := tile%cols, tile/cols
	return [2]float32{
		(float32(col) + uv[0]) / float32(cols),
		(float32(row) + uv[1]) / float32(rows),
	}
}

// BuildMesh emits one quad per block face that does not touch another block of the same chunk.
// Faces on the chunk boundary are always emitted.
//
// Parameters:
//   - snap: the chunk blocks to mesh
//   - atlas: the texture atlas layout used to pick UVs per block id
//
// Returns:
//   - Mesh: the chunk geometry
func BuildMesh(snap *Snapshot, atlas Atlas) Mesh {
	var m Mesh
	for x := range CellsPerAxis {
		for y := range CellsPerAxis {
			for z := range CellsPerAxis {
				id := snap.ID(x, y, z)
				if id == 0 {
					continue
				}
				for _, f := range faces {
					if snap.ID(x+f.dir[0], y+f.dir[1], z+f.dir[2]) != 0 {
						continue
					}
					base := uint32(len(m.Vertices))
					for i, c := range f.corners {
						m.Vertices = append(m.Vertices, voxel.GPUChunkVertex{
							Packed:   voxel.Encode(uint32(x)+c[0], uint32(y)+c[1], uint32(z)+c[2]),
							TexCoord: atlas.tileUV(id, faceUVs[i]),
						})
					}
					m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
				}
			}
		}
	}
	return m
}
