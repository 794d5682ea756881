// Package chunk holds the voxel chunks of the world and the chunk render pipeline: the WGSL
// stages, their CPU references, the face-culling mesher and the worker-pool mesh builder.
//
// A chunk's geometry lives on a lattice of 8 packed corner positions per axis, so it holds
// CellsPerAxis (7) blocks per axis and neighbouring chunks are CellsPerAxis voxel units apart.
package chunk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/instance"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// CellsPerAxis is the number of blocks along each chunk axis. A block spans one voxel unit from
// its minimum corner, and every corner must fit in the 3-bit packed range.
const CellsPerAxis = voxel.AxisSize - 1

// cellCount is the number of block cells in a chunk.
const cellCount = CellsPerAxis * CellsPerAxis * CellsPerAxis

// ErrOutOfRange is returned when a block coordinate falls outside the chunk.
var ErrOutOfRange = errors.New("block coordinate outside chunk")

// Coord identifies a chunk on the world grid.
type Coord struct {
	X, Y, Z int32
}

// Origin returns the chunk offset in voxel units, the value uploaded as chunk_pos.
func (c Coord) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X * CellsPerAxis),
		float32(c.Y * CellsPerAxis),
		float32(c.Z * CellsPerAxis),
	}
}

func (c Coord) String() string {
	return fmt.Sprintf("%d_%d_%d", c.X, c.Y, c.Z)
}

type chunkImpl struct {
	mu *sync.Mutex

	coord    Coord
	ids      [cellCount]uint16
	count    int
	version  uint64
	instance instance.Instance

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Chunk is a CellsPerAxis³ block volume placed on the world grid. Block edits bump Version so
// the scene knows to rebuild the mesh. Chunk is safe for concurrent use.
type Chunk interface {
	// Coord returns the chunk's grid coordinate.
	Coord() Coord

	// Position returns the chunk offset in voxel units.
	Position() mgl32.Vec3

	// AABB returns the world-space bounds of the chunk, before the instance transform.
	//
	// Returns:
	//   - common.AABB: the box from Position*Scale to (Position+CellsPerAxis)*Scale
	AABB() common.AABB

	// Block returns the block at a local coordinate.
	//
	// Parameters:
	//   - x, y, z: the local coordinate, each in [0, CellsPerAxis)
	//
	// Returns:
	//   - voxel.Block: the block with its packed position and id
	//   - bool: false for air or an out-of-range coordinate
	Block(x, y, z uint32) (voxel.Block, bool)

	// Set places a block, replacing any existing one. Id 0 removes the block.
	//
	// Parameters:
	//   - x, y, z: the local coordinate, each in [0, CellsPerAxis)
	//   - id: the block type id
	//
	// Returns:
	//   - error: ErrOutOfRange for a coordinate outside the chunk
	Set(x, y, z uint32, id uint16) error

	// Remove clears the block at a local coordinate. Out-of-range coordinates are ignored.
	Remove(x, y, z uint32)

	// Blocks returns every non-air block.
	Blocks() []voxel.Block

	// Len returns the number of non-air blocks.
	Len() int

	// Version increases on every edit.
	Version() uint64

	// Instance returns the chunk's instance transform.
	Instance() instance.Instance

	// SetInstance replaces the chunk's instance transform.
	SetInstance(i instance.Instance)

	// Snapshot copies the block ids for meshing off the calling goroutine.
	Snapshot() Snapshot

	// Uniform returns the chunk position uniform for upload.
	Uniform() GPUChunkPositionUniform

	// BindGroupProvider returns the provider holding the chunk position uniform and mesh buffers.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Chunk = &chunkImpl{}

// Snapshot is an immutable copy of a chunk's blocks taken at one Version.
type Snapshot struct {
	Coord   Coord
	Version uint64
	ids     [cellCount]uint16
}

// ID returns the block id at a local coordinate, 0 for air or outside the chunk.
func (s *Snapshot) ID(x, y, z int) uint16 {
	if !inRange(x, y, z) {
		return 0
	}
	return s.ids[cellIndex(uint32(x), uint32(y), uint32(z))]
}

// NewChunk creates an empty chunk at a grid coordinate.
//
// Parameters:
//   - coord: the chunk's grid coordinate
//   - options: functional options applied after defaults
//
// Returns:
//   - Chunk: the chunk
func NewChunk(coord Coord, options ...ChunkBuilderOption) Chunk {
	c := &chunkImpl{
		mu:                &sync.Mutex{},
		coord:             coord,
		instance:          instance.Identity(),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider("chunk_" + coord.String()),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *chunkImpl) Coord() Coord {
	return c.coord
}

func (c *chunkImpl) Position() mgl32.Vec3 {
	return c.coord.Origin()
}

func (c *chunkImpl) AABB() common.AABB {
	origin := c.coord.Origin()
	extent := mgl32.Vec3{CellsPerAxis, CellsPerAxis, CellsPerAxis}
	return common.NewAABB(origin.Mul(voxel.Scale), origin.Add(extent).Mul(voxel.Scale))
}

func (c *chunkImpl) Block(x, y, z uint32) (voxel.Block, bool) {
	if !inRange(int(x), int(y), int(z)) {
		return voxel.Block{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.ids[cellIndex(x, y, z)]
	if id == 0 {
		return voxel.Block{}, false
	}
	return voxel.Block{}.WithPosition(x, y, z).WithID(id), true
}

func (c *chunkImpl) Set(x, y, z uint32, id uint16) error {
	if !inRange(int(x), int(y), int(z)) {
		return fmt.Errorf("%w: (%d, %d, %d) in chunk %s", ErrOutOfRange, x, y, z, c.coord)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := cellIndex(x, y, z)
	switch prev := c.ids[i]; {
	case prev == id:
		return nil
	case prev == 0:
		c.count++
	case id == 0:
		c.count--
	}
	c.ids[i] = id
	c.version++
	return nil
}

func (c *chunkImpl) Remove(x, y, z uint32) {
	_ = c.Set(x, y, z, 0)
}

func (c *chunkImpl) Blocks() []voxel.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]voxel.Block, 0, c.count)
	for i, id := range c.ids {
		if id == 0 {
			continue
		}
		x, y, z := cellCoord(i)
		out = append(out, voxel.Block{}.WithPosition(x, y, z).WithID(id))
	}
	return out
}

func (c *chunkImpl) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *chunkImpl) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *chunkImpl) Instance() instance.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

func (c *chunkImpl) SetInstance(i instance.Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instance = i
}

func (c *chunkImpl) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Coord: c.coord, Version: c.version, ids: c.ids}
}

func (c *chunkImpl) Uniform() GPUChunkPositionUniform {
	return GPUChunkPositionUniform{ChunkPos: c.coord.Origin()}
}

func (c *chunkImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

func inRange(x, y, z int) bool {
	return x >= 0 && x < CellsPerAxis && y >= 0 && y < CellsPerAxis && z >= 0 && z < CellsPerAxis
}

func cellIndex(x, y, z uint32) int {
	return int((x*CellsPerAxis+y)*CellsPerAxis + z)
}

func cellCoord(i int) (x, y, z uint32) {
	z = uint32(i % CellsPerAxis)
	y = uint32(i / CellsPerAxis % CellsPerAxis)
	x = uint32(i / (CellsPerAxis * CellsPerAxis))
	return x, y, z
}
