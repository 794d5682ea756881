package chunk

import "github.com/Carmen-Shannon/oxy-voxel/engine/instance"

// ChunkBuilderOption is a functional option used to configure a Chunk during construction.
type ChunkBuilderOption func(*chunkImpl)

// WithInstance sets the chunk's instance transform. Defaults to identity.
//
// Parameters:
//   - i: the instance transform
//
// Returns:
//   - ChunkBuilderOption: a function that sets the instance
func WithInstance(i instance.Instance) ChunkBuilderOption {
	return func(c *chunkImpl) {
		c.instance = i
	}
}

// WithFill fills every cell with one block id.
//
// Parameters:
//   - id: the block type id, 0 leaves the chunk empty
//
// Returns:
//   - ChunkBuilderOption: a function that fills the chunk
func WithFill(id uint16) ChunkBuilderOption {
	return func(c *chunkImpl) {
		if id == 0 {
			return
		}
		for i := range c.ids {
			c.ids[i] = id
		}
		c.count = cellCount
		c.version++
	}
}
