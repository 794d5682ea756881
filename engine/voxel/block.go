package voxel

// Block is a single voxel inside a chunk. Its data word uses the packed position layout with
// the block id stored in bits 9..24.
type Block struct {
	data uint32
}

// NewBlock wraps a raw data word.
//
// Parameters:
//   - data: the raw packed word
//
// Returns:
//   - Block: the block
func NewBlock(data uint32) Block {
	return Block{data: data}
}

// WithPosition returns a copy of the block with its position replaced, leaving the id untouched.
//
// Parameters:
//   - x, y, z: the local voxel coordinate, each in [0, 7]
//
// Returns:
//   - Block: the updated block
func (b Block) WithPosition(x, y, z uint32) Block {
	b.data = b.data&^PositionMask | Encode(x, y, z)
	return b
}

// WithID returns a copy of the block with its id replaced, leaving the position and any bits
// above the id untouched.
//
// Parameters:
//   - id: the block type id
//
// Returns:
//   - Block: the updated block
func (b Block) WithID(id uint16) Block {
	b.data = b.data&^(IDMask<<IDShift) | uint32(id)<<IDShift
	return b
}

// Data returns the raw packed word.
func (b Block) Data() uint32 {
	return b.data
}

// Position returns the local voxel coordinate of the block.
func (b Block) Position() (x, y, z uint32) {
	return Decode(b.data)
}

// ID returns the block type id.
func (b Block) ID() uint16 {
	return uint16((b.data >> IDShift) & IDMask)
}

// Air reports whether the block has id 0.
func (b Block) Air() bool {
	return b.ID() == 0
}
