package bind_group_provider

// BufferWrite is one queued write into a provider's buffer at a binding and byte offset. The
// scene batches the camera, light and chunk position uniforms this way before drawing.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// UniformWrite replaces the whole uniform at binding 0, where every uniform group keeps its
// single buffer.
//
// Parameters:
//   - p: the provider owning the uniform buffer
//   - data: the marshaled uniform
//
// Returns:
//   - BufferWrite: the write
func UniformWrite(p BindGroupProvider, data []byte) BufferWrite {
	return BufferWrite{Provider: p, Data: data}
}
