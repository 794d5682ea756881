package pipeline

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/chunk"
	"github.com/Carmen-Shannon/oxy-voxel/engine/mesh"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
)

const (
	// ChunkPipelineKey is the key of the pipeline built by NewChunkPipeline.
	ChunkPipelineKey = "chunk"
	// MeshPipelineKey is the key of the pipeline built by NewMeshPipeline.
	MeshPipelineKey = "mesh"
)

// NewChunkPipeline builds the voxel chunk pipeline from the embedded chunk shaders and
// binding.ChunkLayout. Extra options are applied after the shaders.
//
// Parameters:
//   - opts: additional PipelineBuilderOption functions (culling, depth, blending)
//
// Returns:
//   - Pipeline: the chunk pipeline
func NewChunkPipeline(opts ...PipelineBuilderOption) Pipeline {
	base := []PipelineBuilderOption{
		WithVertexShader(shader.NewShaderFromSource("chunk_vs", shader.ShaderTypeVertex, chunk.VertexShaderSource)),
		WithFragmentShader(shader.NewShaderFromSource("chunk_fs", shader.ShaderTypeFragment, chunk.FragmentShaderSource)),
	}
	return NewPipeline(ChunkPipelineKey, binding.ChunkLayout(), append(base, opts...)...)
}

// NewMeshPipeline builds the lit mesh pipeline from the embedded mesh shaders and
// binding.MeshLayout. Extra options are applied after the shaders.
//
// Parameters:
//   - opts: additional PipelineBuilderOption functions (culling, depth, blending)
//
// Returns:
//   - Pipeline: the mesh pipeline
func NewMeshPipeline(opts ...PipelineBuilderOption) Pipeline {
	base := []PipelineBuilderOption{
		WithVertexShader(shader.NewShaderFromSource("mesh_vs", shader.ShaderTypeVertex, mesh.VertexShaderSource)),
		WithFragmentShader(shader.NewShaderFromSource("mesh_fs", shader.ShaderTypeFragment, mesh.FragmentShaderSource)),
	}
	return NewPipeline(MeshPipelineKey, binding.MeshLayout(), append(base, opts...)...)
}
