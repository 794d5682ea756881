package pipeline

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// RasterState is the fixed-function part of a render pipeline.
type RasterState struct {
	Topology  wgpu.PrimitiveTopology
	FrontFace wgpu.FrontFace
	CullMode  wgpu.CullMode

	// DepthTest compares against the depth buffer with "less"; when false every fragment passes.
	DepthTest           bool
	DepthWrite          bool
	DepthBias           int32
	DepthBiasSlopeScale float32

	WriteMask wgpu.ColorWriteMask
	// Blend is nil for opaque pipelines.
	Blend *wgpu.BlendState
}

// DefaultRasterState is an opaque, depth tested triangle list that culls clockwise back faces.
// Both the chunk mesher and the mesh primitives wind front faces counter-clockwise.
func DefaultRasterState() RasterState {
	return RasterState{
		Topology:   wgpu.PrimitiveTopologyTriangleList,
		FrontFace:  wgpu.FrontFaceCCW,
		CullMode:   wgpu.CullModeBack,
		DepthTest:  true,
		DepthWrite: true,
		WriteMask:  wgpu.ColorWriteMaskAll,
	}
}

// AlphaBlend is standard non-premultiplied "over" blending.
func AlphaBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithRasterState replaces the whole raster state.
func WithRasterState(state RasterState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster = state
	}
}

// WithCullMode sets which faces are discarded. wgpu.CullModeNone draws both sides, which shows
// inverted winding while debugging a mesher.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.CullMode = mode
	}
}

// WithFrontFace sets the winding order treated as front facing.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.FrontFace = frontFace
	}
}

// WithTopology sets the primitive topology.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.Topology = topology
	}
}

// WithDepth sets depth testing and depth writes.
//
// Parameters:
//   - test: compare fragments against the depth buffer
//   - write: store fragment depth
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth state for this pipeline
func WithDepth(test, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.DepthTest = test
		p.raster.DepthWrite = write
	}
}

// WithDepthBias sets the constant and slope scaled depth bias.
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.DepthBias = bias
		p.raster.DepthBiasSlopeScale = slopeScale
	}
}

// WithBlendState enables blending with state, or disables it when state is nil.
func WithBlendState(state *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.Blend = state
	}
}

// WithWriteMask sets the color channels the pipeline writes.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.raster.WriteMask = writeMask
	}
}
