package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMissingShader is returned when a pipeline lacks its vertex or fragment shader.
	ErrMissingShader = errors.New("pipeline needs a vertex and a fragment shader")

	// ErrVertexLayout is returned when the vertex shader's buffers do not follow the
	// slot 0 per-vertex, slot 1 per-instance convention.
	ErrVertexLayout = errors.New("vertex buffer layout mismatch")
)

// pipeline is the implementation of the Pipeline interface.
// It holds the shader pair, the binding layout both shaders were checked against, and the
// underlying WebGPU render pipeline once the renderer has created it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// layout is the bind group structure draws against this pipeline must follow
	layout binding.Layout

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the renderer registers the pipeline
	renderPipeline *wgpu.RenderPipeline

	raster RasterState
}

// Pipeline defines the interface for a render pipeline: a vertex + fragment shader pair, the
// binding layout they were validated against, and the RasterState used when the renderer
// creates the GPU pipeline.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Layout returns the binding layout both shaders were validated against.
	//
	// Returns:
	//   - binding.Layout: the pipeline's bind group structure
	Layout() binding.Layout

	// RenderPipeline returns the underlying GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// Raster returns the fixed-function state the GPU pipeline is created with.
	//
	// Returns:
	//   - RasterState: primitive, depth and color target settings
	Raster() RasterState

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline bound to layout. Both shaders are checked against the
// layout here; a mismatch is a programming error and panics, so a draw can never reach the GPU
// with groups in the wrong slots.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - layout: the bind group structure the shaders must follow
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new validated Pipeline
func NewPipeline(pipelineKey string, layout binding.Layout, opts ...PipelineBuilderOption) Pipeline {
	p, err := Build(pipelineKey, layout, opts...)
	if err != nil {
		panic(fmt.Sprintf("pipeline: %v", err))
	}
	return p
}

// Build is the non-panicking form of NewPipeline.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - layout: the bind group structure the shaders must follow
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the validated pipeline
//   - error: ErrMissingShader, ErrVertexLayout, or an error wrapping binding.ErrLayoutMismatch
func Build(pipelineKey string, layout binding.Layout, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		pipelineKey: pipelineKey,
		layout:      layout,
		raster:      DefaultRasterState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", pipelineKey, err)
	}
	return p, nil
}

// validate checks both shaders against the layout: their parsed bind groups, the roles their
// annotations declare, and the vertex buffer slots of the vertex stage.
func (p *pipeline) validate() error {
	if p.vertexShader == nil || p.fragmentShader == nil {
		return ErrMissingShader
	}
	if p.vertexShader.ShaderType() != shader.ShaderTypeVertex || p.fragmentShader.ShaderType() != shader.ShaderTypeFragment {
		return fmt.Errorf("%w: shaders are in the wrong stages", ErrMissingShader)
	}

	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if err := p.layout.Validate(s.ShaderType().Stage(), s.BindGroupLayoutDescriptors()); err != nil {
			return fmt.Errorf("%s shader %q: %w", s.ShaderType(), s.Key(), err)
		}
		for _, decl := range s.Declarations() {
			role, ok := decl.Role()
			if !ok {
				continue
			}
			slot, err := p.layout.Slot(role)
			if err != nil {
				return fmt.Errorf("%s shader %q line %d: %w", s.ShaderType(), s.Key(), decl.Line, err)
			}
			if decl.Group != nil && uint32(*decl.Group) != slot {
				return fmt.Errorf("%w: %s shader %q line %d declares %s at group %d, %s puts it at %d",
					binding.ErrLayoutMismatch, s.ShaderType(), s.Key(), decl.Line, role, *decl.Group, p.layout.Name, slot)
			}
		}
	}

	layouts := p.vertexShader.VertexLayouts()
	if len(layouts) != 2 {
		return fmt.Errorf("%w: vertex shader %q has %d vertex buffers, want 2", ErrVertexLayout, p.vertexShader.Key(), len(layouts))
	}
	if layouts[0].StepMode != wgpu.VertexStepModeVertex || layouts[1].StepMode != wgpu.VertexStepModeInstance {
		return fmt.Errorf("%w: vertex shader %q must take per-vertex data in slot 0 and per-instance data in slot 1",
			ErrVertexLayout, p.vertexShader.Key())
	}
	return nil
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Layout() binding.Layout {
	return p.layout
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Raster() RasterState {
	return p.raster
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
