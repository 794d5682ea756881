package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
//
// Everything except the label is a GPU resource filled in by the Renderer and freed by Release.
type bindGroupProvider struct {
	label string

	bindGroup *wgpu.BindGroup
	// bindGroupLayout belongs to the pipeline's binding layout; Release drops the reference only.
	bindGroupLayout *wgpu.BindGroupLayout

	// Per-binding resources, keyed by @binding index.
	buffers      map[int]*wgpu.Buffer
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	// Geometry for drawable providers: vertex slot 0 and the u32 index buffer. When shared is set
	// these come from it instead, and Release leaves them to their owner.
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
	shared       BindGroupProvider

	// instanceBuffer feeds vertex slot 1 with a per-instance step.
	instanceBuffer *wgpu.Buffer
	instanceCount  int
}

// BindGroupProvider holds the GPU resources behind one bind group, and for drawables the
// vertex, index and instance buffers too. Cameras, lights, chunks, materials and meshes each own
// one; the Renderer creates the resources and the scene passes providers to draws keyed by
// binding.Role.
//
// Usage pattern:
//  1. A component creates a provider with a unique label
//  2. The scene calls Renderer.InitGroup or InitMaterial to create the bind group
//  3. The scene calls Renderer.WriteBuffers to update uniforms
//  4. The provider is passed per draw in renderer.DrawParams
type BindGroupProvider interface {
	// Release frees every GPU resource the provider owns. Shared geometry is left alone.
	Release()

	// Label returns the debug label, also used to name GPU objects.
	Label() string

	// BindGroup returns the bind group, or nil before initialization.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created against, or nil.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the uniform buffer at binding, or nil.
	//
	// Parameters:
	//   - binding: the @binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at binding, or nil.
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at binding, or nil.
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the vertex buffer for slot 0, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the u32 index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices drawn.
	IndexCount() int

	// InstanceBuffer returns the per-instance buffer for slot 1, or nil.
	InstanceBuffer() *wgpu.Buffer

	// InstanceCount returns the number of instances in the instance buffer.
	InstanceCount() int

	// Ready reports whether the bind group has been created.
	//
	// Returns:
	//   - bool: true once SetBindGroup has been called with a non-nil group
	Ready() bool

	// SetBindGroup stores the created bind group.
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores the layout the bind group is created against.
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the uniform buffer for a binding.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores the texture view for a binding.
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores the sampler for a binding.
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer stores the vertex buffer. Ignored while geometry is shared.
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the index buffer. Ignored while geometry is shared.
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices drawn. Ignored while geometry is shared.
	SetIndexCount(count int)

	// SetInstanceBuffer stores the per-instance buffer. The caller releases any buffer it replaces.
	//
	// Parameters:
	//   - buf: the instance buffer
	//   - count: the number of instances it holds
	SetInstanceBuffer(buf *wgpu.Buffer, count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label, also used for GPU object labels
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	if p.shared != nil {
		return p.shared.VertexBuffer()
	}
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	if p.shared != nil {
		return p.shared.IndexBuffer()
	}
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	if p.shared != nil {
		return p.shared.IndexCount()
	}
	return p.indexCount
}

func (p *bindGroupProvider) InstanceBuffer() *wgpu.Buffer {
	return p.instanceBuffer
}

func (p *bindGroupProvider) InstanceCount() int {
	return p.instanceCount
}

func (p *bindGroupProvider) Ready() bool {
	return p.bindGroup != nil
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	if p.shared == nil {
		p.vertexBuffer = buf
	}
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	if p.shared == nil {
		p.indexBuffer = buf
	}
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	if p.shared == nil {
		p.indexCount = count
	}
}

func (p *bindGroupProvider) SetInstanceBuffer(buf *wgpu.Buffer, count int) {
	p.instanceBuffer = buf
	p.instanceCount = count
}

// releaseAll releases and removes every non-nil entry of m.
func releaseAll[T any, P interface {
	*T
	Release()
}](m map[int]P) {
	for k, v := range m {
		if v != nil {
			v.Release()
		}
		delete(m, k)
	}
}

func (p *bindGroupProvider) Release() {
	releaseAll(p.textureViews)
	releaseAll(p.samplers)
	releaseAll(p.buffers)

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	p.bindGroupLayout = nil

	if p.shared == nil {
		if p.vertexBuffer != nil {
			p.vertexBuffer.Release()
		}
		if p.indexBuffer != nil {
			p.indexBuffer.Release()
		}
	}
	p.vertexBuffer, p.indexBuffer, p.indexCount = nil, nil, 0

	if p.instanceBuffer != nil {
		p.instanceBuffer.Release()
	}
	p.instanceBuffer, p.instanceCount = nil, 0
}
