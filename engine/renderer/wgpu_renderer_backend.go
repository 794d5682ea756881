package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

var (
	errSurfaceNotConfigured = errors.New("surface not configured")
	errFrameNotPresented    = errors.New("previous frame surface not yet presented")
)

// frameState is everything acquired by BeginFrame and given back by EndFrame and Present.
type frameState struct {
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	surface *wgpu.Texture
	view    *wgpu.TextureView
}

// releaseEncoding drops the encoder and pass. The surface texture is kept for Present.
func (f *frameState) releaseEncoding() {
	if f.encoder != nil {
		f.encoder.Release()
	}
	f.encoder, f.pass = nil, nil
}

func (f *frameState) releaseSurface() {
	if f.view != nil {
		f.view.Release()
	}
	if f.surface != nil {
		f.surface.Release()
	}
	f.view, f.surface = nil, nil
}

// attachment is a render target texture owned by the backend and recreated on resize.
type attachment struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (a *attachment) release() {
	if a.view != nil {
		a.view.Release()
	}
	if a.texture != nil {
		a.texture.Release()
	}
	a.view, a.texture = nil, nil
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	msaa, depth   attachment
	passDesc      *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	frame frameState
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the MSAA and depth attachments.
	// A zero size, reported while the window is minimised, keeps the last configuration.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets how frames are delivered to the display. It takes effect on the next
	// ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main render pass clears to.
	SetClearColor(c wgpu.Color)

	// RegisterRenderPipeline creates the GPU render pipeline for p. Bind group layouts come from
	// the pipeline's binding.Layout, vertex buffer layouts from its vertex shader.
	//
	// Parameters:
	//   - p: the validated pipeline
	//
	// Returns:
	//   - error: shader module, layout or pipeline creation failure
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data to the provider, reusing buffers that are
	// large enough. Empty data leaves the matching buffer untouched.
	//
	// Parameters:
	//   - provider: receives the vertex and index buffers
	//   - vertexData: packed vertices for slot 0
	//   - indexData: u32 indices
	//   - indexCount: the number of indices drawn
	//
	// Returns:
	//   - error: buffer creation failure
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer uploads per-instance data for vertex buffer slot 1.
	//
	// Parameters:
	//   - provider: receives the instance buffer
	//   - data: the marshaled instances
	//   - count: the number of instances in data
	//
	// Returns:
	//   - error: empty data or buffer creation failure
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error

	// InitBindGroup creates the provider's bind group from descriptor. Uniform buffers the
	// provider does not hold yet are created at the entry's MinBindingSize; textures and samplers
	// must already be on the provider.
	//
	// Parameters:
	//   - provider: holds the resources and receives the bind group
	//   - descriptor: the group's layout
	//   - bufferUsageOverrides: extra usage flags per binding
	//   - bufferSizeOverrides: buffer sizes per binding
	//
	// Returns:
	//   - error: a missing texture or sampler, or a GPU creation failure
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView uploads an RGBA8 sRGB texture and stores its view at bindingKey.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it at bindingKey. Zero fields take repeat
	// addressing and linear filtering.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues every write. Writes to bindings without a buffer are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: the surface is unconfigured, the last frame was not presented, or acquisition failed
	BeginFrame() error

	// DrawCall encodes a resolved draw plan into the current render pass. Outside a frame it
	// does nothing.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - meshProvider: holds the vertex, instance and index buffers
	//   - plan: the pipeline switch, bind group commands and counts to encode
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, plan drawPlan)

	// EndFrame ends the render pass and submits it. Present must follow.
	EndFrame()

	// Present shows the frame and releases the swapchain texture.
	Present()

	// Release frees the attachments, surface, device and instance.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the instance, surface, adapter and device. The calling
// goroutine is locked to its OS thread, which the surface requires on some platforms. Failure
// to get an adapter or device panics.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = adapter

	// Both voxel pipelines use three bind groups, inside the default limit of four.
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
	})
	if err != nil {
		panic(err)
	}
	b.device = device
	b.queue = device.GetQueue()

	return b
}

// newAttachment creates a render target of the surface size.
func (b *wgpuRendererBackendImpl) newAttachment(label string, format wgpu.TextureFormat, width, height int) attachment {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   uint32(b.sampleCount),
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(err)
	}
	return attachment{texture: tex, view: view}
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.msaa.release()
	b.depth.release()

	// With MSAA the pass draws into the multisampled attachment and resolves into the swapchain
	// view, so the multisampled result itself is never stored. Without MSAA the swapchain view
	// is the attachment. Either way BeginFrame fills in the swapchain view.
	storeOp := wgpu.StoreOpStore
	if b.sampleCount > 1 {
		b.msaa = b.newAttachment("MSAA Texture", *b.surfaceFormat, width, height)
		storeOp = wgpu.StoreOpDiscard
	}
	b.depth = b.newAttachment("Depth Texture", depthFormat, width, height)

	b.passDesc = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       b.msaa.view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    storeOp,
			ClearValue: b.clearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if mode == PresentModeVSync {
		b.presentMode = wgpu.PresentModeFifo
		return
	}
	b.presentMode = wgpu.PresentModeImmediate
}

func (b *wgpuRendererBackendImpl) SetClearColor(c wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = c
	if b.passDesc != nil {
		b.passDesc.ColorAttachments[0].ClearValue = c
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return fmt.Errorf("%s: %w", p.PipelineKey(), pipeline.ErrMissingShader)
	}
	if b.surfaceFormat == nil {
		return fmt.Errorf("register %s: %w", p.PipelineKey(), errSurfaceNotConfigured)
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("vertex module %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("fragment module %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	// Layout groups are contiguous from 0, which the pipeline checked when it was built.
	descriptors := p.Layout().Descriptors()
	groupLayouts := make([]*wgpu.BindGroupLayout, len(descriptors))
	for g, desc := range descriptors {
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return fmt.Errorf("%s group %d layout: %w", p.PipelineKey(), g, err)
		}
		groupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		return err
	}

	raster := p.Raster()
	depthCompare := wgpu.CompareFunctionLess
	if !raster.DepthTest {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    *b.surfaceFormat,
				WriteMask: raster.WriteMask,
				Blend:     raster.Blend,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  raster.Topology,
			FrontFace: raster.FrontFace,
			CullMode:  raster.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              depthFormat,
			DepthWriteEnabled:   raster.DepthWrite,
			DepthCompare:        depthCompare,
			DepthBias:           raster.DepthBias,
			DepthBiasSlopeScale: raster.DepthBiasSlopeScale,
			StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

// uploadBuffer writes data into current when it is large enough, otherwise releases current and
// creates a new buffer of the given usage.
func (b *wgpuRendererBackendImpl) uploadBuffer(current *wgpu.Buffer, label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	if current != nil && current.GetSize() >= uint64(len(data)) {
		b.queue.WriteBuffer(current, 0, data)
		return current, nil
	}
	if current != nil {
		current.Release()
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  alignBufferSize(uint64(len(data))),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// alignBufferSize rounds a size up to the 4 byte multiple WriteBuffer requires.
func alignBufferSize(size uint64) uint64 {
	return (size + 3) &^ 3
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.uploadBuffer(provider.VertexBuffer(), provider.Label()+" Vertex Buffer", wgpu.BufferUsageVertex, vertexData)
		if err != nil {
			return err
		}
		provider.SetVertexBuffer(buf)
	}
	if len(indexData) > 0 {
		buf, err := b.uploadBuffer(provider.IndexBuffer(), provider.Label()+" Index Buffer", wgpu.BufferUsageIndex, indexData)
		if err != nil {
			return err
		}
		provider.SetIndexBuffer(buf)
	}
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(data) == 0 {
		return fmt.Errorf("%s: instance data is empty", provider.Label())
	}
	buf, err := b.uploadBuffer(provider.InstanceBuffer(), provider.Label()+" Instance Buffer", wgpu.BufferUsageVertex, data)
	if err != nil {
		return err
	}
	provider.SetInstanceBuffer(buf, count)
	return nil
}

// bindGroupEntry resolves one layout entry to the provider's resource, creating the uniform
// buffer when the provider has none yet.
func (b *wgpuRendererBackendImpl) bindGroupEntry(provider bind_group_provider.BindGroupProvider, entry wgpu.BindGroupLayoutEntry, usage wgpu.BufferUsage, size uint64) (wgpu.BindGroupEntry, error) {
	binding := int(entry.Binding)
	out := wgpu.BindGroupEntry{Binding: entry.Binding}

	switch {
	case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		out.TextureView = provider.TextureView(binding)
		if out.TextureView == nil {
			return out, fmt.Errorf("%s binding %d has no texture view", provider.Label(), binding)
		}
	case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		out.Sampler = provider.Sampler(binding)
		if out.Sampler == nil {
			return out, fmt.Errorf("%s binding %d has no sampler", provider.Label(), binding)
		}
	default:
		buf := provider.Buffer(binding)
		if buf == nil {
			var err error
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
				Size:  size,
				Usage: usage,
			})
			if err != nil {
				return out, err
			}
			provider.SetBuffer(binding, buf)
		}
		out.Buffer = buf
		out.Size = wgpu.WholeSize
	}
	return out, nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		if layout, err = b.device.CreateBindGroupLayout(&descriptor); err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, le := range descriptor.Entries {
		binding := int(le.Binding)
		usage := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst | bufferUsageOverrides[binding]
		size := le.Buffer.MinBindingSize
		if override, ok := bufferSizeOverrides[binding]; ok {
			size = override
		}

		entry, err := b.bindGroupEntry(provider, le, usage, size)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(group)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	extent := wgpu.Extent3D{Width: stagingData.Width, Height: stagingData.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         fmt.Sprintf("%s Texture %d", provider.Label(), bindingKey),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: stagingData.Width * 4, RowsPerImage: stagingData.Height},
		&extent,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	provider.SetTextureView(bindingKey, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, s common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         fmt.Sprintf("%s Sampler %d", provider.Label(), bindingKey),
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
		Compare:       s.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// wgpu-native refuses to hand out a second surface texture before the first is presented.
	if b.frame.surface != nil {
		return errFrameNotPresented
	}
	if b.passDesc == nil {
		return errSurfaceNotConfigured
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	b.frame.surface = surfaceTexture

	if b.frame.view, err = surfaceTexture.CreateView(nil); err != nil {
		b.frame.releaseSurface()
		return err
	}
	if b.frame.encoder, err = b.device.CreateCommandEncoder(nil); err != nil {
		b.frame.releaseSurface()
		return err
	}

	color := &b.passDesc.ColorAttachments[0]
	if b.sampleCount > 1 {
		color.ResolveTarget = b.frame.view
	} else {
		color.View = b.frame.view
	}
	b.frame.pass = b.frame.encoder.BeginRenderPass(b.passDesc)
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, plan drawPlan) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pass := b.frame.pass
	if pass == nil {
		return
	}

	if plan.setPipeline {
		pass.SetPipeline(p.RenderPipeline())
	}
	for _, cmd := range plan.binds {
		pass.SetBindGroup(cmd.slot, cmd.provider.BindGroup(), nil)
	}
	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, meshProvider.InstanceBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(plan.indexCount, plan.instanceCount, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return
	}
	b.frame.pass.End()

	commandBuffer, err := b.frame.encoder.Finish(nil)
	if err != nil {
		// Nothing was submitted, so there is nothing to present either.
		b.frame.releaseEncoding()
		b.frame.releaseSurface()
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frame.releaseEncoding()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.surface == nil {
		return
	}
	b.surface.Present()
	b.frame.releaseSurface()
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frame.releaseEncoding()
	b.frame.releaseSurface()
	b.msaa.release()
	b.depth.release()

	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
