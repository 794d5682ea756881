// Package scene owns what is drawn in a frame: the camera, the point light, the voxel chunks and
// the mesh objects. It feeds chunk edits to the mesh builder, uploads finished meshes, writes the
// frame uniforms once and submits one draw per visible chunk and mesh object.
package scene

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/engine/camera"
	"github.com/Carmen-Shannon/oxy-voxel/engine/chunk"
	"github.com/Carmen-Shannon/oxy-voxel/engine/game_object"
	"github.com/Carmen-Shannon/oxy-voxel/engine/instance"
	"github.com/Carmen-Shannon/oxy-voxel/engine/light"
	"github.com/Carmen-Shannon/oxy-voxel/engine/mesh"
	"github.com/Carmen-Shannon/oxy-voxel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
)

const (
	// DefaultChunkPipeline is the pipeline key chunks are drawn with unless overridden.
	DefaultChunkPipeline = pipeline.ChunkPipelineKey
	// DefaultMeshPipeline is the pipeline key mesh objects are drawn with unless overridden.
	DefaultMeshPipeline = pipeline.MeshPipelineKey
)

var (
	// ErrNoAtlas is returned when chunks are drawn without an atlas material.
	ErrNoAtlas = errors.New("scene has chunks but no atlas material")

	// ErrNoMaterial is returned when a mesh object's mesh has no material.
	ErrNoMaterial = errors.New("mesh has no material")

	// ErrNoLight is returned when mesh objects are drawn without a light.
	ErrNoLight = errors.New("scene has meshes but no light")
)

// Scene manages the chunks and mesh objects of one world together with the Camera, Light and
// Renderer used to draw them. GPU resources are created lazily on the first Draw that needs them.
// Scenes can be hot-swapped via the Active flag. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Light returns the scene's point light, or nil.
	Light() light.Light

	// SetLight replaces the scene's point light.
	//
	// Parameters:
	//   - l: the new light
	SetLight(l light.Light)

	// AddChunk places a chunk in the world and queues it for meshing. A chunk already at the same
	// coordinate is replaced.
	//
	// Parameters:
	//   - c: the chunk to add
	AddChunk(c chunk.Chunk)

	// Chunk returns the chunk at a grid coordinate.
	//
	// Parameters:
	//   - coord: the chunk coordinate
	//
	// Returns:
	//   - chunk.Chunk: the chunk
	//   - bool: false if no chunk is placed there
	Chunk(coord chunk.Coord) (chunk.Chunk, bool)

	// RemoveChunk removes the chunk at a grid coordinate and frees its GPU buffers.
	//
	// Parameters:
	//   - coord: the chunk coordinate
	RemoveChunk(coord chunk.Coord)

	// ChunkCount returns the number of placed chunks.
	ChunkCount() int

	// Add places a mesh object in the scene.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - error: ErrNoMaterial if the object's mesh has no material
	Add(obj game_object.GameObject) error

	// Get returns the mesh object with the given ID, or nil.
	Get(id uint64) game_object.GameObject

	// Remove removes the mesh object with the given ID and frees its instance buffer.
	Remove(id uint64)

	// Count returns the number of mesh objects.
	Count() int

	// Update advances the camera and every mesh object by dt and queues edited chunks for
	// meshing. Called once per frame before Draw.
	//
	// Parameters:
	//   - dt: the frame time
	Update(dt time.Duration)

	// Draw uploads finished chunk meshes and changed instances, writes the camera and light
	// uniforms, and submits every visible chunk then every visible mesh object. Must be called
	// between the renderer's BeginFrame and EndFrame.
	//
	// Returns:
	//   - profiler.FrameStats: what was drawn and culled
	//   - error: the first upload or draw error
	Draw() (profiler.FrameStats, error)

	// Release stops the mesh builder and frees every GPU resource the scene created.
	Release()
}

// chunkEntry tracks the GPU state of one placed chunk.
type chunkEntry struct {
	chunk chunk.Chunk

	queued    bool
	submitted uint64 // last version queued for meshing
	built     uint64 // version of the uploaded mesh
	hasMesh   bool   // a mesh has been uploaded, possibly empty
	empty     bool   // the uploaded mesh has no triangles

	groupReady   bool
	instance     instance.Instance
	instanceSent bool
}

// objectEntry tracks the GPU state of one mesh object. The provider shares the mesh's vertex and
// index buffers and owns the object's instance buffer.
type objectEntry struct {
	obj       game_object.GameObject
	provider  bind_group_provider.BindGroupProvider
	instances uint64
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam   camera.Camera
	light light.Light
	r     renderer.Renderer

	chunkPipeline string
	meshPipeline  string

	builder      chunk.Builder
	ownedBuilder bool
	atlas        material.Material
	chunks       map[chunk.Coord]*chunkEntry

	objects map[uint64]*objectEntry
	meshes  map[mesh.Mesh]uint64 // uploaded geometry version per mesh

	lightReady      bool
	cullingDisabled bool

	// writePool is reused each frame to avoid per-frame allocations.
	writePool []bind_group_provider.BufferWrite
}

var _ Scene = &scene{}

// NewScene creates a new Scene drawing through r. Camera and renderer are required and NewScene
// panics if either is nil, or if neither the chunk nor the mesh pipeline is registered on r.
// The camera's bind group is created from the first registered pipeline's layout; both layouts
// declare the same camera group so one bind group serves both pipelines.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		cam:           cam,
		r:             r,
		chunkPipeline: DefaultChunkPipeline,
		meshPipeline:  DefaultMeshPipeline,
		chunks:        make(map[chunk.Coord]*chunkEntry),
		objects:       make(map[uint64]*objectEntry),
		meshes:        make(map[mesh.Mesh]uint64),
		writePool:     make([]bind_group_provider.BufferWrite, 0, 2),
	}
	for _, option := range options {
		option(s)
	}
	if s.builder == nil {
		s.builder = chunk.NewBuilder()
		s.ownedBuilder = true
	}

	layout, ok := s.layout(s.chunkPipeline)
	if !ok {
		layout, ok = s.layout(s.meshPipeline)
	}
	if !ok {
		panic(fmt.Sprintf("scene: neither %q nor %q is registered on the renderer", s.chunkPipeline, s.meshPipeline))
	}
	if err := r.InitGroup(cam.BindGroupProvider(), layout, binding.RoleCamera); err != nil {
		panic(fmt.Sprintf("scene: failed to init camera bind group: %v", err))
	}

	// Chunks passed as options were added before the builder existed.
	for _, e := range s.chunks {
		s.submit(e)
	}
	return s
}

func (s *scene) layout(key string) (binding.Layout, bool) {
	p := s.r.Pipeline(key)
	if p == nil {
		return binding.Layout{}, false
	}
	return p.Layout(), true
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.light
}

func (s *scene) SetLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.light = l
	s.lightReady = false
}

func (s *scene) AddChunk(c chunk.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.chunks[c.Coord()]; ok && old.chunk != c {
		old.chunk.BindGroupProvider().Release()
	}
	e := &chunkEntry{chunk: c}
	s.chunks[c.Coord()] = e
	if s.builder != nil {
		s.submit(e)
	}
}

// submit queues a chunk for meshing if its current version has not been queued yet.
func (s *scene) submit(e *chunkEntry) {
	v := e.chunk.Version()
	if e.queued && e.submitted == v {
		return
	}
	if s.builder.Submit(e.chunk) {
		e.submitted, e.queued = v, true
	}
}

func (s *scene) Chunk(coord chunk.Coord) (chunk.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.chunks[coord]
	if !ok {
		return nil, false
	}
	return e.chunk, true
}

func (s *scene) RemoveChunk(coord chunk.Coord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.chunks[coord]
	if !ok {
		return
	}
	delete(s.chunks, coord)
	e.chunk.BindGroupProvider().Release()
}

func (s *scene) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *scene) Add(obj game_object.GameObject) error {
	if obj.Mesh() == nil || obj.Mesh().Material() == nil {
		return fmt.Errorf("game object %d: %w", obj.ID(), ErrNoMaterial)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.ID()] = &objectEntry{
		obj:      obj,
		provider: bind_group_provider.NewBindGroupProvider(
			fmt.Sprintf("object_%d", obj.ID()),
			bind_group_provider.WithSharedGeometry(obj.Mesh().MeshProvider()),
		),
	}
	return nil
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.objects[id]; ok {
		return e.obj
	}
	return nil
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.objects[id]
	if !ok {
		return
	}
	delete(s.objects, id)
	e.provider.Release()
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) Update(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cam.Update()
	for _, e := range s.objects {
		if e.obj.Enabled() {
			e.obj.Update(dt)
		}
	}
	for _, e := range s.chunks {
		s.submit(e)
	}
}

func (s *scene) Draw() (profiler.FrameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats profiler.FrameStats

	s.collectBuilds()
	if err := s.writeFrameUniforms(); err != nil {
		return stats, err
	}
	if err := s.drawChunks(&stats); err != nil {
		return stats, err
	}
	if err := s.drawObjects(&stats); err != nil {
		return stats, err
	}

	for _, e := range s.chunks {
		if !e.hasMesh || e.built != e.chunk.Version() {
			stats.PendingBuilds++
		}
	}
	return stats, nil
}

// collectBuilds uploads every mesh the builder has finished since the last frame. Results for
// chunks that were removed or replaced are dropped.
func (s *scene) collectBuilds() {
	for _, res := range s.builder.Drain() {
		e, ok := s.chunks[res.Coord]
		if !ok || (e.hasMesh && res.Version < e.built) {
			continue
		}
		if res.Mesh.Empty() {
			e.hasMesh, e.empty, e.built = true, true, res.Version
			continue
		}
		provider := e.chunk.BindGroupProvider()
		if err := s.r.InitMeshBuffers(provider, res.Mesh.VertexBytes(), res.Mesh.IndexBytes(), len(res.Mesh.Indices)); err != nil {
			log.Printf("[Scene] %s: chunk %s mesh upload failed: %v", s.name, res.Coord, err)
			continue
		}
		e.hasMesh, e.empty, e.built = true, false, res.Version
	}
}

// writeFrameUniforms writes the camera uniform and, when meshes are present, the light uniform.
// Both are written once per frame before any draw.
func (s *scene) writeFrameUniforms() error {
	writes := s.writePool[:0]

	camUniform := s.cam.Uniform()
	writes = append(writes, bind_group_provider.UniformWrite(s.cam.BindGroupProvider(), camUniform.Marshal()))

	if len(s.objects) > 0 {
		if s.light == nil {
			return ErrNoLight
		}
		if !s.lightReady {
			layout, ok := s.layout(s.meshPipeline)
			if !ok {
				return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, s.meshPipeline)
			}
			if err := s.r.InitGroup(s.light.BindGroupProvider(), layout, binding.RoleLight); err != nil {
				return fmt.Errorf("scene %s light group: %w", s.name, err)
			}
			s.lightReady = true
		}
		lightUniform, err := s.light.Uniform()
		if err != nil {
			return fmt.Errorf("scene %s light: %w", s.name, err)
		}
		writes = append(writes, bind_group_provider.UniformWrite(s.light.BindGroupProvider(), lightUniform.Marshal()))
	}

	s.r.WriteBuffers(writes)
	s.writePool = writes
	return nil
}

// prepareChunk creates the chunk position group on first use and re-uploads the instance buffer
// when the chunk's transform changed.
func (s *scene) prepareChunk(e *chunkEntry, layout binding.Layout) error {
	provider := e.chunk.BindGroupProvider()
	if !e.groupReady {
		if err := s.r.InitGroup(provider, layout, binding.RoleChunkPosition); err != nil {
			return fmt.Errorf("chunk %s position group: %w", e.chunk.Coord(), err)
		}
		u := e.chunk.Uniform()
		s.r.WriteBuffers([]bind_group_provider.BufferWrite{bind_group_provider.UniformWrite(provider, u.Marshal())})
		e.groupReady = true
	}
	if inst := e.chunk.Instance(); !e.instanceSent || inst != e.instance {
		data := instance.MarshalInstances([]instance.Instance{inst})
		if err := s.r.InitInstanceBuffer(provider, data, 1); err != nil {
			return fmt.Errorf("chunk %s instance buffer: %w", e.chunk.Coord(), err)
		}
		e.instance, e.instanceSent = inst, true
	}
	return nil
}

func (s *scene) drawChunks(stats *profiler.FrameStats) error {
	if len(s.chunks) == 0 {
		return nil
	}
	if s.atlas == nil {
		return ErrNoAtlas
	}
	layout, ok := s.layout(s.chunkPipeline)
	if !ok {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, s.chunkPipeline)
	}
	if err := s.r.InitMaterial(s.atlas, layout); err != nil {
		return fmt.Errorf("scene %s atlas: %w", s.name, err)
	}

	frustum := s.cam.Frustum()
	eye, far := s.cam.Position(), s.cam.Far()
	groups := map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera:  s.cam.BindGroupProvider(),
		binding.RoleTexture: s.atlas.BindGroupProvider(),
	}

	for _, e := range s.chunks {
		if !e.hasMesh || e.empty {
			continue
		}
		if err := s.prepareChunk(e, layout); err != nil {
			return err
		}
		if !s.cullingDisabled && !chunkVisible(&frustum, chunkBounds(e.chunk), eye, far) {
			stats.ChunksCulled++
			continue
		}
		provider := e.chunk.BindGroupProvider()
		groups[binding.RoleChunkPosition] = provider
		if err := s.r.DrawCall(renderer.DrawParams{
			PipelineKey: s.chunkPipeline,
			Mesh:        provider,
			Groups:      groups,
		}); err != nil {
			return fmt.Errorf("draw chunk %s in scene %q: %w", e.chunk.Coord(), s.name, err)
		}
		stats.ChunksDrawn++
	}
	return nil
}

// prepareObject uploads the object's mesh when its geometry changed and re-uploads the instance
// buffer when an instance changed. The object's provider reads the mesh buffers directly.
func (s *scene) prepareObject(e *objectEntry, layout binding.Layout) error {
	m := e.obj.Mesh()
	if uploaded, ok := s.meshes[m]; !ok || uploaded != m.Version() {
		if err := s.r.InitMeshBuffers(m.MeshProvider(), m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			return fmt.Errorf("mesh %s: %w", m.Name(), err)
		}
		s.meshes[m] = m.Version()
	}

	if err := s.r.InitMaterial(m.Material(), layout); err != nil {
		return fmt.Errorf("mesh %s material: %w", m.Name(), err)
	}

	if v := e.obj.Version(); v != e.instances {
		data, version := e.obj.InstanceData()
		if err := s.r.InitInstanceBuffer(e.provider, data, len(data)/instance.MeshInstanceStride); err != nil {
			return fmt.Errorf("game object %d instances: %w", e.obj.ID(), err)
		}
		e.instances = version
	}
	return nil
}

func (s *scene) drawObjects(stats *profiler.FrameStats) error {
	if len(s.objects) == 0 {
		return nil
	}
	layout, ok := s.layout(s.meshPipeline)
	if !ok {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, s.meshPipeline)
	}

	frustum := s.cam.Frustum()
	groups := map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: s.cam.BindGroupProvider(),
		binding.RoleLight:  s.light.BindGroupProvider(),
	}

	for _, e := range s.objects {
		if !e.obj.Enabled() {
			continue
		}
		if err := s.prepareObject(e, layout); err != nil {
			return err
		}
		if !s.cullingDisabled && !e.obj.Visible(frustum) {
			continue
		}
		groups[binding.RoleTexture] = e.obj.Mesh().Material().BindGroupProvider()
		if err := s.r.DrawCall(renderer.DrawParams{
			PipelineKey: s.meshPipeline,
			Mesh:        e.provider,
			Groups:      groups,
		}); err != nil {
			return fmt.Errorf("draw game object %d in scene %q: %w", e.obj.ID(), s.name, err)
		}
		stats.MeshesDrawn++
	}
	return nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownedBuilder {
		s.builder.Stop()
	}
	for coord, e := range s.chunks {
		e.chunk.BindGroupProvider().Release()
		delete(s.chunks, coord)
	}
	for id, e := range s.objects {
		e.provider.Release()
		delete(s.objects, id)
	}
	for m := range s.meshes {
		m.MeshProvider().Release()
		delete(s.meshes, m)
	}
	log.Printf("[Scene] %s released", s.name)
}
