// Package mesh holds unpacked-vertex geometry for the mesh pipeline: the vertex format, the
// mesh container, geometry helpers and CPU references of the pipeline's shading.
package mesh

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/material"
)

// meshCount is an atomic counter used to generate unique provider labels.
var meshCount atomic.Uint64

// mesh is the implementation of the Mesh interface.
type mesh struct {
	mu *sync.Mutex

	name           string
	vertices       []GPUMeshVertex
	indices        []uint32
	vertexData     []byte
	indexData      []byte
	boundingRadius float32
	version        uint64

	material     material.Material
	meshProvider bind_group_provider.BindGroupProvider
}

// Mesh is a GPU-ready container of unpacked geometry drawn by the mesh pipeline.
//
// The vertex and index data are serialized when geometry is set so the renderer can upload
// them without further conversion. The mesh provider owns the vertex, index and instance
// buffers once they have been created.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Vertices returns the mesh vertices. The slice must not be modified.
	//
	// Returns:
	//   - []GPUMeshVertex: the vertices
	Vertices() []GPUMeshVertex

	// Indices returns the triangle indices. The slice must not be modified.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// VertexData returns the serialized vertex buffer contents.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the serialized index buffer contents.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius, measured as the maximum vertex
	// distance from the origin. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Version increases every time the geometry changes. The renderer compares it against
	// the version it uploaded to decide whether to rebuild buffers.
	//
	// Returns:
	//   - uint64: the geometry version
	Version() uint64

	// SetGeometry replaces the mesh geometry and re-serializes it.
	//
	// Parameters:
	//   - vertices: the new vertices
	//   - indices: the new triangle indices
	SetGeometry(vertices []GPUMeshVertex, indices []uint32)

	// Material returns the material bound as the mesh pipeline's texture group.
	//
	// Returns:
	//   - material.Material: the material, or nil
	Material() material.Material

	// SetMaterial replaces the mesh's material.
	//
	// Parameters:
	//   - mat: the material to use
	SetMaterial(mat material.Material)

	// MeshProvider retrieves the BindGroupProvider holding GPU vertex, index and instance buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh with the specified options applied.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: a new Mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(m)
	}
	id := meshCount.Add(1) - 1
	if m.meshProvider == nil {
		label := "mesh_" + common.Coalesce(m.name, strconv.FormatUint(id, 10))
		m.meshProvider = bind_group_provider.NewBindGroupProvider(label)
	}
	m.serialize()
	return m
}

// NewCube creates a cube mesh of the given edge length centered on the origin.
//
// Parameters:
//   - name: the mesh name
//   - size: the edge length
//   - options: additional MeshBuilderOption functions
//
// Returns:
//   - Mesh: the cube mesh
func NewCube(name string, size float32, options ...MeshBuilderOption) Mesh {
	vertices, indices := CubeGeometry(size)
	opts := append([]MeshBuilderOption{WithName(name), WithGeometry(vertices, indices)}, options...)
	return NewMesh(opts...)
}

// serialize rebuilds the derived data. The caller must hold the lock or own the mesh exclusively.
func (m *mesh) serialize() {
	m.vertexData = MarshalMeshVertices(m.vertices)
	m.indexData = MarshalIndices(m.indices)
	m.boundingRadius = BoundingRadius(m.vertices)
	m.version++
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []GPUMeshVertex {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indices
}

func (m *mesh) VertexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexData
}

func (m *mesh) IndexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indices)
}

func (m *mesh) BoundingRadius() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boundingRadius
}

func (m *mesh) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

func (m *mesh) SetGeometry(vertices []GPUMeshVertex, indices []uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vertices = vertices
	m.indices = indices
	m.serialize()
}

func (m *mesh) Material() material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.material
}

func (m *mesh) SetMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.material = mat
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}
