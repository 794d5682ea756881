package mesh

import (
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/material"
)

// MeshBuilderOption is a function that configures a mesh during construction.
type MeshBuilderOption func(*mesh)

// WithName sets the mesh identifier.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithGeometry sets the mesh vertices and indices.
//
// Parameters:
//   - vertices: the mesh vertices
//   - indices: the triangle indices
//
// Returns:
//   - MeshBuilderOption: a function that applies the geometry option to a mesh
func WithGeometry(vertices []GPUMeshVertex, indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.vertices = vertices
		m.indices = indices
	}
}

// WithGeneratedFrame recomputes normals, tangents and bitangents from the geometry. Apply it
// after WithGeometry.
//
// Returns:
//   - MeshBuilderOption: a function that regenerates the vertex frame of a mesh
func WithGeneratedFrame() MeshBuilderOption {
	return func(m *mesh) {
		GenerateNormals(m.vertices, m.indices)
		GenerateTangents(m.vertices, m.indices)
	}
}

// WithMaterial sets the material bound when the mesh is drawn.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - MeshBuilderOption: a function that applies the material option to a mesh
func WithMaterial(mat material.Material) MeshBuilderOption {
	return func(m *mesh) {
		m.material = mat
	}
}

// WithMeshProvider sets the BindGroupProvider holding GPU mesh buffers.
//
// Parameters:
//   - provider: the mesh provider
//
// Returns:
//   - MeshBuilderOption: a function that applies the provider option to a mesh
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(m *mesh) {
		m.meshProvider = provider
	}
}
