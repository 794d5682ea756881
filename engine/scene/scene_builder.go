package scene

import (
	"log"

	"github.com/Carmen-Shannon/oxy-voxel/engine/chunk"
	"github.com/Carmen-Shannon/oxy-voxel/engine/game_object"
	"github.com/Carmen-Shannon/oxy-voxel/engine/light"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/material"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithLight sets the point light used by the mesh pipeline.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.light = l
	}
}

// WithAtlas sets the material bound as the chunk pipeline's texture group. Every chunk samples
// its block tiles from this one texture.
//
// Parameters:
//   - atlas: the atlas material
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAtlas(atlas material.Material) SceneBuilderOption {
	return func(s *scene) {
		s.atlas = atlas
	}
}

// WithBuilder sets the chunk mesh builder. The scene does not stop a builder it was given.
// Without this option the scene starts and owns a default builder.
//
// Parameters:
//   - b: the builder
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBuilder(b chunk.Builder) SceneBuilderOption {
	return func(s *scene) {
		s.builder = b
	}
}

// WithChunks places initial chunks in the scene.
//
// Parameters:
//   - chunks: the chunks to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithChunks(chunks ...chunk.Chunk) SceneBuilderOption {
	return func(s *scene) {
		for _, c := range chunks {
			s.chunks[c.Coord()] = &chunkEntry{chunk: c}
		}
	}
}

// WithObjects places initial mesh objects in the scene. Objects whose mesh has no material are
// skipped with a log line.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if err := s.Add(obj); err != nil {
				log.Printf("[Scene] %s: skipping object: %v", s.name, err)
			}
		}
	}
}

// WithCullingDisabled disables frustum and distance culling so every chunk and object is drawn.
//
// Parameters:
//   - disabled: true to disable culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithPipelines overrides the pipeline keys chunks and mesh objects are drawn with.
//
// Parameters:
//   - chunkKey: the chunk pipeline key
//   - meshKey: the mesh pipeline key
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPipelines(chunkKey, meshKey string) SceneBuilderOption {
	return func(s *scene) {
		s.chunkPipeline = chunkKey
		s.meshPipeline = meshKey
	}
}
