package binding

import "github.com/cogentcore/webgpu/wgpu"

const (
	// CameraUniformSize is the byte size of the camera uniform.
	CameraUniformSize = 96
	// ChunkPositionUniformSize is the byte size of the chunk offset uniform.
	ChunkPositionUniformSize = 16
	// LightUniformSize is the byte size of the point light uniform.
	LightUniformSize = 32
)

// The camera group is declared identically in both pipelines so one camera bind group is
// compatible with either, whatever slot it sits in.
func cameraEntries() []Entry {
	return []Entry{{
		Binding:    0,
		Kind:       KindUniform,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		MinSize:    CameraUniformSize,
		Label:      "camera",
	}}
}

func textureEntries(withNormal bool) []Entry {
	entries := []Entry{
		{Binding: 0, Kind: KindTexture, Visibility: wgpu.ShaderStageFragment, Label: "diffuse"},
		{Binding: 1, Kind: KindSampler, Visibility: wgpu.ShaderStageFragment, Label: "diffuse_sampler"},
	}
	if withNormal {
		entries = append(entries,
			Entry{Binding: 2, Kind: KindTexture, Visibility: wgpu.ShaderStageFragment, Label: "normal"},
			Entry{Binding: 3, Kind: KindSampler, Visibility: wgpu.ShaderStageFragment, Label: "normal_sampler"},
		)
	}
	return entries
}

// ChunkLayout returns the bind group structure of the chunk pipeline:
//
//	group 0: camera uniform
//	group 1: diffuse texture + sampler
//	group 2: chunk position uniform
//
// Returns:
//   - Layout: the chunk pipeline layout
func ChunkLayout() Layout {
	return Layout{
		Name: "chunk",
		Groups: []Group{
			{Role: RoleCamera, Index: 0, Entries: cameraEntries()},
			{Role: RoleTexture, Index: 1, Entries: textureEntries(false)},
			{Role: RoleChunkPosition, Index: 2, Entries: []Entry{{
				Binding:    0,
				Kind:       KindUniform,
				Visibility: wgpu.ShaderStageVertex,
				MinSize:    ChunkPositionUniformSize,
				Label:      "chunk_position",
			}}},
		},
	}
}

// MeshLayout returns the bind group structure of the mesh pipeline:
//
//	group 0: diffuse texture + sampler, normal texture + sampler
//	group 1: camera uniform
//	group 2: light uniform
//
// The normal texture pair is declared but not sampled by the fragment stage. It is kept
// so normal mapping can be added without changing the layout.
//
// Returns:
//   - Layout: the mesh pipeline layout
func MeshLayout() Layout {
	return Layout{
		Name: "mesh",
		Groups: []Group{
			{Role: RoleTexture, Index: 0, Entries: textureEntries(true)},
			{Role: RoleCamera, Index: 1, Entries: cameraEntries()},
			{Role: RoleLight, Index: 2, Entries: []Entry{{
				Binding:    0,
				Kind:       KindUniform,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				MinSize:    LightUniformSize,
				Label:      "light",
			}}},
		},
	}
}
