package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/material"
)

// materialResources is the decoded texture and sampler data for one material, keyed by the
// binding index it will occupy in a texture group.
type materialResources struct {
	textures map[int]common.TextureStagingData
	samplers map[int]common.SamplerStagingData
}

// stageMaterial maps a material onto the entries of a texture group. Texture entries labelled
// "normal" receive the normal map (or the flat fallback), every other texture entry receives the
// diffuse image. Every sampler entry receives the material's sampler.
//
// Parameters:
//   - group: the texture group of the target pipeline layout
//   - m: the material to stage
//
// Returns:
//   - materialResources: staging data keyed by binding index
//   - error: a decode error, or an error if the group holds a uniform
func stageMaterial(group binding.Group, m material.Material) (materialResources, error) {
	tex, err := m.Decode()
	if err != nil {
		return materialResources{}, err
	}

	res := materialResources{
		textures: make(map[int]common.TextureStagingData),
		samplers: make(map[int]common.SamplerStagingData),
	}
	for _, e := range group.Entries {
		switch e.Kind {
		case binding.KindTexture:
			if e.Label == "normal" {
				res.textures[int(e.Binding)] = tex.Normal
			} else {
				res.textures[int(e.Binding)] = tex.Diffuse
			}
		case binding.KindSampler:
			res.samplers[int(e.Binding)] = m.Sampler()
		default:
			return materialResources{}, fmt.Errorf("material %s: binding %d of the %s group is a %s", m.Name(), e.Binding, group.Role, e.Kind)
		}
	}
	return res, nil
}
