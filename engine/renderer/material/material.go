package material

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
)

// materialCount is used to label bind group providers of unnamed materials.
var materialCount atomic.Uint64

// FlatNormal is the RGBA value of a tangent-space normal pointing straight out of the surface.
var FlatNormal = [4]uint8{128, 128, 255, 255}

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name              string
	diffuse           common.TextureSource
	normal            *common.TextureSource
	sampler           common.SamplerStagingData
	bindGroupProvider bind_group_provider.BindGroupProvider

	decoded *Textures
}

// Textures holds the decoded images of a material ready for upload.
type Textures struct {
	// Diffuse is the base color texture.
	Diffuse common.TextureStagingData

	// Normal is the tangent-space normal map. When the material has no normal map this is a
	// 1x1 FlatNormal texture.
	Normal common.TextureStagingData
}

// Material defines the interface for a render material: the texture group bound before
// chunk or mesh draws.
//
// A material always has a diffuse texture. The normal map is optional; pipelines whose
// texture group declares a normal texture get a flat normal when none is set.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseSource returns where the diffuse image comes from.
	//
	// Returns:
	//   - common.TextureSource: the diffuse texture source
	DiffuseSource() common.TextureSource

	// NormalSource returns the normal map source, if any.
	//
	// Returns:
	//   - common.TextureSource: the normal map source
	//   - bool: false if the material has no normal map
	NormalSource() (common.TextureSource, bool)

	// Sampler returns the sampler settings shared by the diffuse and normal textures.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler settings
	Sampler() common.SamplerStagingData

	// Decode decodes the material's images. The result is cached; later calls return the
	// same data without touching the sources again.
	//
	// Returns:
	//   - Textures: the decoded diffuse and normal textures
	//   - error: error if an image cannot be decoded
	Decode() (Textures, error)

	// BindGroupProvider retrieves the provider that holds this material's GPU textures,
	// samplers and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider replaces the material's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to associate
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:      &sync.Mutex{},
		sampler: common.PixelArtSampler(),
	}
	for _, opt := range options {
		opt(m)
	}
	id := materialCount.Add(1) - 1
	if m.bindGroupProvider == nil {
		label := "material_" + common.Coalesce(m.name, strconv.FormatUint(id, 10))
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(label)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseSource() common.TextureSource {
	return m.diffuse
}

func (m *material) NormalSource() (common.TextureSource, bool) {
	if m.normal == nil {
		return common.TextureSource{}, false
	}
	return *m.normal, true
}

func (m *material) Sampler() common.SamplerStagingData {
	return m.sampler
}

func (m *material) Decode() (Textures, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.decoded != nil {
		return *m.decoded, nil
	}

	diffuse, err := m.diffuse.Decode()
	if err != nil {
		return Textures{}, fmt.Errorf("material %q diffuse: %w", m.name, err)
	}

	normal := common.SolidTexture(1, 1, FlatNormal)
	if m.normal != nil {
		normal, err = m.normal.Decode()
		if err != nil {
			return Textures{}, fmt.Errorf("material %q normal map: %w", m.name, err)
		}
	}

	m.decoded = &Textures{Diffuse: diffuse, Normal: normal}
	return *m.decoded, nil
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
