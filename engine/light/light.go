package light

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// lightCount is an atomic counter used to generate unique bind group provider names for each light.
var lightCount atomic.Uint64

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	color    mgl32.Vec3
	radius   float32
	enabled  bool

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Light defines the interface for the point light evaluated by the mesh pipeline.
//
// The light emits in all directions from its position. Its contribution falls off
// quadratically with distance and reaches zero at the radius (see Attenuation). The
// light colour also tints the ambient term, scaled by the camera's ambient strength.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Color returns the RGB color of the light. Values above 1 are allowed.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Radius returns the distance at which the light's contribution reaches zero.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// Enabled returns whether this light contributes to rendering.
	// A disabled light is uploaded with a black colour.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// Validate checks the light's invariants.
	//
	// Returns:
	//   - error: ErrInvalidRadius if the radius is not > 0
	Validate() error

	// Uniform builds the GPU uniform for this light. An invalid light refuses to produce one.
	//
	// Returns:
	//   - GPULightUniform: the uniform ready to marshal
	//   - error: ErrInvalidRadius if the radius is not > 0
	Uniform() (GPULightUniform, error)

	// BindGroupProvider returns the light's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider or nil
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetRadius sets the attenuation radius. The value is not checked until Validate or Uniform.
	//
	// Parameters:
	//   - radius: the radius
	SetRadius(radius float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetBindGroupProvider sets the light's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Light = &lightImpl{}

// NewLight creates a new white point light at the origin with any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:      &sync.Mutex{},
		color:   mgl32.Vec3{1, 1, 1},
		radius:  10.0,
		enabled: true,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"light_" + strconv.FormatUint(lightCount.Load(), 10),
		),
	}
	for _, opt := range opts {
		opt(l)
	}
	lightCount.Add(1)
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Radius() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.radius
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) Validate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return validateRadius(l.radius)
}

func (l *lightImpl) Uniform() (GPULightUniform, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := GPULightUniform{
		Position: l.position,
		Radius:   l.radius,
	}
	if l.enabled {
		u.Color = l.color
	}
	if err := u.Validate(); err != nil {
		return GPULightUniform{}, err
	}
	return u, nil
}

func (l *lightImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bindGroupProvider
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetRadius(radius float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.radius = radius
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bindGroupProvider = provider
}
