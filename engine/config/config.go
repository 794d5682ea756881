// Package config loads the YAML file that describes a voxel world run: the window, renderer,
// camera, light, chunk builder and engine loop settings. Every section turns into the option
// sets of the matching constructor, so a loaded Config never bypasses the builders.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-voxel/engine"
	"github.com/Carmen-Shannon/oxy-voxel/engine/camera"
	"github.com/Carmen-Shannon/oxy-voxel/engine/chunk"
	"github.com/Carmen-Shannon/oxy-voxel/engine/light"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-voxel/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the root of the YAML document.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Camera   CameraConfig   `yaml:"camera"`
	Light    LightConfig    `yaml:"light"`
	World    WorldConfig    `yaml:"world"`
	Engine   EngineConfig   `yaml:"engine"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RendererConfig struct {
	// MSAA is the sample count: 1, 4, 8 or 16.
	MSAA             int        `yaml:"msaa"`
	VSync            bool       `yaml:"vsync"`
	ClearColor       [3]float64 `yaml:"clear_color"`
	SoftwareRenderer bool       `yaml:"software_renderer"`
	// CullFaces discards back faces. Turning it off shows both sides of every quad.
	CullFaces bool `yaml:"cull_faces"`
}

type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	// Yaw, Pitch and Fov are in degrees.
	Yaw         float32 `yaml:"yaw"`
	Pitch       float32 `yaml:"pitch"`
	Fov         float32 `yaml:"fov"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Speed       float32 `yaml:"speed"`
	Sensitivity float32 `yaml:"sensitivity"`
	Ambient     float32 `yaml:"ambient"`
}

type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
	Radius   float32    `yaml:"radius"`
	Enabled  bool       `yaml:"enabled"`
}

type WorldConfig struct {
	// ChunkRadius is the number of chunks generated in each horizontal direction from the origin.
	ChunkRadius int `yaml:"chunk_radius"`
	// Layers is the number of chunk layers stacked vertically.
	Layers       int    `yaml:"layers"`
	Workers      int    `yaml:"workers"`
	QueueSize    int    `yaml:"queue_size"`
	Atlas        string `yaml:"atlas"`
	AtlasColumns uint32 `yaml:"atlas_columns"`
	AtlasRows    uint32 `yaml:"atlas_rows"`
	DisableCull  bool   `yaml:"disable_culling"`
}

type EngineConfig struct {
	TickRate   float64 `yaml:"tick_rate"`
	FrameLimit float64 `yaml:"frame_limit"`
	Profiling  bool    `yaml:"profiling"`
}

// Default returns the configuration used for every key the YAML file omits.
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "oxy-voxel", Width: 1280, Height: 720},
		Renderer: RendererConfig{
			MSAA:       int(renderer.MSAA4x),
			VSync:      true,
			ClearColor: [3]float64{0.1, 0.2, 0.3},
			CullFaces:  true,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 5, 10},
			Yaw:         -90,
			Pitch:       -20,
			Fov:         45,
			Near:        0.1,
			Far:         100,
			Speed:       4,
			Sensitivity: 0.4,
			Ambient:     camera.DefaultAmbientStrength,
		},
		Light: LightConfig{
			Position: [3]float32{0, 8, 0},
			Color:    [3]float32{1, 1, 1},
			Radius:   20,
			Enabled:  true,
		},
		World: WorldConfig{
			ChunkRadius:  2,
			Layers:       1,
			Workers:      4,
			QueueSize:    256,
			AtlasColumns: 1,
			AtlasRows:    1,
		},
		Engine: EngineConfig{TickRate: 60},
	}
}

// Load reads a YAML file on top of Default and validates the result.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	log.Printf("[Config] loaded %s", path)
	return cfg, nil
}

// Parse decodes a YAML document on top of Default and validates the result. Unknown keys are
// rejected so a typo does not silently fall back to a default.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the decoded configuration
//   - error: a parse or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the engine cannot run with. An ambient strength outside [0, 1] is
// allowed but logged, since the mesh pipeline does not clamp its output.
//
// Returns:
//   - error: every failure joined, each wrapping ErrInvalid
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		fail("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, ok := renderer.ParseMSAA(c.Renderer.MSAA); !ok {
		fail("msaa %d must be 1, 4, 8 or 16", c.Renderer.MSAA)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		fail("camera planes near %v far %v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		fail("camera fov %v must be in (0, 180)", c.Camera.Fov)
	}
	if c.Camera.Ambient < 0 || c.Camera.Ambient > 1 {
		log.Printf("[Config] camera ambient %v is outside [0, 1]; lit colors will exceed the display range", c.Camera.Ambient)
	}
	if r := float64(c.Light.Radius); math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		fail("light radius %v must be > 0", c.Light.Radius)
	}
	if c.World.Workers < 1 {
		fail("world workers %d must be at least 1", c.World.Workers)
	}
	if c.World.QueueSize < 1 {
		fail("world queue_size %d must be at least 1", c.World.QueueSize)
	}
	if c.World.ChunkRadius < 0 {
		fail("world chunk_radius %d must not be negative", c.World.ChunkRadius)
	}
	if c.World.Layers < 1 {
		fail("world layers %d must be at least 1", c.World.Layers)
	}
	if c.World.AtlasColumns == 0 || c.World.AtlasRows == 0 {
		fail("world atlas grid %dx%d must not be empty", c.World.AtlasColumns, c.World.AtlasRows)
	}
	return errors.Join(errs...)
}

// WindowOptions returns the window builder options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
	}
}

// RendererOptions returns the renderer builder options.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	msaa, _ := renderer.ParseMSAA(c.Renderer.MSAA)
	mode := renderer.PresentModeVSync
	if !c.Renderer.VSync {
		mode = renderer.PresentModeUncapped
	}
	return []renderer.RendererBuilderOption{
		renderer.WithMSAA(msaa),
		renderer.WithPresentMode(mode),
		renderer.WithClearColor(wgpu.Color{R: c.Renderer.ClearColor[0], G: c.Renderer.ClearColor[1], B: c.Renderer.ClearColor[2], A: 1}),
		renderer.WithForceSoftwareRenderer(c.Renderer.SoftwareRenderer),
	}
}

// PipelineOptions returns the options applied to both the chunk and the mesh pipeline.
func (c Config) PipelineOptions() []pipeline.PipelineBuilderOption {
	if c.Renderer.CullFaces {
		return nil
	}
	return []pipeline.PipelineBuilderOption{pipeline.WithCullMode(wgpu.CullModeNone)}
}

// CameraOptions returns the camera builder options, including a fly controller built from the
// camera section. Angles are converted from degrees.
//
// Parameters:
//   - aspect: the initial aspect ratio
//
// Returns:
//   - []camera.CameraBuilderOption: the camera options
func (c Config) CameraOptions(aspect float32) []camera.CameraBuilderOption {
	cc := c.Camera
	ctrl := camera.NewCameraController(
		camera.WithPosition(cc.Position[0], cc.Position[1], cc.Position[2]),
		camera.WithYaw(radians(cc.Yaw)),
		camera.WithPitch(radians(cc.Pitch)),
		camera.WithSpeed(cc.Speed),
		camera.WithSensitivity(cc.Sensitivity),
	)
	return []camera.CameraBuilderOption{
		camera.WithController(ctrl),
		camera.WithFov(radians(cc.Fov)),
		camera.WithAspect(aspect),
		camera.WithNear(cc.Near),
		camera.WithFar(cc.Far),
		camera.WithAmbientStrength(cc.Ambient),
	}
}

// LightOptions returns the point light builder options.
func (c Config) LightOptions() []light.LightBuilderOption {
	l := c.Light
	return []light.LightBuilderOption{
		light.WithPosition(l.Position[0], l.Position[1], l.Position[2]),
		light.WithColor(l.Color[0], l.Color[1], l.Color[2]),
		light.WithRadius(l.Radius),
		light.WithEnabled(l.Enabled),
	}
}

// BuilderOptions returns the chunk mesh builder options.
func (c Config) BuilderOptions() []chunk.BuilderOption {
	return []chunk.BuilderOption{
		chunk.WithWorkers(c.World.Workers),
		chunk.WithQueueSize(c.World.QueueSize),
		chunk.WithAtlas(c.Atlas()),
	}
}

// Atlas returns the texture atlas grid of the world section.
func (c Config) Atlas() chunk.Atlas {
	return chunk.Atlas{Columns: c.World.AtlasColumns, Rows: c.World.AtlasRows}
}

// EngineOptions returns the engine loop options.
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithTickRate(c.Engine.TickRate),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
		engine.WithProfiling(c.Engine.Profiling),
	}
}

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}
