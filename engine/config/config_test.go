package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/engine/camera"
	"github.com/Carmen-Shannon/oxy-voxel/engine/light"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestParseKeepsDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  title: test world
world:
  chunk_radius: 5
  workers: 2
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Window.Title != "test world" || cfg.Window.Width != 1280 {
		t.Fatalf("window: got %+v, want the title overridden and the default width kept", cfg.Window)
	}
	if cfg.World.ChunkRadius != 5 || cfg.World.Workers != 2 || cfg.World.QueueSize != 256 {
		t.Fatalf("world: got %+v", cfg.World)
	}
	if cfg.Light.Radius != 20 || !cfg.Light.Enabled {
		t.Fatalf("light: got %+v, want the defaults", cfg.Light)
	}
}

func TestParseEmptyDocumentIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("empty document: got %+v, want the defaults", cfg)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("world:\n  chunk_raduis: 3\n")); err == nil {
		t.Fatal("misspelled key: expected an error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(*Config)
		substr string
	}{
		{"zero light radius", func(c *Config) { c.Light.Radius = 0 }, "light radius"},
		{"no workers", func(c *Config) { c.World.Workers = 0 }, "workers"},
		{"no queue", func(c *Config) { c.World.QueueSize = 0 }, "queue_size"},
		{"negative chunk radius", func(c *Config) { c.World.ChunkRadius = -1 }, "chunk_radius"},
		{"bad msaa", func(c *Config) { c.Renderer.MSAA = 3 }, "msaa"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "camera planes"},
		{"empty window", func(c *Config) { c.Window.Height = 0 }, "window size"},
		{"empty atlas grid", func(c *Config) { c.World.AtlasRows = 0 }, "atlas grid"},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.edit(&cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), tt.substr) {
			t.Errorf("%s: got %v, want ErrInvalid mentioning %q", tt.name, err, tt.substr)
		}
	}

	cfg := Default()
	cfg.Camera.Ambient = 1.5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("ambient above 1 should only warn: %v", err)
	}
}

func TestValidateJoinsEveryFailure(t *testing.T) {
	cfg := Default()
	cfg.Light.Radius = -1
	cfg.World.Workers = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "light radius") || !strings.Contains(err.Error(), "workers") {
		t.Fatalf("got %v, want both failures reported", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte("camera:\n  fov: 60\n  ambient: 0.2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Camera.Fov != 60 || cfg.Camera.Ambient != 0.2 {
		t.Fatalf("camera: got %+v", cfg.Camera)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file: expected an error")
	}
}

func TestOptionsApplyConfig(t *testing.T) {
	cfg := Default()
	cfg.Camera.Position = [3]float32{1, 2, 3}
	cfg.Camera.Far = 250
	cfg.Light.Radius = 7
	cfg.Light.Enabled = false

	cam := camera.NewCamera(cfg.CameraOptions(2)...)
	if cam.Far() != 250 || cam.Aspect() != 2 {
		t.Fatalf("camera: far %v aspect %v, want 250 and 2", cam.Far(), cam.Aspect())
	}
	if got := cam.Position(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("camera position: got %v, want (1, 2, 3)", got)
	}
	if cam.Controller() == nil {
		t.Fatal("camera should carry a fly controller")
	}

	l := light.NewLight(cfg.LightOptions()...)
	if l.Radius() != 7 || l.Enabled() {
		t.Fatalf("light: radius %v enabled %v, want 7 and false", l.Radius(), l.Enabled())
	}

	if got := cfg.Atlas(); got.Columns != 1 || got.Rows != 1 {
		t.Fatalf("atlas: got %+v, want 1x1", got)
	}
	if n := len(cfg.RendererOptions()); n != 4 {
		t.Fatalf("renderer options: got %d, want 4", n)
	}

	if opts := cfg.PipelineOptions(); len(opts) != 0 {
		t.Fatalf("culling on: got %d pipeline options, want none", len(opts))
	}
	cfg.Renderer.CullFaces = false
	if got := pipeline.NewChunkPipeline(cfg.PipelineOptions()...).Raster().CullMode; got != wgpu.CullModeNone {
		t.Fatalf("culling off: got cull mode %v, want none", got)
	}
}
