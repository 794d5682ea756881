package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/camera"
	"github.com/Carmen-Shannon/oxy-voxel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-voxel/engine/scene"
	"github.com/Carmen-Shannon/oxy-voxel/engine/window"
)

type fakeRenderer struct {
	renderer.Renderer
	calls  []string
	resize [2]int
	fail   bool
}

func (f *fakeRenderer) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	if f.fail {
		return errors.New("surface lost")
	}
	return nil
}
func (f *fakeRenderer) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeRenderer) Present() { f.calls = append(f.calls, "present") }
func (f *fakeRenderer) Resize(width, height int) { f.resize = [2]int{width, height} }

type fakeScene struct {
	scene.Scene
	name    string
	active  bool
	cam     camera.Camera
	stats   profiler.FrameStats
	log     *[]string
	updated time.Duration
}

func (s *fakeScene) Name() string { return s.name }
func (s *fakeScene) Active() bool { return s.active }
func (s *fakeScene) Camera() camera.Camera { return s.cam }
func (s *fakeScene) Update(dt time.Duration) { s.updated += dt }
func (s *fakeScene) Draw() (profiler.FrameStats, error) {
	*s.log = append(*s.log, "draw "+s.name)
	return s.stats, nil
}

type fakeWindow struct {
	window.Window
	resize func(int, int)
	down   func(uint32)
	up     func(uint32)
	look   func(float32, float32)
	scroll func(float32)
}

func (w *fakeWindow) SetResizeCallback(cb func(int, int)) { w.resize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(uint32)) { w.down = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(uint32)) { w.up = cb }
func (w *fakeWindow) SetLookCallback(cb func(float32, float32)) { w.look = cb }
func (w *fakeWindow) SetScrollCallback(cb func(float32)) { w.scroll = cb }

func TestRenderFrameDrawsActiveScenesInOrder(t *testing.T) {
	r := &fakeRenderer{}
	var drawn []string
	back := &fakeScene{name: "back", active: true, log: &drawn, stats: profiler.FrameStats{ChunksDrawn: 3, ChunksCulled: 1}}
	front := &fakeScene{name: "front", active: true, log: &drawn, stats: profiler.FrameStats{MeshesDrawn: 2, PendingBuilds: 4}}
	idle := &fakeScene{name: "idle", log: &drawn}

	e := NewEngine(WithRenderer(r), WithScene(10, front), WithScene(-1, back), WithScene(0, idle)).(*engine)
	stats := e.renderFrame(16 * time.Millisecond)

	if len(drawn) != 2 || drawn[0] != "draw back" || drawn[1] != "draw front" {
		t.Fatalf("draw order: got %v, want [draw back draw front]", drawn)
	}
	want := profiler.FrameStats{ChunksDrawn: 3, ChunksCulled: 1, MeshesDrawn: 2, PendingBuilds: 4}
	if stats != want {
		t.Fatalf("stats: got %+v, want %+v", stats, want)
	}
	if len(r.calls) != 3 || r.calls[0] != "begin" || r.calls[2] != "present" {
		t.Fatalf("frame lifecycle: got %v, want [begin end present]", r.calls)
	}
	if idle.updated != 0 || back.updated != 16*time.Millisecond {
		t.Fatal("only active scenes should be updated")
	}
}

func TestRenderFrameSkipsDrawsWhenFrameCannotBegin(t *testing.T) {
	r := &fakeRenderer{fail: true}
	var drawn []string
	e := NewEngine(WithRenderer(r), WithScene(0, &fakeScene{name: "world", active: true, log: &drawn})).(*engine)

	e.renderFrame(time.Millisecond)
	if len(drawn) != 0 || len(r.calls) != 1 {
		t.Fatalf("failed frame: drew %v with calls %v, want no draws and no present", drawn, r.calls)
	}
}

func TestInputIsRoutedToActiveCameras(t *testing.T) {
	ctrl := camera.NewCameraController(camera.WithSpeed(1))
	cam := camera.NewCamera(camera.WithController(ctrl))
	w := &fakeWindow{}
	r := &fakeRenderer{}
	var drawn []string
	NewEngine(WithWindow(w), WithRenderer(r), WithScene(0, &fakeScene{name: "world", active: true, cam: cam, log: &drawn}))

	w.resize(800, 400)
	if r.resize != [2]int{800, 400} || cam.Aspect() != 2 {
		t.Fatalf("resize: renderer got %v and aspect %v, want [800 400] and 2", r.resize, cam.Aspect())
	}

	start := ctrl.Position()
	w.down(common.KeyW)
	ctrl.Update(time.Second)
	w.up(common.KeyW)
	moved := ctrl.Position().Sub(start)
	if !common.ApproxEqual(moved.Len(), 1, 1e-4) {
		t.Fatalf("forward key: moved %v, want one unit", moved.Len())
	}
	ctrl.Update(time.Second)
	if !ctrl.Position().ApproxEqual(start.Add(moved)) {
		t.Fatal("released key should stop the camera")
	}

	yaw := ctrl.Yaw()
	w.look(10, 0)
	ctrl.Update(time.Millisecond)
	if ctrl.Yaw() == yaw {
		t.Fatal("look input should turn the camera")
	}
}
