package engine

import (
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/engine/camera"
	"github.com/Carmen-Shannon/oxy-voxel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-voxel/engine/scene"
	"github.com/Carmen-Shannon/oxy-voxel/engine/window"
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenesMu *sync.RWMutex
	scenes   map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer every scene draws through.
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Stats returns the frame statistics most recently reported to the profiler.
	Stats() profiler.FrameStats

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic and world edits.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame after the frame is presented.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are drawn in ascending key order within one render pass.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the engine and render loops and pumps window events on the calling goroutine.
	// Blocks until the window closes, then stops both loops and releases every scene and the renderer.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The window's resize, key, look and scroll callbacks are routed to the renderer and to the
// camera controllers of the active scenes.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		scenesMu:         &sync.RWMutex{},
		scenes:           make(map[int]scene.Scene),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(time.Second),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.bindInput()
	}

	return e
}

// bindInput wires window events to the renderer and the active cameras.
func (e *engine) bindInput() {
	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		if height <= 0 {
			return
		}
		for _, c := range e.activeCameras() {
			c.SetAspect(float32(width) / float32(height))
		}
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		for _, ctrl := range e.activeControllers() {
			ctrl.ProcessKey(int(keyCode), true)
		}
	})
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		for _, ctrl := range e.activeControllers() {
			ctrl.ProcessKey(int(keyCode), false)
		}
	})
	e.window.SetLookCallback(func(dx, dy float32) {
		for _, ctrl := range e.activeControllers() {
			ctrl.ProcessMouse(dx, dy)
		}
	})
	e.window.SetScrollCallback(func(delta float32) {
		for _, ctrl := range e.activeControllers() {
			ctrl.ProcessScroll(delta)
		}
	})
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// activeCameras returns the distinct cameras of the active scenes.
func (e *engine) activeCameras() []camera.Camera {
	var out []camera.Camera
	for _, s := range e.activeScenes() {
		if c := s.Camera(); c != nil && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// activeControllers returns the distinct camera controllers of the active scenes.
func (e *engine) activeControllers() []camera.CameraController {
	var out []camera.CameraController
	for _, c := range e.activeCameras() {
		if ctrl := c.Controller(); ctrl != nil && !slices.Contains(out, ctrl) {
			out = append(out, ctrl)
		}
	}
	return out
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.release()
}

// release frees every scene and then the renderer. Called once both loops have exited.
func (e *engine) release() {
	e.scenesMu.Lock()
	for _, s := range e.scenes {
		s.Release()
	}
	e.scenesMu.Unlock()
	if e.renderer != nil {
		e.renderer.Release()
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		_ = e.window.Close()
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Moves the active cameras and fires the tick callback at the configured tick rate, listening for
// dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			elapsed := now.Sub(lastTick)
			lastTick = now

			for _, ctrl := range e.activeControllers() {
				ctrl.Update(elapsed)
			}
			if e.tickCallback != nil {
				e.tickCallback(float32(elapsed.Seconds()))
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Every active scene is updated, then drawn in ascending z-index order inside one render pass.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			elapsed := now.Sub(lastRender)
			lastRender = now

			stats := e.renderFrame(elapsed)

			if e.renderCallback != nil {
				e.renderCallback(float32(elapsed.Seconds()))
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick(stats)
			}

			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame runs one frame lifecycle: update every active scene, then BeginFrame, Draw each
// scene, EndFrame and Present once. A frame whose surface texture could not be acquired is skipped.
func (e *engine) renderFrame(dt time.Duration) profiler.FrameStats {
	var total profiler.FrameStats
	if e.renderer == nil {
		return total
	}

	active := e.activeScenes()
	for _, s := range active {
		s.Update(dt)
	}
	if len(active) == 0 {
		return total
	}

	if err := e.renderer.BeginFrame(); err != nil {
		return total
	}
	for _, s := range active {
		stats, err := s.Draw()
		if err != nil {
			log.Printf("[Engine] scene %s: %v", s.Name(), err)
		}
		total.ChunksDrawn += stats.ChunksDrawn
		total.ChunksCulled += stats.ChunksCulled
		total.MeshesDrawn += stats.MeshesDrawn
		total.PendingBuilds += stats.PendingBuilds
	}
	e.renderer.EndFrame()
	e.renderer.Present()
	return total
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Stats() profiler.FrameStats {
	return e.profiler.Last()
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running {
		// Non-blocking send - if the channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
