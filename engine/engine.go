package engine

import (
	"log"
	"sync"
	"time"

	"github.com/oxy2d/engine/engine/profiler"
	"github.com/oxy2d/engine/engine/renderer/arena"
	"github.com/oxy2d/engine/engine/renderer/pipeline"
	"github.com/oxy2d/engine/engine/renderer/presenter"
	"github.com/oxy2d/engine/engine/scene"
	"github.com/oxy2d/engine/engine/viewport"
	"github.com/oxy2d/engine/engine/window"
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes    map[int]scene.Scene
	viewports map[int]*viewport.Viewport

	presenter *presenter.Presenter
	pipelines *pipeline.Manager
	arena     *arena.Arena

	lastFrameDrawCalls int
	lastFrameViewports int

	maxFramesInFlight   int
	transientArenaBytes uint64
	requireSwapchain    bool
	validation          bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame.
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given key. A scene need not be
	// attached to any viewport to exist; viewports reference scenes by
	// value via SetScene.
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene registered at key.
	RemoveScene(key int)

	// Scene retrieves the scene registered at key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by their
	// registration key.
	Scenes() map[int]scene.Scene

	// AddViewport registers v at the given key. Viewports are walked in
	// ascending z_order (creation order breaking ties) once per frame.
	AddViewport(key int, v *viewport.Viewport)

	// RemoveViewport removes the viewport registered at key.
	RemoveViewport(key int)

	// Viewport retrieves the viewport registered at key, or nil.
	Viewport(key int) *viewport.Viewport

	// Viewports returns a copy of all registered viewports keyed by
	// their registration key.
	Viewports() map[int]*viewport.Viewport

	// Pipelines returns the engine's render pipeline manager, so callers
	// can register/unregister per-node-type RenderPipelines (§4.G).
	Pipelines() *pipeline.Manager

	// Run starts the main engine loop (blocks until window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Initializes message channels and profiler with sensible defaults.
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:     make(chan time.Duration, 1),
		quitChannel:         make(chan struct{}),
		scenes:              make(map[int]scene.Scene),
		viewports:           make(map[int]*viewport.Viewport),
		pipelines:           pipeline.NewManager(),
		running:             false,
		wg:                  sync.WaitGroup{},
		profiler:            profiler.NewProfiler(),
		profilingEnabled:    false,
		engineTickRate:      time.Second / 60,
		maxFramesInFlight:   2,
		transientArenaBytes: 16 << 20,
		requireSwapchain:    true,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			for _, v := range e.viewports {
				r := v.ScreenLayout()
				r.Width, r.Height = float32(width), float32(height)
				v.SetScreenLayout(r)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Pipelines() *pipeline.Manager {
	return e.pipelines
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.running = true
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
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
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its
// own goroutine. Each iteration drives one presenter frame: reset the
// transient arena, walk visible viewports in z_order collecting draw
// calls into the pipeline manager, then record/submit/present. A
// viewport with a nil scene (§4.E) is skipped without being removed; a
// viewport with a nil camera is drawn with its screen projection alone.
// Recovers from panics to avoid crashing the process and signals quit
// on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
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
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame(dt)

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick(e.lastFrameDrawCalls, e.lastFrameViewports)
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame drives one full presenter cycle. Acquire/record/submit/
// present failures are logged and end the frame early; none of them is
// returned to the caller or stops the engine.
func (e *engine) renderFrame(dt float32) {
	if e.arena != nil {
		e.arena.Reset()
	}

	visible := make([]*viewport.Viewport, 0, len(e.viewports))
	for _, v := range e.viewports {
		if v.Scene() != nil {
			visible = append(visible, v)
		}
	}
	ordered := viewport.SortByZOrder(visible)
	e.lastFrameViewports = len(ordered)

	if e.presenter == nil || e.pipelines == nil {
		return
	}

	if err := e.presenter.BeginFrame(); err != nil {
		log.Printf("presenter: begin frame: %v", err)
		return
	}

	for _, v := range ordered {
		cam := v.Camera()
		if cam != nil {
			cam.Update(dt)
		}
		rect := v.ScreenLayout()
		e.pipelines.Collect(v.Scene(), v.EffectiveTransform(), [2]float32{rect.Width, rect.Height})
	}

	if err := e.presenter.RecordFrame(); err != nil {
		log.Printf("presenter: record frame: %v", err)
		e.pipelines.ClearDrawQueue()
		_ = e.presenter.DiscardFrame()
		return
	}

	e.lastFrameDrawCalls = e.pipelines.QueuedDrawCallCount()
	if err := e.pipelines.Execute(); err != nil {
		log.Printf("pipeline manager: execute: %v", err)
	}

	if err := e.presenter.SubmitFrame(); err != nil {
		log.Printf("presenter: submit frame: %v", err)
		return
	}

	if err := e.presenter.Present(); err != nil {
		log.Printf("presenter: present: %v", err)
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
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
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) AddViewport(key int, v *viewport.Viewport) {
	e.viewports[key] = v
}

func (e *engine) RemoveViewport(key int) {
	delete(e.viewports, key)
}

func (e *engine) Viewport(key int) *viewport.Viewport {
	return e.viewports[key]
}

func (e *engine) Viewports() map[int]*viewport.Viewport {
	cp := make(map[int]*viewport.Viewport, len(e.viewports))
	for k, v := range e.viewports {
		cp[k] = v
	}
	return cp
}
