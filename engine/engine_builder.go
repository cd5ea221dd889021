package engine

import (
	"time"

	"github.com/oxy2d/engine/engine/renderer/arena"
	"github.com/oxy2d/engine/engine/renderer/presenter"
	"github.com/oxy2d/engine/engine/scene"
	"github.com/oxy2d/engine/engine/viewport"
	"github.com/oxy2d/engine/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for game logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene registers a scene under the given key during engine construction.
// The key only identifies the scene in the engine's scene registry; what is
// drawn, and in which order, comes from the viewports and their z_order.
//
// Parameters:
//   - key: the registry key for the scene
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithViewport registers a viewport at the given key during engine
// construction. See Engine.AddViewport.
func WithViewport(key int, v *viewport.Viewport) EngineBuilderOption {
	return func(e *engine) {
		e.viewports[key] = v
	}
}

// WithPresenterBackend attaches the frame presenter's GPU backend
// (acquire/submit/present) and the number of frames in flight
// (§6's max_frames_in_flight, ≥1, default 2).
func WithPresenterBackend(backend presenter.Backend, maxFramesInFlight int) EngineBuilderOption {
	return func(e *engine) {
		if maxFramesInFlight < 1 {
			maxFramesInFlight = 1
		}
		e.maxFramesInFlight = maxFramesInFlight
		e.presenter = presenter.New(backend, maxFramesInFlight)
	}
}

// WithTransientArena attaches the process-wide transient GPU buffer
// arena (§4.B) and its capacity in bytes (§6's transient_arena_bytes,
// nonzero, default 16 MiB).
func WithTransientArena(a *arena.Arena, capacityBytes uint64) EngineBuilderOption {
	return func(e *engine) {
		if capacityBytes == 0 {
			capacityBytes = 16 << 20
		}
		e.transientArenaBytes = capacityBytes
		e.arena = a
	}
}

// WithRequireSwapchain toggles headless test-mode construction (§6): when
// false, the engine is expected to run without a live swapchain backend,
// e.g. for node/scene unit tests that never call Run.
func WithRequireSwapchain(required bool) EngineBuilderOption {
	return func(e *engine) {
		e.requireSwapchain = required
	}
}

// WithValidation records the validation flag (§6). The engine stores the
// value only; it does not pass it on to the GPU backend.
func WithValidation(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.validation = enabled
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
