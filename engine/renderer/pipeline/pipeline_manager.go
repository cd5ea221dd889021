package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/oxy2d/engine/engine/renderer/drawcmd"
	"github.com/oxy2d/engine/engine/scene"
	"github.com/oxy2d/engine/identifier"
	"github.com/oxy2d/engine/transform2d"
)

// RenderPipeline is the per-node-type plug-in contract described in
// SPEC_FULL.md §4.G: one RenderPipeline is registered per scene node
// type tag (geometry, sprite, ...), and the manager drives every
// registered pipeline through collect → queue → execute each frame.
type RenderPipeline interface {
	// ComponentType is the scene node type tag this pipeline draws.
	ComponentType() identifier.Identifier

	// Shaders is the static ShaderLayout used to construct this
	// pipeline's GPU pipeline state.
	Shaders() drawcmd.ShaderLayout

	// CollectDrawCalls walks the scene's nodes of ComponentType and
	// returns one DrawCommand per visible node. effectiveTransform is the
	// viewport's ScreenProjection ∘ Camera^-1 (§4.E), composed with each
	// node's world transform before it is written as a push constant.
	CollectDrawCalls(s scene.Scene, effectiveTransform transform2d.T, viewportSize [2]float32) []drawcmd.DrawCommand

	// Execute receives the collected draw commands. The manager calls
	// this once per pipeline per frame with that pipeline's queued
	// commands. The built-in pipelines only store them (see Queued).
	Execute(cmds []drawcmd.DrawCommand) error

	// ClearDrawQueue discards any pipeline-internal per-frame state
	// (e.g. a reused instance buffer) once a frame's commands have been
	// executed.
	ClearDrawQueue()
}

// Manager owns the registered RenderPipelines and drives the
// collect → queue → execute lifecycle once per frame (§4.G).
type Manager struct {
	mu        sync.Mutex
	pipelines map[identifier.Identifier]RenderPipeline
	queued    map[identifier.Identifier][]drawcmd.DrawCommand
}

// NewManager creates an empty pipeline manager.
func NewManager() *Manager {
	return &Manager{
		pipelines: make(map[identifier.Identifier]RenderPipeline),
		queued:    make(map[identifier.Identifier][]drawcmd.DrawCommand),
	}
}

// CreatePipeline registers p, keyed by its ComponentType. Registering a
// second pipeline for the same type tag replaces the first.
func (m *Manager) CreatePipeline(p RenderPipeline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelines[p.ComponentType()] = p
}

// DestroyPipeline unregisters the pipeline for typeTag, if any.
func (m *Manager) DestroyPipeline(typeTag identifier.Identifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pipelines, typeTag)
	delete(m.queued, typeTag)
}

// Collect runs every registered pipeline's CollectDrawCalls against s
// and appends the results to that pipeline's staged queue. Called once
// per visible viewport each frame, so a single Execute batches every
// viewport's draw commands into one submission per pipeline (matching
// the teacher's single-render-pass-per-frame design).
func (m *Manager) Collect(s scene.Scene, effectiveTransform transform2d.T, viewportSize [2]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for typeTag, p := range m.pipelines {
		m.queued[typeTag] = append(m.queued[typeTag], p.CollectDrawCalls(s, effectiveTransform, viewportSize)...)
	}
}

// Execute runs every registered pipeline's Execute against its queued
// draw commands, in a deterministic order (identifier.Less: ascending
// text of the type tags; registration order is not kept), then clears
// each pipeline's draw queue.
func (m *Manager) Execute() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := make([]identifier.Identifier, 0, len(m.pipelines))
	for typeTag := range m.pipelines {
		order = append(order, typeTag)
	}
	sort.Slice(order, func(i, j int) bool { return identifier.Less(order[i], order[j]) })

	for _, typeTag := range order {
		p := m.pipelines[typeTag]
		if err := p.Execute(m.queued[typeTag]); err != nil {
			return fmt.Errorf("pipeline %s: %w", identifier.Display(typeTag), err)
		}
		p.ClearDrawQueue()
		delete(m.queued, typeTag)
	}
	return nil
}

// ClearDrawQueue discards all staged draw commands without executing
// them (e.g. when a frame is discarded mid-record).
func (m *Manager) ClearDrawQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for typeTag := range m.queued {
		delete(m.queued, typeTag)
	}
}

// QueuedDrawCallCount returns the total number of draw commands staged
// across every registered pipeline's queue. Used by the profiler to
// report draw-call throughput alongside frame rate.
func (m *Manager) QueuedDrawCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, cmds := range m.queued {
		n += len(cmds)
	}
	return n
}

// RecreatePipelines rebuilds every registered pipeline's GPU pipeline
// state, in the same deterministic order as Execute. Called after a
// swapchain resize or present-mode change invalidates existing pipeline
// objects; register is the renderer backend's RegisterRenderPipeline-
// equivalent hook, invoked once per registered pipeline's ShaderLayout.
func (m *Manager) RecreatePipelines(register func(typeTag identifier.Identifier, shaders drawcmd.ShaderLayout) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := make([]identifier.Identifier, 0, len(m.pipelines))
	for typeTag := range m.pipelines {
		order = append(order, typeTag)
	}
	sort.Slice(order, func(i, j int) bool { return identifier.Less(order[i], order[j]) })

	for _, typeTag := range order {
		if err := register(typeTag, m.pipelines[typeTag].Shaders()); err != nil {
			return fmt.Errorf("recreate pipeline %s: %w", identifier.Display(typeTag), err)
		}
	}
	return nil
}
