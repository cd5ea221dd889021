// Package viewport implements §4.E's Viewport: the binding between a
// rectangular screen region, a camera.Camera, and the scene.Scene drawn
// into it. The engine's render loop walks viewports in z_order and asks
// the pipeline.Manager to collect/execute draw calls against each one's
// scene using its EffectiveTransform.
package viewport

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/oxy2d/engine/engine/camera"
	"github.com/oxy2d/engine/engine/scene"
	"github.com/oxy2d/engine/transform2d"
)

// Rect is a screen-space rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// creationCounter breaks z_order ties in registration order, matching
// the teacher's pipeline-cache registration-order tiebreaks elsewhere in
// the renderer.
var creationCounter atomic.Uint64

// Viewport binds a screen_layout rectangle and a camera_layout to a
// scene.Scene. A Viewport with a nil scene is skipped by the presenter
// without being removed from the engine's viewport list (distilled spec:
// "Nil scene ⇒ presenter skips rendering for this viewport without
// removing it").
//
// Scene is held as a plain reference, not a weak one: Go has no
// language-level weak pointer, and the engine (not the viewport) owns
// scene lifetime, so a strong reference here cannot outlive its scene's
// real owner. See DESIGN.md's open-question resolution for §4.E.
type Viewport struct {
	mu sync.Mutex

	screenLayout Rect
	cam          camera.Camera
	zOrder       int
	order        uint64

	scene scene.Scene

	onZOrderChanged func(old, new int)
}

// New creates a Viewport drawing cam into screenLayout at z-order
// zOrder. The scene is nil until SetScene is called.
func New(screenLayout Rect, cam camera.Camera, zOrder int) *Viewport {
	return &Viewport{
		screenLayout: screenLayout,
		cam:          cam,
		zOrder:       zOrder,
		order:        creationCounter.Add(1),
	}
}

// ScreenLayout returns the viewport's screen-space rectangle.
func (v *Viewport) ScreenLayout() Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screenLayout
}

// SetScreenLayout updates the viewport's screen-space rectangle, e.g. on
// window resize.
func (v *Viewport) SetScreenLayout(r Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screenLayout = r
}

// Camera returns the viewport's camera.
func (v *Viewport) Camera() camera.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cam
}

// SetCamera replaces the viewport's camera.
func (v *Viewport) SetCamera(cam camera.Camera) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam = cam
}

// ZOrder returns the viewport's draw order; lower draws first.
func (v *Viewport) ZOrder() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zOrder
}

// SetZOrder updates the viewport's draw order and fires
// on_z_order_changed if one is registered.
func (v *Viewport) SetZOrder(z int) {
	v.mu.Lock()
	old := v.zOrder
	v.zOrder = z
	cb := v.onZOrderChanged
	v.mu.Unlock()
	if cb != nil && old != z {
		cb(old, z)
	}
}

// OnZOrderChanged registers the callback fired when SetZOrder changes
// the viewport's order. Only one callback may be registered at a time;
// a later call replaces the former.
func (v *Viewport) OnZOrderChanged(cb func(old, new int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onZOrderChanged = cb
}

// Scene returns the scene currently bound to this viewport, or nil.
func (v *Viewport) Scene() scene.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

// SetScene binds s to this viewport. Passing nil disables rendering for
// this viewport without removing it from the engine's viewport list.
func (v *Viewport) SetScene(s scene.Scene) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scene = s
}

// EffectiveTransform returns ScreenProjection(screen_layout) ∘
// Camera(camera_layout)^-1: the transform2d.T mapping world-space scene
// coordinates into this viewport's screen-space pixels. The screen
// projection places world origin at the rect's center and scales by its
// pixel dimensions, so with a camera at the origin and zoom 1, one world
// unit spans the rect's full width and height.
func (v *Viewport) EffectiveTransform() transform2d.T {
	v.mu.Lock()
	rect := v.screenLayout
	cam := v.cam
	v.mu.Unlock()

	projection := transform2d.T{
		X:      rect.X + rect.Width/2,
		Y:      rect.Y + rect.Height/2,
		ScaleX: rect.Width,
		ScaleY: rect.Height,
	}
	if cam == nil {
		return projection
	}
	return transform2d.Compose(projection, cam.World().Inverse())
}

// order is used only for creation-order z_order tiebreaks; exported via
// SortByZOrder rather than directly.
func (v *Viewport) creationOrder() uint64 {
	return v.order
}

// SortByZOrder returns vps sorted ascending by z_order, breaking ties by
// registration order (earlier-created viewport first).
func SortByZOrder(vps []*Viewport) []*Viewport {
	sorted := make([]*Viewport, len(vps))
	copy(sorted, vps)
	sort.SliceStable(sorted, func(i, j int) bool {
		zi, zj := sorted[i].ZOrder(), sorted[j].ZOrder()
		if zi != zj {
			return zi < zj
		}
		return sorted[i].creationOrder() < sorted[j].creationOrder()
	})
	return sorted
}
