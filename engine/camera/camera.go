// Package camera implements §4.E's CameraLayout: a 2D view transform
// (position, pivot, rotation, zoom) that a viewport combines with its
// screen_layout to produce the effective world-to-screen transform.
package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/oxy2d/engine/engine/renderer/bind_group_provider"
	"github.com/oxy2d/engine/transform2d"
)

// cameraCount generates unique bind group provider names per camera.
var cameraCount atomic.Uint64

type panTween struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

type zoomTween struct {
	z    *gween.Tween
	done bool
}

type cameraImpl struct {
	mu *sync.Mutex

	position [2]float32
	pivot    [2]float32
	rotation float32
	zoom     float32

	pan   *panTween
	zoom_ *zoomTween

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is the runtime view into the scene: a world-space position,
// a pivot offset, a rotation and a zoom factor, composed into a
// transform2d.T by World(). Pan and zoom can be eased over time via
// PanTo/ZoomTo.
type Camera interface {
	// Position returns the world-space point the camera centers on.
	Position() (x, y float32)

	// Pivot returns the stored screen-space pivot offset (fraction of
	// viewport). Neither World() nor the viewport's EffectiveTransform
	// applies it: the camera position always maps to the center of the
	// viewport rect.
	Pivot() (x, y float32)

	// Rotation returns the camera rotation in radians.
	Rotation() float32

	// Zoom returns the current zoom factor (1.0 = no zoom).
	Zoom() float32

	// World returns the camera's placement as a transform2d.T (position,
	// rotation, and zoom as a uniform scale), mapping the camera's local
	// space into world space; its Inverse maps world space into camera
	// space.
	World() transform2d.T

	// BindGroupProvider returns the camera's bind group provider for its
	// per-viewport uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update advances any in-flight PanTo/ZoomTo tween by dt seconds.
	// Should be called once per frame.
	Update(dt float32)

	// SetPosition sets the camera position directly, canceling any
	// in-flight PanTo tween.
	SetPosition(x, y float32)

	// SetPivot sets the screen-space pivot offset returned by Pivot; it
	// does not change World().
	SetPivot(x, y float32)

	// SetRotation sets the camera rotation in radians.
	SetRotation(radians float32)

	// SetZoom sets the zoom factor directly, canceling any in-flight
	// ZoomTo tween.
	SetZoom(zoom float32)

	// PanTo eases the camera position to (x, y) over duration seconds.
	PanTo(x, y float32, duration float32, easeFn ease.TweenFunc)

	// ZoomTo eases the zoom factor to z over duration seconds.
	ZoomTo(z float32, duration float32, easeFn ease.TweenFunc)

	// SetBindGroupProvider sets the camera's bind group provider.
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera centered at the origin with unit zoom.
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:    &sync.Mutex{},
		zoom:  1.0,
		pivot: [2]float32{0.5, 0.5},
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Position() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1]
}

func (c *cameraImpl) Pivot() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pivot[0], c.pivot[1]
}

func (c *cameraImpl) Rotation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) World() transform2d.T {
	c.mu.Lock()
	defer c.mu.Unlock()
	z := c.zoom
	if z == 0 {
		z = 1
	}
	return transform2d.T{
		X:        c.position[0],
		Y:        c.position[1],
		Rotation: c.rotation,
		ScaleX:   z,
		ScaleY:   z,
	}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

func (c *cameraImpl) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pan != nil {
		if !c.pan.doneX {
			v, done := c.pan.x.Update(dt)
			c.position[0] = v
			c.pan.doneX = done
		}
		if !c.pan.doneY {
			v, done := c.pan.y.Update(dt)
			c.position[1] = v
			c.pan.doneY = done
		}
		if c.pan.doneX && c.pan.doneY {
			c.pan = nil
		}
	}

	if c.zoom_ != nil {
		v, done := c.zoom_.z.Update(dt)
		c.zoom = v
		if done {
			c.zoom_ = nil
		}
	}
}

func (c *cameraImpl) SetPosition(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [2]float32{x, y}
	c.pan = nil
}

func (c *cameraImpl) SetPivot(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pivot = [2]float32{x, y}
}

func (c *cameraImpl) SetRotation(radians float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = radians
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
	c.zoom_ = nil
}

func (c *cameraImpl) PanTo(x, y float32, duration float32, easeFn ease.TweenFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan = &panTween{
		x: gween.New(c.position[0], x, duration, easeFn),
		y: gween.New(c.position[1], y, duration, easeFn),
	}
}

func (c *cameraImpl) ZoomTo(z float32, duration float32, easeFn ease.TweenFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom_ = &zoomTween{z: gween.New(c.zoom, z, duration, easeFn)}
}
