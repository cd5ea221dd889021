package camera

import (
	"github.com/oxy2d/engine/engine/renderer/bind_group_provider"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
func WithPosition(x, y float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [2]float32{x, y}
	}
}

// WithPivot sets the camera's screen-space pivot offset.
func WithPivot(x, y float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pivot = [2]float32{x, y}
	}
}

// WithRotation sets the camera's initial rotation in radians.
func WithRotation(radians float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotation = radians
	}
}

// WithZoom sets the camera's initial zoom factor.
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = zoom
	}
}

// WithBindGroupProvider attaches a bind group provider to the camera.
// The provider describes the GPU binding requirements for camera uniforms.
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
