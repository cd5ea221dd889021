package camera

import _ "embed"

// GPUCameraUniformSource is the canonical WGSL definition of the
// CameraUniform struct (§4.E): the viewport's effective transform
// (ScreenProjection ∘ Camera^-1) widened to a 4x4 matrix, bound once
// per viewport and read by every pipeline's vertex shader.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform mirrors GPUCameraUniformSource's layout: a single
// column-major 4x4 matrix (64 bytes, std140/std430 aligned).
type GPUCameraUniform struct {
	ViewProj [16]float32
}
