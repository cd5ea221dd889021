// Package drawcmd implements §4.F's draw-command protocol: the
// GPU-API-agnostic description of a single indexed draw, built by a
// RenderPipeline's collect phase and submitted by the frame presenter.
// Buffer and bind-group types are drawn from cogentcore/webgpu, matching
// how the teacher's shader and bind_group_provider packages describe
// GPU resources.
package drawcmd

import "github.com/cogentcore/webgpu/wgpu"

// BufferSpan references a range within a GPU buffer (typically a
// renderer/arena allocation, but not required to be).
type BufferSpan struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Size   uint64
}

// DescriptorBinding is the contents bound at one descriptor index: either
// raw bytes destined for a uniform/storage buffer write, or a texture
// reference — never both (§4.F: "a byte span OR a texture reference").
type DescriptorBinding struct {
	Bytes   []byte
	Texture *wgpu.TextureView
	Sampler *wgpu.Sampler
}

// IsTexture reports whether this binding carries a texture reference
// rather than raw bytes.
func (b DescriptorBinding) IsTexture() bool {
	return b.Texture != nil
}

// DescriptorSet is a group of bindings submitted together, matching a
// WGSL @group index.
type DescriptorSet struct {
	Group    uint32
	Bindings map[uint32]DescriptorBinding
}

// DrawCommand is one indexed draw: vertex and instance buffer spans, an
// optional index buffer, the descriptor sets to bind, and an optional
// push-constant block.
type DrawCommand struct {
	VertexBuffers   []BufferSpan
	InstanceBuffers []BufferSpan
	IndexBuffer     BufferSpan
	IndexFormat     wgpu.IndexFormat

	DescriptorSets []DescriptorSet
	PushConstants  []byte

	IndexCount    uint32
	InstanceCount uint32
}

// VertexBinding describes one vertex buffer's per-vertex layout, mirroring
// the teacher shader package's parsed wgpu.VertexBufferLayout.
type VertexBinding struct {
	Stride   uint64
	StepMode wgpu.VertexStepMode
	Layout   wgpu.VertexBufferLayout
}

// DescriptorBindingLayout describes one binding slot's static shape
// (uniform buffer, storage buffer, sampled texture, sampler) independent
// of any particular draw's contents.
type DescriptorBindingLayout struct {
	Group   uint32
	Binding uint32
	Entry   wgpu.BindGroupLayoutEntry
}

// ShaderLayout is the static, pipeline-construction-time description of a
// render pipeline's shader stages and resource bindings (§4.G: "GPU
// pipeline state is constructed deterministically from a ShaderLayout").
type ShaderLayout struct {
	VertexSourcePath   string
	FragmentSourcePath string

	VertexBindings      []VertexBinding
	DescriptorBindings  []DescriptorBindingLayout
	PushConstantBytes   uint32
}
