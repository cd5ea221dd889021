package pipeline

import (
	"github.com/oxy2d/engine/common"
	"github.com/oxy2d/engine/engine/renderer/arena"
	"github.com/oxy2d/engine/engine/renderer/drawcmd"
	"github.com/oxy2d/engine/engine/scene"
	"github.com/oxy2d/engine/identifier"
	"github.com/oxy2d/engine/transform2d"
)

var _ RenderPipeline = &GeometryPipeline{}

// GeometryPipeline is the built-in RenderPipeline for scene.GeometryTypeTag
// nodes: solid-colored rectangles and triangles, uploaded to the
// transient arena each frame (§4.B/§4.F), one DrawCommand per node.
type GeometryPipeline struct {
	arena  *arena.Arena
	layout drawcmd.ShaderLayout
	queue  []drawcmd.DrawCommand
}

// NewGeometryPipeline creates a GeometryPipeline drawing from a, using
// the given vertex/fragment WGSL sources for its pipeline state.
func NewGeometryPipeline(a *arena.Arena, vertexPath, fragmentPath string) *GeometryPipeline {
	return &GeometryPipeline{
		arena: a,
		layout: drawcmd.ShaderLayout{
			VertexSourcePath:   vertexPath,
			FragmentSourcePath: fragmentPath,
			PushConstantBytes:  64, // one transform2d.T widened to a 4x4, matching common.Mul4's layout
		},
	}
}

func (p *GeometryPipeline) ComponentType() identifier.Identifier { return scene.GeometryTypeTag }

func (p *GeometryPipeline) Shaders() drawcmd.ShaderLayout {
	return p.layout
}

// CollectDrawCalls builds one DrawCommand per geometry node: uploads its
// resolved (custom, rectangle, or triangle) vertex/index data into the
// transient arena, carries the node's world transform (with Size and
// Pivot applied) as a push constant, and binds its Color as a byte span
// at descriptor group 0, binding 0.
func (p *GeometryPipeline) CollectDrawCalls(s scene.Scene, effectiveTransform transform2d.T, viewportSize [2]float32) []drawcmd.DrawCommand {
	cmds := make([]drawcmd.DrawCommand, 0)
	for handle := range s.NodesOfType(scene.GeometryTypeTag) {
		data, ok := scene.GeometryOf(s, handle)
		if !ok {
			continue
		}
		world, err := s.WorldTransform(handle)
		if err != nil {
			continue
		}

		geom := resolveGeometry(data)
		vtxBytes := common.SliceToBytes(geom.Vertices)
		idxBytes := common.SliceToBytes(geom.Indices)

		vtxAlloc, err := p.arena.Allocate(uint64(len(vtxBytes)), vtxBytes)
		if err != nil {
			continue
		}
		idxAlloc, err := p.arena.Allocate(uint64(len(idxBytes)), idxBytes)
		if err != nil {
			continue
		}

		// Scale the unit shape to Size and shift it so Pivot sits at the
		// node's local origin.
		shape := transform2d.T{X: -data.Pivot[0] * data.Size[0], Y: -data.Pivot[1] * data.Size[1], ScaleX: data.Size[0], ScaleY: data.Size[1]}
		var matrix [16]float32
		transform2d.Compose(effectiveTransform, transform2d.Compose(world, shape)).Matrix4(matrix[:])

		cmds = append(cmds, drawcmd.DrawCommand{
			VertexBuffers: []drawcmd.BufferSpan{{Buffer: vtxAlloc.Buffer, Offset: vtxAlloc.Offset, Size: vtxAlloc.Size}},
			IndexBuffer:   drawcmd.BufferSpan{Buffer: idxAlloc.Buffer, Offset: idxAlloc.Offset, Size: idxAlloc.Size},
			DescriptorSets: []drawcmd.DescriptorSet{{
				Group:    0,
				Bindings: map[uint32]drawcmd.DescriptorBinding{0: {Bytes: common.SliceToBytes(data.Color[:])}},
			}},
			PushConstants: common.SliceToBytes(matrix[:]),
			IndexCount:    uint32(len(geom.Indices)),
			InstanceCount: 1,
		})
	}
	return cmds
}

func resolveGeometry(data scene.GeometryData) *scene.Geometry {
	switch data.Kind {
	case scene.GeometryTriangle:
		return scene.TriangleGeometry()
	case scene.GeometryCustom:
		if data.Custom != nil {
			return data.Custom
		}
		return scene.RectangleGeometry()
	default:
		return scene.RectangleGeometry()
	}
}

// Execute stores cmds as this pipeline's queue, readable through Queued
// until ClearDrawQueue; it encodes no GPU commands itself.
func (p *GeometryPipeline) Execute(cmds []drawcmd.DrawCommand) error {
	p.queue = cmds
	return nil
}

// Queued returns the commands staged by the most recent Execute call.
func (p *GeometryPipeline) Queued() []drawcmd.DrawCommand {
	return p.queue
}

func (p *GeometryPipeline) ClearDrawQueue() {
	p.queue = nil
}
