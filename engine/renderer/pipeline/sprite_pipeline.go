package pipeline

import (
	"github.com/oxy2d/engine/common"
	"github.com/oxy2d/engine/engine/renderer/arena"
	"github.com/oxy2d/engine/engine/renderer/drawcmd"
	"github.com/oxy2d/engine/engine/scene"
	"github.com/oxy2d/engine/identifier"
	"github.com/oxy2d/engine/transform2d"
)

var _ RenderPipeline = &SpritePipeline{}

// SpritePipeline is the built-in RenderPipeline for scene.SpriteTypeTag
// nodes: a textured quad per node, tinted and UV-mapped from SpriteData,
// binding the sprite's texture as a descriptor-set entry alongside the
// world-transform push constant.
type SpritePipeline struct {
	arena  *arena.Arena
	layout drawcmd.ShaderLayout
	queue  []drawcmd.DrawCommand
}

// NewSpritePipeline creates a SpritePipeline drawing from a.
func NewSpritePipeline(a *arena.Arena, vertexPath, fragmentPath string) *SpritePipeline {
	return &SpritePipeline{
		arena: a,
		layout: drawcmd.ShaderLayout{
			VertexSourcePath:   vertexPath,
			FragmentSourcePath: fragmentPath,
			PushConstantBytes:  64,
		},
	}
}

func (p *SpritePipeline) ComponentType() identifier.Identifier { return scene.SpriteTypeTag }

func (p *SpritePipeline) Shaders() drawcmd.ShaderLayout {
	return p.layout
}

func (p *SpritePipeline) CollectDrawCalls(s scene.Scene, effectiveTransform transform2d.T, viewportSize [2]float32) []drawcmd.DrawCommand {
	cmds := make([]drawcmd.DrawCommand, 0)
	for handle := range s.NodesOfType(scene.SpriteTypeTag) {
		data, ok := scene.SpriteOf(s, handle)
		if !ok || data.Texture.Texture() == nil {
			continue
		}
		world, err := s.WorldTransform(handle)
		if err != nil {
			continue
		}

		geom := scene.RectangleGeometry()
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

		// Scale the unit quad to Size and shift it so Pivot sits at the
		// node's local origin.
		quad := transform2d.T{X: -data.Pivot[0] * data.Size[0], Y: -data.Pivot[1] * data.Size[1], ScaleX: data.Size[0], ScaleY: data.Size[1]}
		var matrix [16]float32
		transform2d.Compose(effectiveTransform, transform2d.Compose(world, quad)).Matrix4(matrix[:])

		gpu := data.Texture.Texture().GPU()
		if gpu == nil {
			continue
		}

		uniform := struct {
			Tint   [4]float32
			UVRect [4]float32
		}{Tint: data.Tint, UVRect: [4]float32{data.UVRectX, data.UVRectY, data.UVRectW, data.UVRectH}}

		cmds = append(cmds, drawcmd.DrawCommand{
			VertexBuffers: []drawcmd.BufferSpan{{Buffer: vtxAlloc.Buffer, Offset: vtxAlloc.Offset, Size: vtxAlloc.Size}},
			IndexBuffer:   drawcmd.BufferSpan{Buffer: idxAlloc.Buffer, Offset: idxAlloc.Offset, Size: idxAlloc.Size},
			DescriptorSets: []drawcmd.DescriptorSet{{
				Group: 0,
				Bindings: map[uint32]drawcmd.DescriptorBinding{
					0: {Bytes: common.StructToBytes(&uniform)},
					1: {Texture: gpu.View, Sampler: gpu.Sampler},
				},
			}},
			PushConstants: common.SliceToBytes(matrix[:]),
			IndexCount:    uint32(len(geom.Indices)),
			InstanceCount: 1,
		})
	}
	return cmds
}

func (p *SpritePipeline) Execute(cmds []drawcmd.DrawCommand) error {
	p.queue = cmds
	return nil
}

func (p *SpritePipeline) Queued() []drawcmd.DrawCommand {
	return p.queue
}

func (p *SpritePipeline) ClearDrawQueue() {
	p.queue = nil
}
