package scene

import (
	"github.com/oxy2d/engine/engine/assets"
	"github.com/oxy2d/engine/identifier"
)

// SpriteData is the component payload for a sprite node: a textured
// quad with tint, pivot, size, and a UV sub-rectangle (§6's sprite_create
// setters: texture, tint, pivot, size, uv_rect).
type SpriteData struct {
	Texture assets.Handle

	Tint    [4]float32
	Pivot   [2]float32
	Size    [2]float32
	UVRectX float32
	UVRectY float32
	UVRectW float32
	UVRectH float32
}

// SpriteTypeTag is the interned type tag every sprite node is created
// with.
var SpriteTypeTag = identifier.MustIntern("oxy2d.sprite")

// CreateSpriteNode creates a sprite node (§6's sprite_create) under
// parent, with no texture bound, full-white tint, and a full (0,0,1,1)
// UV rectangle.
func CreateSpriteNode(s Scene, parent Handle) (Handle, error) {
	return CreateTyped(s, SpriteTypeTag, parent, SpriteData{
		Tint:    [4]float32{1, 1, 1, 1},
		Size:    [2]float32{1, 1},
		UVRectW: 1,
		UVRectH: 1,
	})
}

// SpriteOf returns handle's SpriteData payload.
func SpriteOf(s Scene, handle Handle) (SpriteData, bool) {
	return Typed[SpriteData](s, handle)
}

// SetTexture binds a texture handle into the sprite. The sprite takes
// its own strong reference via h.Retain(); callers keep ownership of
// their own handle and must still Release it themselves.
func SetTexture(s Scene, handle Handle, h assets.Handle) error {
	return MutateTyped(s, handle, func(d SpriteData) SpriteData {
		d.Texture = h.Retain()
		return d
	})
}

// SetTint sets the sprite's multiplicative tint color (§6's "tint" setter).
func SetTint(s Scene, handle Handle, r, g, b, a float32) error {
	return MutateTyped(s, handle, func(d SpriteData) SpriteData {
		d.Tint = [4]float32{r, g, b, a}
		return d
	})
}

// SetSpritePivot sets the sprite's pivot point (§6's "pivot" setter).
func SetSpritePivot(s Scene, handle Handle, x, y float32) error {
	return MutateTyped(s, handle, func(d SpriteData) SpriteData {
		d.Pivot = [2]float32{x, y}
		return d
	})
}

// SetSpriteSize sets the sprite's size in local units (§6's "size" setter).
func SetSpriteSize(s Scene, handle Handle, w, h float32) error {
	return MutateTyped(s, handle, func(d SpriteData) SpriteData {
		d.Size = [2]float32{w, h}
		return d
	})
}

// SetUVRect sets the sprite's UV sub-rectangle within its texture (§6's
// "uv_rect" setter).
func SetUVRect(s Scene, handle Handle, x, y, w, h float32) error {
	return MutateTyped(s, handle, func(d SpriteData) SpriteData {
		d.UVRectX, d.UVRectY, d.UVRectW, d.UVRectH = x, y, w, h
		return d
	})
}
