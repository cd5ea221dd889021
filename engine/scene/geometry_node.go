package scene

import "github.com/oxy2d/engine/identifier"

// GeometryKind selects which built-in shape a GeometryNode draws when no
// custom Geometry is supplied.
type GeometryKind int

const (
	// GeometryRectangle draws RectangleGeometry(), scaled to Size.
	// Grounded on the original engine's Retro_QuadUpdateData{size, color}
	// built-in drawable primitive.
	GeometryRectangle GeometryKind = iota
	// GeometryTriangle draws TriangleGeometry(), scaled to Size.
	GeometryTriangle
	// GeometryCustom draws the Geometry pointer stored in Custom.
	GeometryCustom
)

// GeometryData is the component payload for a geometry node: a solid-
// colored shape with a size and pivot, optionally backed by custom
// vertex/index data supplied via render_data (§6).
type GeometryData struct {
	Kind   GeometryKind
	Custom *Geometry

	Color      [4]float32
	Pivot      [2]float32
	Size       [2]float32
}

// GeometryTypeTag is the interned type tag every geometry node is
// created with; pipelines register against this tag to receive geometry
// nodes from Scene.NodesOfType.
var GeometryTypeTag = identifier.MustIntern("oxy2d.geometry")

// CreateGeometryNode creates a geometry node (§6's geometry_create) under
// parent (the scene root if NilHandle), defaulting to a white unit
// rectangle.
func CreateGeometryNode(s Scene, parent Handle) (Handle, error) {
	return CreateTyped(s, GeometryTypeTag, parent, GeometryData{
		Kind:  GeometryRectangle,
		Color: [4]float32{1, 1, 1, 1},
		Size:  [2]float32{1, 1},
	})
}

// GeometryOf returns handle's GeometryData payload.
func GeometryOf(s Scene, handle Handle) (GeometryData, bool) {
	return Typed[GeometryData](s, handle)
}

// SetGeometryType sets the drawn shape kind (§6's "type" setter).
func SetGeometryType(s Scene, handle Handle, kind GeometryKind) error {
	return MutateTyped(s, handle, func(d GeometryData) GeometryData {
		d.Kind = kind
		return d
	})
}

// SetRenderData installs custom vertex/index data (§6's render_data
// setter), switching Kind to GeometryCustom.
func SetRenderData(s Scene, handle Handle, vertices []Vertex, indices []uint32) error {
	return MutateTyped(s, handle, func(d GeometryData) GeometryData {
		d.Kind = GeometryCustom
		d.Custom = &Geometry{Vertices: vertices, Indices: indices}
		return d
	})
}

// SetColor sets the geometry's fill color (§6's "color" setter; also the
// original engine's retro_quad_update_data color field).
func SetColor(s Scene, handle Handle, r, g, b, a float32) error {
	return MutateTyped(s, handle, func(d GeometryData) GeometryData {
		d.Color = [4]float32{r, g, b, a}
		return d
	})
}

// SetPivot sets the point (in unit-shape space, 0..1) that the node's
// local transform origin maps to (§6's "pivot" setter).
func SetPivot(s Scene, handle Handle, x, y float32) error {
	return MutateTyped(s, handle, func(d GeometryData) GeometryData {
		d.Pivot = [2]float32{x, y}
		return d
	})
}

// SetSize sets the shape's size in local units (§6's "size" setter; also
// the original engine's retro_quad_update_data size field).
func SetSize(s Scene, handle Handle, w, h float32) error {
	return MutateTyped(s, handle, func(d GeometryData) GeometryData {
		d.Size = [2]float32{w, h}
		return d
	})
}
