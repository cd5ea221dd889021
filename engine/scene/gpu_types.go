package scene

import _ "embed"

// GPUVertexSource is the canonical WGSL definition of the VertexInput
// struct matching Vertex's layout (§4.F): a 2D position and a UV
// texture coordinate, 16 bytes, no padding required.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string
