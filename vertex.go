package overlayfx

import (
	"encoding/binary"
	"math"
)

// Vertex3D is one vertex of host-supplied primitive geometry for the
// ElectricArc draw path: a world-space position and an RGBA base color.
// Vertices are consumed as a triangle list.
type Vertex3D struct {
	Position [3]float32
	Color    [4]float32
}

// Vertex3DStride is the byte stride of a packed Vertex3D:
// position (vec3<f32>) + color (vec4<f32>) = 28 bytes.
const Vertex3DStride = 28

// PackVertices3D packs vertices into the interleaved little-endian
// layout the arc vertex stage consumes (position at offset 0, color at
// offset 12).
func PackVertices3D(verts []Vertex3D) []byte {
	buf := make([]byte, len(verts)*Vertex3DStride)
	off := 0
	for i := range verts {
		v := &verts[i]
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
		for j, f := range v.Color {
			binary.LittleEndian.PutUint32(buf[off+12+j*4:], math.Float32bits(f))
		}
		off += Vertex3DStride
	}
	return buf
}
