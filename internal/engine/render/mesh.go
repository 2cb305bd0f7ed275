package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Unit cube centered on the origin, spanning [-0.5, 0.5] on every axis.
// The batch manager's instance transforms translate to the building's
// vertical midpoint, so the mesh stays centered. 24 vertices with flat
// normals, 4 per face.
var cubeVertices = []float32{
	// position           normal
	// front (+Z)
	-0.5, -0.5, 0.5, 0, 0, 1,
	0.5, -0.5, 0.5, 0, 0, 1,
	0.5, 0.5, 0.5, 0, 0, 1,
	-0.5, 0.5, 0.5, 0, 0, 1,
	// back (-Z)
	0.5, -0.5, -0.5, 0, 0, -1,
	-0.5, -0.5, -0.5, 0, 0, -1,
	-0.5, 0.5, -0.5, 0, 0, -1,
	0.5, 0.5, -0.5, 0, 0, -1,
	// left (-X)
	-0.5, -0.5, -0.5, -1, 0, 0,
	-0.5, -0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, -0.5, -1, 0, 0,
	// right (+X)
	0.5, -0.5, 0.5, 1, 0, 0,
	0.5, -0.5, -0.5, 1, 0, 0,
	0.5, 0.5, -0.5, 1, 0, 0,
	0.5, 0.5, 0.5, 1, 0, 0,
	// top (+Y)
	-0.5, 0.5, 0.5, 0, 1, 0,
	0.5, 0.5, 0.5, 0, 1, 0,
	0.5, 0.5, -0.5, 0, 1, 0,
	-0.5, 0.5, -0.5, 0, 1, 0,
	// bottom (-Y)
	-0.5, -0.5, -0.5, 0, -1, 0,
	0.5, -0.5, -0.5, 0, -1, 0,
	0.5, -0.5, 0.5, 0, -1, 0,
	-0.5, -0.5, 0.5, 0, -1, 0,
}

var cubeIndices = []uint32{
	0, 1, 2, 0, 2, 3, // front
	4, 5, 6, 4, 6, 7, // back
	8, 9, 10, 8, 10, 11, // left
	12, 13, 14, 12, 14, 15, // right
	16, 17, 18, 16, 18, 19, // top
	20, 21, 22, 20, 22, 23, // bottom
}

// cubeMesh holds the shared building geometry. The instance VBO lives on
// the batch, not here; each batch binds it into its own VAO.
type cubeMesh struct {
	vbo        uint32
	ebo        uint32
	indexCount int32
}

func newCubeMesh() *cubeMesh {
	m := &cubeMesh{indexCount: int32(len(cubeIndices))}

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(cubeIndices)*4, gl.Ptr(cubeIndices), gl.STATIC_DRAW)

	return m
}

// bindVertexAttribs sets up the position and normal attributes on the
// currently bound VAO. Caller binds the VAO first.
func (m *cubeMesh) bindVertexAttribs() {
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
}

func (m *cubeMesh) destroy() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
