// Package gpu uploads compiled drawables to OpenGL buffer objects.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

// ErrEmptyDrawable is returned when a drawable has no vertices to upload.
var ErrEmptyDrawable = errors.New("drawable has no vertices")

// Binding describes one vertex attribute pointer.
type Binding struct {
	Semantic mesh.Semantic
	Location uint32
	Size     int32 // components
	Stride   int32
	Offset   uintptr
}

// Bindings returns the attribute pointers for an interleaved layout.
func Bindings(layout mesh.VertexLayout) ([]Binding, error) {
	out := make([]Binding, 0, len(layout.Attributes))
	for _, a := range layout.Attributes {
		loc, ok := a.Semantic.Location()
		if !ok {
			return nil, fmt.Errorf("no attribute location for %v", a.Semantic)
		}
		out = append(out, Binding{
			Semantic: a.Semantic,
			Location: loc,
			Size:     int32(a.Components),
			Stride:   int32(layout.Stride),
			Offset:   uintptr(a.Offset),
		})
	}
	return out, nil
}

// PrimitiveMode returns the GL draw mode of a topology.
func PrimitiveMode(t mesh.Topology) (uint32, error) {
	switch t {
	case mesh.TopologyTriangleList:
		return gl.TRIANGLES, nil
	case mesh.TopologyTriangleStrip:
		return gl.TRIANGLE_STRIP, nil
	default:
		return 0, fmt.Errorf("%w: %v", mesh.ErrUnsupportedTopology, t)
	}
}

// IndexType returns the GL element type of an index width.
func IndexType(w mesh.IndexWidth) (uint32, error) {
	switch w {
	case mesh.IndexUint16:
		return gl.UNSIGNED_SHORT, nil
	case mesh.IndexUint32:
		return gl.UNSIGNED_INT, nil
	default:
		return 0, fmt.Errorf("no GL index type for %v", w)
	}
}

// Mesh is a drawable resident on the GPU.
type Mesh struct {
	VAO, VBO, EBO uint32

	Mode      uint32
	Count     int32
	IndexType uint32 // 0 when drawn with DrawArrays

	HasNormal bool
	HasUV     bool
}

// Upload copies a drawable's vertex and index bytes into new buffer
// objects. It must run on the thread that owns the GL context.
func Upload(d *mesh.Drawable) (*Mesh, error) {
	if len(d.Vertices) == 0 {
		return nil, ErrEmptyDrawable
	}
	bindings, err := Bindings(d.Layout)
	if err != nil {
		return nil, err
	}
	mode, err := PrimitiveMode(d.Topology)
	if err != nil {
		return nil, err
	}

	m := &Mesh{Mode: mode, Count: int32(d.Count)}
	if d.Indexed() {
		if m.IndexType, err = IndexType(d.IndexWidth); err != nil {
			return nil, err
		}
	}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(d.Vertices), gl.Ptr(d.Vertices), gl.STATIC_DRAW)

	for _, b := range bindings {
		gl.VertexAttribPointerWithOffset(b.Location, b.Size, gl.FLOAT, false, b.Stride, b.Offset)
		gl.EnableVertexAttribArray(b.Location)
		switch b.Semantic {
		case mesh.SemanticNormal:
			m.HasNormal = true
		case mesh.SemanticTexCoord0:
			m.HasUV = true
		}
	}

	if d.Indexed() {
		gl.GenBuffers(1, &m.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Indices), gl.Ptr(d.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	return m, nil
}

// Draw issues the draw call. The caller binds the program.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.VAO)
	if m.IndexType != 0 {
		gl.DrawElements(m.Mode, m.Count, m.IndexType, nil)
	} else {
		gl.DrawArrays(m.Mode, 0, m.Count)
	}
	gl.BindVertexArray(0)
}

// Delete releases the buffer objects.
func (m *Mesh) Delete() {
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
	}
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
	}
	*m = Mesh{}
}

// Lines is a position-only line list, used for helper geometry.
type Lines struct {
	VAO, VBO uint32
	Count    int32
}

// UploadLines uploads xyz line vertices.
func UploadLines(vertices []float32) *Lines {
	l := &Lines{Count: int32(len(vertices) / 3)}
	gl.GenVertexArrays(1, &l.VAO)
	gl.BindVertexArray(l.VAO)
	gl.GenBuffers(1, &l.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 12, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return l
}

// Draw draws the lines.
func (l *Lines) Draw() {
	gl.BindVertexArray(l.VAO)
	gl.DrawArrays(gl.LINES, 0, l.Count)
	gl.BindVertexArray(0)
}

// Delete releases the buffer objects.
func (l *Lines) Delete() {
	if l.VBO != 0 {
		gl.DeleteBuffers(1, &l.VBO)
	}
	if l.VAO != 0 {
		gl.DeleteVertexArrays(1, &l.VAO)
	}
	*l = Lines{}
}
