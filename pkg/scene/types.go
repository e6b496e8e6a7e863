// Package scene provides the glTF 2.0 document model consumed by the mesh decoder.
// Only the structural pieces needed to reach vertex and index data are kept:
// accessors, buffer views, buffers and mesh primitives.
package scene

import (
	"errors"
	"fmt"
)

// Document lookup errors.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ComponentType is the numeric component encoding of an accessor.
type ComponentType uint16

// Component type codes as they appear in glTF documents.
const (
	ComponentByte   ComponentType = 5120 // signed 8-bit
	ComponentUbyte  ComponentType = 5121 // unsigned 8-bit
	ComponentShort  ComponentType = 5122 // signed 16-bit
	ComponentUshort ComponentType = 5123 // unsigned 16-bit
	ComponentInt    ComponentType = 5124 // signed 32-bit
	ComponentUint   ComponentType = 5125 // unsigned 32-bit
	ComponentFloat  ComponentType = 5126 // 32-bit float
)

// String returns a human-readable component type name.
func (c ComponentType) String() string {
	switch c {
	case ComponentByte:
		return "BYTE"
	case ComponentUbyte:
		return "UNSIGNED_BYTE"
	case ComponentShort:
		return "SHORT"
	case ComponentUshort:
		return "UNSIGNED_SHORT"
	case ComponentInt:
		return "INT"
	case ComponentUint:
		return "UNSIGNED_INT"
	case ComponentFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(c))
	}
}

// Shape is the element shape of an accessor ("SCALAR", "VEC3", ...).
type Shape string

// Accessor shapes.
const (
	ShapeScalar Shape = "SCALAR"
	ShapeVec2   Shape = "VEC2"
	ShapeVec3   Shape = "VEC3"
	ShapeVec4   Shape = "VEC4"
	ShapeMat2   Shape = "MAT2"
	ShapeMat3   Shape = "MAT3"
	ShapeMat4   Shape = "MAT4"
)

// Primitive mode codes.
const (
	ModePoints        = 0
	ModeLines         = 1
	ModeLineLoop      = 2
	ModeLineStrip     = 3
	ModeTriangles     = 4
	ModeTriangleStrip = 5
	ModeTriangleFan   = 6
)

// Target is the advisory usage hint of a buffer view.
type Target int

const (
	TargetNone   Target = 0
	TargetVertex Target = 34962 // ARRAY_BUFFER
	TargetIndex  Target = 34963 // ELEMENT_ARRAY_BUFFER
)

// Accessor is a typed view over a buffer view.
type Accessor struct {
	Name          string
	BufferView    *int // nil means all elements are zero
	ByteOffset    int  // relative to the buffer view
	ComponentType ComponentType
	Type          Shape
	Count         int
	Min, Max      []float64 // informational only
	Sparse        bool
}

// BufferView is a sub-region of one buffer.
type BufferView struct {
	Name       string
	Buffer     int
	ByteOffset int
	ByteLength int
	ByteStride int // 0 when the view is tightly packed
	Target     Target
}

// Buffer is a logical binary blob. An empty URI refers to the
// embedded payload of a binary container.
type Buffer struct {
	Name       string
	URI        string
	ByteLength int
}

// Embedded reports whether the buffer refers to the container payload.
func (b *Buffer) Embedded() bool {
	return b.URI == ""
}

// Primitive is one drawable part of a mesh.
type Primitive struct {
	Attributes map[string]int // semantic name -> accessor index
	Indices    *int
	Mode       *int // nil means triangles
	Material   *int
}

// Mesh groups primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Document holds the parsed structure of a glTF asset. It is immutable after load.
type Document struct {
	Version     string
	Generator   string
	Accessors   []Accessor
	BufferViews []BufferView
	Buffers     []Buffer
	Meshes      []Mesh
}

// Accessor returns the accessor at index i.
func (d *Document) Accessor(i int) (*Accessor, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w (have %d)", i, ErrIndexOutOfRange, len(d.Accessors))
	}
	return &d.Accessors[i], nil
}

// BufferView returns the buffer view at index i.
func (d *Document) BufferView(i int) (*BufferView, error) {
	if i < 0 || i >= len(d.BufferViews) {
		return nil, fmt.Errorf("buffer view %d: %w (have %d)", i, ErrIndexOutOfRange, len(d.BufferViews))
	}
	return &d.BufferViews[i], nil
}

// Buffer returns the buffer at index i.
func (d *Document) Buffer(i int) (*Buffer, error) {
	if i < 0 || i >= len(d.Buffers) {
		return nil, fmt.Errorf("buffer %d: %w (have %d)", i, ErrIndexOutOfRange, len(d.Buffers))
	}
	return &d.Buffers[i], nil
}

// Mesh returns the mesh at index i.
func (d *Document) Mesh(i int) (*Mesh, error) {
	if i < 0 || i >= len(d.Meshes) {
		return nil, fmt.Errorf("mesh %d: %w (have %d)", i, ErrIndexOutOfRange, len(d.Meshes))
	}
	return &d.Meshes[i], nil
}

// Primitive returns primitive p of mesh m.
func (d *Document) Primitive(m, p int) (*Primitive, error) {
	mesh, err := d.Mesh(m)
	if err != nil {
		return nil, err
	}
	if p < 0 || p >= len(mesh.Primitives) {
		return nil, fmt.Errorf("mesh %d primitive %d: %w (have %d)", m, p, ErrIndexOutOfRange, len(mesh.Primitives))
	}
	return &mesh.Primitives[p], nil
}

// PrimitiveCount returns the total number of primitives across all meshes.
func (d *Document) PrimitiveCount() int {
	total := 0
	for _, m := range d.Meshes {
		total += len(m.Primitives)
	}
	return total
}
