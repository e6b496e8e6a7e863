package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// Topology is how the vertex or index stream forms triangles.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
)

// String returns a human-readable topology name.
func (t Topology) String() string {
	switch t {
	case TopologyTriangleList:
		return "triangle-list"
	case TopologyTriangleStrip:
		return "triangle-strip"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// TopologyForMode maps a primitive mode code to a topology.
// A nil mode means triangles.
func TopologyForMode(mode *int) (Topology, error) {
	if mode == nil {
		return TopologyTriangleList, nil
	}
	switch *mode {
	case scene.ModeTriangles:
		return TopologyTriangleList, nil
	case scene.ModeTriangleStrip:
		return TopologyTriangleStrip, nil
	default:
		return 0, fmt.Errorf("%w: mode %d", ErrUnsupportedTopology, *mode)
	}
}

// Drawable is a compiled primitive ready for upload: interleaved vertex
// bytes, optional index bytes, topology and element count.
// Ownership passes to the caller; the decoder keeps no reference.
type Drawable struct {
	Mesh      int
	Primitive int

	Layout      VertexLayout
	Vertices    []byte
	VertexCount int

	Indices    []byte     // nil when the primitive is not indexed
	IndexWidth IndexWidth // IndexNone when not indexed

	Topology Topology
	Count    int // index count when indexed, vertex count otherwise
}

// Indexed reports whether the drawable carries an index buffer.
func (d *Drawable) Indexed() bool {
	return d.IndexWidth != IndexNone
}

// IndexValues decodes the index buffer.
func (d *Drawable) IndexValues() []uint32 {
	return UnpackIndices(d.Indices, d.IndexWidth)
}

// Attribute returns the float components of attribute s for vertex i.
func (d *Drawable) Attribute(s Semantic, i int) ([]float32, bool) {
	attr, ok := d.Layout.Find(s)
	if !ok || i < 0 || i >= d.VertexCount {
		return nil, false
	}
	base := i*d.Layout.Stride + attr.Offset
	out := make([]float32, attr.Components)
	for c := range out {
		out[c] = math.Float32frombits(binary.LittleEndian.Uint32(d.Vertices[base+c*4:]))
	}
	return out, true
}

// Bounds returns the axis-aligned bounds of the POSITION attribute.
// ok is false when the drawable has no positions.
func (d *Drawable) Bounds() (min, max [3]float32, ok bool) {
	if _, has := d.Layout.Find(SemanticPosition); !has || d.VertexCount == 0 {
		return min, max, false
	}

	min = [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max = [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for i := 0; i < d.VertexCount; i++ {
		p, _ := d.Attribute(SemanticPosition, i)
		for c := 0; c < 3; c++ {
			if p[c] < min[c] {
				min[c] = p[c]
			}
			if p[c] > max[c] {
				max[c] = p[c]
			}
		}
	}
	return min, max, true
}
