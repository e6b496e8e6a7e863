package mesh

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// assetBuilder assembles an in-memory asset whose single buffer is the
// embedded payload.
type assetBuilder struct {
	doc     scene.Document
	payload []byte
}

func newAssetBuilder() *assetBuilder {
	b := &assetBuilder{}
	b.doc.Version = "2.0"
	b.doc.Buffers = []scene.Buffer{{}}
	return b
}

// view appends data to the payload at a 4-byte boundary and returns a view over it.
func (b *assetBuilder) view(data []byte, stride int) int {
	for len(b.payload)%4 != 0 {
		b.payload = append(b.payload, 0)
	}
	b.doc.BufferViews = append(b.doc.BufferViews, scene.BufferView{
		Buffer:     0,
		ByteOffset: len(b.payload),
		ByteLength: len(data),
		ByteStride: stride,
	})
	b.payload = append(b.payload, data...)
	return len(b.doc.BufferViews) - 1
}

func (b *assetBuilder) accessor(view, offset int, ct scene.ComponentType, shape scene.Shape, count int) int {
	acc := scene.Accessor{
		ByteOffset:    offset,
		ComponentType: ct,
		Type:          shape,
		Count:         count,
	}
	if view >= 0 {
		acc.BufferView = intPtr(view)
	}
	b.doc.Accessors = append(b.doc.Accessors, acc)
	return len(b.doc.Accessors) - 1
}

// floats adds a tightly packed float accessor.
func (b *assetBuilder) floats(shape scene.Shape, values ...float32) int {
	n, _ := shape.ComponentCount()
	return b.accessor(b.view(f32(values...), 0), 0, scene.ComponentFloat, shape, len(values)/n)
}

func (b *assetBuilder) primitive(p scene.Primitive) (mesh, prim int) {
	if len(b.doc.Meshes) == 0 {
		b.doc.Meshes = append(b.doc.Meshes, scene.Mesh{Name: "test"})
	}
	m := &b.doc.Meshes[len(b.doc.Meshes)-1]
	m.Primitives = append(m.Primitives, p)
	return len(b.doc.Meshes) - 1, len(m.Primitives) - 1
}

func (b *assetBuilder) asset() *scene.Asset {
	doc := b.doc
	doc.Buffers = append([]scene.Buffer(nil), b.doc.Buffers...)
	doc.Buffers[0].ByteLength = len(b.payload)
	return &scene.Asset{Document: &doc, Payload: b.payload}
}

// triPositions and triUVs describe a three-vertex triangle.
var (
	triPositions = []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	triUVs       = []float32{0, 0, 1, 0, 0, 1}
)

func intPtr(v int) *int {
	return &v
}

func f32(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func u16(values ...uint16) []byte {
	out := make([]byte, 0, len(values)*2)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

func u32(values ...uint32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

// staticResolver serves fixed buffers and counts calls.
type staticResolver struct {
	buffers [][]byte
	err     error
	calls   atomic.Int32
}

func (r *staticResolver) Resolve(index int) ([]byte, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.buffers[index], nil
}
