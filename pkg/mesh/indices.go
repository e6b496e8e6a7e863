package mesh

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// IndexWidth is the destination width of an index buffer in bits.
type IndexWidth int

const (
	IndexNone   IndexWidth = 0
	IndexUint16 IndexWidth = 16
	IndexUint32 IndexWidth = 32
)

// Bytes returns the size of one index.
func (w IndexWidth) Bytes() int {
	return int(w) / 8
}

// String returns a human-readable index width.
func (w IndexWidth) String() string {
	switch w {
	case IndexNone:
		return "none"
	case IndexUint16:
		return "uint16"
	case IndexUint32:
		return "uint32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// IndexWidthFor returns the narrowest destination width that holds every
// value of the source component type.
func IndexWidthFor(ct scene.ComponentType) (IndexWidth, error) {
	switch ct {
	case scene.ComponentUshort:
		return IndexUint16, nil
	case scene.ComponentUint:
		return IndexUint32, nil
	default:
		return IndexNone, fmt.Errorf("%w: %v", ErrUnsupportedIndexType, ct)
	}
}

// DecodeIndices reads plan.Count indices in source order, zero-extending
// 16-bit values to 32 bits.
func DecodeIndices(plan ReadPlan, ct scene.ComponentType) ([]uint32, error) {
	out := make([]uint32, plan.Count)
	switch ct {
	case scene.ComponentUshort:
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(plan.Element(i)))
		}
	case scene.ComponentUint:
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(plan.Element(i))
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedIndexType, ct)
	}
	return out, nil
}

// EncodeIndices packs values little-endian at width w. Values must fit
// the width; IndexWidthFor guarantees that for decoded source indices.
func EncodeIndices(values []uint32, w IndexWidth) []byte {
	out := make([]byte, len(values)*w.Bytes())
	switch w {
	case IndexUint16:
		for i, v := range values {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
		}
	case IndexUint32:
		for i, v := range values {
			binary.LittleEndian.PutUint32(out[i*4:], v)
		}
	}
	return out
}

// UnpackIndices is the inverse of EncodeIndices.
func UnpackIndices(data []byte, w IndexWidth) []uint32 {
	if w.Bytes() == 0 {
		return nil
	}
	out := make([]uint32, len(data)/w.Bytes())
	for i := range out {
		switch w {
		case IndexUint16:
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		case IndexUint32:
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	}
	return out
}
