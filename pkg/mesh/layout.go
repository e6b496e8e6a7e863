package mesh

import (
	"fmt"
	"sort"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// Semantic is a vertex attribute recognized by the decoder.
type Semantic int

const (
	SemanticUnknown Semantic = iota // skipped
	SemanticPosition
	SemanticNormal
	SemanticTangent
	SemanticTexCoord0
)

// ParseSemantic maps an attribute name to its semantic.
// Names the decoder does not handle map to SemanticUnknown.
func ParseSemantic(name string) Semantic {
	switch name {
	case "POSITION":
		return SemanticPosition
	case "NORMAL":
		return SemanticNormal
	case "TANGENT":
		return SemanticTangent
	case "TEXCOORD_0":
		return SemanticTexCoord0
	default:
		return SemanticUnknown
	}
}

// String returns the attribute name of the semantic.
func (s Semantic) String() string {
	switch s {
	case SemanticPosition:
		return "POSITION"
	case SemanticNormal:
		return "NORMAL"
	case SemanticTangent:
		return "TANGENT"
	case SemanticTexCoord0:
		return "TEXCOORD_0"
	default:
		return "UNKNOWN"
	}
}

// Location returns the fixed shader attribute location of the semantic.
func (s Semantic) Location() (uint32, bool) {
	switch s {
	case SemanticPosition:
		return 0, true
	case SemanticNormal:
		return 1, true
	case SemanticTangent:
		return 2, true
	case SemanticTexCoord0:
		return 3, true
	default:
		return 0, false
	}
}

// FloatBits is the component width of every destination attribute.
const FloatBits = 32

// LayoutAttribute is one slot of the interleaved vertex.
type LayoutAttribute struct {
	Semantic   Semantic
	Accessor   int // source accessor index
	Count      int // source accessor element count
	Offset     int // byte offset within a vertex
	Components int
	Bits       int // float width, always FloatBits
}

// Size returns the attribute's byte size within a vertex.
func (a LayoutAttribute) Size() int {
	return a.Components * a.Bits / 8
}

// VertexLayout is the interleaved destination layout of a primitive.
type VertexLayout struct {
	Attributes []LayoutAttribute // in ascending attribute name order
	Stride     int               // bytes per vertex
}

// VertexCount returns the largest element count among the attributes.
func (l VertexLayout) VertexCount() int {
	n := 0
	for _, a := range l.Attributes {
		if a.Count > n {
			n = a.Count
		}
	}
	return n
}

// Ragged reports whether the attributes disagree on their element count.
func (l VertexLayout) Ragged() bool {
	n := l.VertexCount()
	for _, a := range l.Attributes {
		if a.Count != n {
			return true
		}
	}
	return false
}

// Find returns the attribute with semantic s.
func (l VertexLayout) Find(s Semantic) (LayoutAttribute, bool) {
	for _, a := range l.Attributes {
		if a.Semantic == s {
			return a, true
		}
	}
	return LayoutAttribute{}, false
}

// BuildLayout orders the attributes of a primitive by name and assigns each
// recognized one a slot in the interleaved vertex. Map iteration order never
// affects the result.
func BuildLayout(doc *scene.Document, attributes map[string]int) (VertexLayout, error) {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var layout VertexLayout
	for _, name := range names {
		sem := ParseSemantic(name)
		if sem == SemanticUnknown {
			continue
		}

		index := attributes[name]
		acc, err := doc.Accessor(index)
		if err != nil {
			return VertexLayout{}, layoutError(err, index)
		}
		components, err := destComponents(sem, acc)
		if err != nil {
			return VertexLayout{}, layoutError(fmt.Errorf("%s: %w", name, err), index)
		}

		attr := LayoutAttribute{
			Semantic:   sem,
			Accessor:   index,
			Count:      acc.Count,
			Offset:     layout.Stride,
			Components: components,
			Bits:       FloatBits,
		}
		layout.Attributes = append(layout.Attributes, attr)
		layout.Stride += attr.Size()
	}
	return layout, nil
}

// destComponents returns the destination component count of an attribute.
// Vertex data is copied verbatim, so the source must already be 32-bit
// float with the destination's component count.
func destComponents(sem Semantic, acc *scene.Accessor) (int, error) {
	var want int
	switch sem {
	case SemanticPosition, SemanticNormal:
		want = 3
	case SemanticTangent:
		want = 4
	case SemanticTexCoord0:
		switch acc.Type {
		case scene.ShapeScalar:
			want = 1
		case scene.ShapeVec2:
			want = 2
		case scene.ShapeVec3:
			want = 3
		default:
			return 0, fmt.Errorf("%w: %s", ErrUnsupportedTexCoordShape, acc.Type)
		}
	}

	if acc.ComponentType != scene.ComponentFloat {
		return 0, fmt.Errorf("%w: %v (vertex attributes must be FLOAT)", ErrUnsupportedComponentType, acc.ComponentType)
	}
	got, err := acc.Type.ComponentCount()
	if err != nil {
		return 0, err
	}
	if got != want {
		return 0, fmt.Errorf("%w: %s has %d components, want %d", ErrUnsupportedShape, acc.Type, got, want)
	}
	return want, nil
}

func layoutError(err error, accessor int) error {
	e := newError("layout", err)
	e.Accessor = accessor
	return e
}
