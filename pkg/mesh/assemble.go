package mesh

import "fmt"

// Assemble interleaves the attributes of layout into one vertex buffer of
// layout.VertexCount() vertices. plans[j] is the read plan of
// layout.Attributes[j].
//
// When attribute counts differ, vertices past an attribute's own count keep
// zero bytes in that attribute's slot; no source bytes beyond the
// accessor's declared range are read.
func Assemble(layout VertexLayout, plans []ReadPlan) ([]byte, error) {
	if len(plans) != len(layout.Attributes) {
		return nil, fmt.Errorf("%w: %d read plans for %d attributes", ErrLayoutMismatch, len(plans), len(layout.Attributes))
	}
	for j, attr := range layout.Attributes {
		if plans[j].ElementSize != attr.Size() {
			return nil, fmt.Errorf("%w: %v element is %d bytes, slot is %d",
				ErrLayoutMismatch, attr.Semantic, plans[j].ElementSize, attr.Size())
		}
	}

	vertexCount := layout.VertexCount()
	out := make([]byte, vertexCount*layout.Stride)

	for i := 0; i < vertexCount; i++ {
		vertex := out[i*layout.Stride : (i+1)*layout.Stride]
		for j, attr := range layout.Attributes {
			if i >= plans[j].Count {
				continue
			}
			copy(vertex[attr.Offset:attr.Offset+attr.Size()], plans[j].Element(i))
		}
	}
	return out, nil
}
