package mesh

import (
	"fmt"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// ReadPlan describes where the elements of one accessor live.
// Element i occupies Data[Offset+i*Stride : Offset+i*Stride+ElementSize].
type ReadPlan struct {
	Data        []byte // whole buffer region
	Offset      int    // byte offset of element 0 within Data
	Stride      int    // effective stride
	ElementSize int
	Count       int
}

// Element returns the bytes of element i. The plan bounds were validated
// when the plan was built, so i in [0, Count) never reads out of range.
func (p ReadPlan) Element(i int) []byte {
	off := p.Offset + i*p.Stride
	return p.Data[off : off+p.ElementSize]
}

// EffectiveStride returns the declared view stride, or the tightly
// packed element size when the view declares none.
func EffectiveStride(view *scene.BufferView, elementSize int) int {
	if view != nil && view.ByteStride > 0 {
		return view.ByteStride
	}
	return elementSize
}

// PlanAccessor builds the read plan of acc over view and the bytes of the
// view's buffer. It checks that every element lies inside both the view
// and the buffer before anything is read.
func PlanAccessor(acc *scene.Accessor, view *scene.BufferView, buf []byte) (ReadPlan, error) {
	size, err := scene.ElementSize(acc.ComponentType, acc.Type)
	if err != nil {
		return ReadPlan{}, err
	}
	stride := EffectiveStride(view, size)

	if acc.Count < 0 || acc.ByteOffset < 0 || view.ByteOffset < 0 || view.ByteLength < 0 {
		return ReadPlan{}, fmt.Errorf("%w: negative count or offset", ErrAccessorOutOfBounds)
	}

	// Checked as divisions so huge counts and strides cannot overflow.
	avail := view.ByteLength - acc.ByteOffset
	if acc.Count > 0 && (avail < size || (avail-size)/stride < acc.Count-1) {
		return ReadPlan{}, fmt.Errorf("%w: %d elements of %d bytes at stride %d from offset %d overrun a %d byte view",
			ErrAccessorOutOfBounds, acc.Count, size, stride, acc.ByteOffset, view.ByteLength)
	}
	if view.ByteLength > len(buf)-view.ByteOffset {
		return ReadPlan{}, fmt.Errorf("%w: view of %d bytes at offset %d overruns a %d byte buffer",
			ErrAccessorOutOfBounds, view.ByteLength, view.ByteOffset, len(buf))
	}

	// extent is the distance from element 0 to the end of the last element
	extent := 0
	if acc.Count > 0 {
		extent = (acc.Count-1)*stride + size
	}
	base := view.ByteOffset + acc.ByteOffset
	if base+extent > len(buf) {
		return ReadPlan{}, fmt.Errorf("%w: elements end at byte %d of a %d byte buffer",
			ErrAccessorOutOfBounds, base+extent, len(buf))
	}

	return ReadPlan{
		Data:        buf,
		Offset:      base,
		Stride:      stride,
		ElementSize: size,
		Count:       acc.Count,
	}, nil
}

// MaxZeroBytes bounds the region allocated for an accessor without a
// buffer view.
const MaxZeroBytes = 1 << 28

// zeroPlan covers accessors without a buffer view, whose elements are all zero.
func zeroPlan(acc *scene.Accessor) (ReadPlan, error) {
	size, err := scene.ElementSize(acc.ComponentType, acc.Type)
	if err != nil {
		return ReadPlan{}, err
	}
	if acc.Count < 0 {
		return ReadPlan{}, fmt.Errorf("%w: negative count", ErrAccessorOutOfBounds)
	}
	if acc.Count > MaxZeroBytes/size {
		return ReadPlan{}, fmt.Errorf("%w: %d zero elements of %d bytes exceed %d bytes",
			ErrAccessorOutOfBounds, acc.Count, size, MaxZeroBytes)
	}
	return ReadPlan{
		Data:        make([]byte, acc.Count*size),
		Stride:      size,
		ElementSize: size,
		Count:       acc.Count,
	}, nil
}
