package mesh

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

func TestEffectiveStride(t *testing.T) {
	tests := []struct {
		name string
		view *scene.BufferView
		size int
		want int
	}{
		{"no view", nil, 12, 12},
		{"tightly packed vec3", &scene.BufferView{ByteLength: 36}, 12, 12},
		{"declared stride", &scene.BufferView{ByteLength: 64, ByteStride: 32}, 12, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStride(tt.view, tt.size); got != tt.want {
				t.Errorf("EffectiveStride = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlanAccessor_TightlyPacked(t *testing.T) {
	buf := f32(triPositions...)
	acc := &scene.Accessor{ComponentType: scene.ComponentFloat, Type: scene.ShapeVec3, Count: 3}
	view := &scene.BufferView{ByteLength: len(buf)}

	plan, err := PlanAccessor(acc, view, buf)
	if err != nil {
		t.Fatalf("PlanAccessor failed: %v", err)
	}
	if plan.Stride != 12 || plan.ElementSize != 12 || plan.Count != 3 || plan.Offset != 0 {
		t.Errorf("plan = stride %d size %d count %d offset %d, want 12/12/3/0",
			plan.Stride, plan.ElementSize, plan.Count, plan.Offset)
	}
	if !bytes.Equal(plan.Element(1), f32(1, 0, 0)) {
		t.Errorf("element 1 = %v", plan.Element(1))
	}
}

func TestPlanAccessor_DeclaredStride(t *testing.T) {
	// Two VEC3 elements 32 bytes apart, with junk in between.
	buf := make([]byte, 8, 128)
	buf = append(buf, f32(1, 2, 3)...)
	buf = append(buf, bytes.Repeat([]byte{0xEE}, 20)...)
	buf = append(buf, f32(4, 5, 6)...)

	acc := &scene.Accessor{ComponentType: scene.ComponentFloat, Type: scene.ShapeVec3, Count: 2}
	view := &scene.BufferView{ByteOffset: 8, ByteLength: 44, ByteStride: 32}

	plan, err := PlanAccessor(acc, view, buf)
	if err != nil {
		t.Fatalf("PlanAccessor failed: %v", err)
	}
	if plan.Stride != 32 {
		t.Errorf("stride = %d, want 32", plan.Stride)
	}
	if plan.Offset != 8 {
		t.Errorf("offset = %d, want 8", plan.Offset)
	}
	if !bytes.Equal(plan.Element(0), f32(1, 2, 3)) {
		t.Errorf("element 0 = %v", plan.Element(0))
	}
	if !bytes.Equal(plan.Element(1), f32(4, 5, 6)) {
		t.Errorf("element 1 = %v", plan.Element(1))
	}
}

func TestPlanAccessor_InterleavedOffset(t *testing.T) {
	// POSITION then TEXCOORD_0 per 20 byte vertex.
	var buf []byte
	for i := 0; i < 3; i++ {
		buf = append(buf, f32(triPositions[i*3:i*3+3]...)...)
		buf = append(buf, f32(triUVs[i*2:i*2+2]...)...)
	}
	view := &scene.BufferView{ByteLength: len(buf), ByteStride: 20}
	acc := &scene.Accessor{ByteOffset: 12, ComponentType: scene.ComponentFloat, Type: scene.ShapeVec2, Count: 3}

	plan, err := PlanAccessor(acc, view, buf)
	if err != nil {
		t.Fatalf("PlanAccessor failed: %v", err)
	}
	if !bytes.Equal(plan.Element(2), f32(0, 1)) {
		t.Errorf("element 2 = %v, want uv (0,1)", plan.Element(2))
	}
}

func TestPlanAccessor_OutOfBounds(t *testing.T) {
	buf := make([]byte, 64)
	vec3 := func(offset, count int) *scene.Accessor {
		return &scene.Accessor{ByteOffset: offset, ComponentType: scene.ComponentFloat, Type: scene.ShapeVec3, Count: count}
	}

	tests := []struct {
		name string
		acc  *scene.Accessor
		view *scene.BufferView
	}{
		{"count exceeds view", vec3(0, 4), &scene.BufferView{ByteLength: 36}},
		{"offset pushes past view", vec3(4, 3), &scene.BufferView{ByteLength: 36}},
		{"stride pushes past view", vec3(0, 3), &scene.BufferView{ByteLength: 36, ByteStride: 16}},
		{"view exceeds buffer", vec3(0, 1), &scene.BufferView{ByteOffset: 60, ByteLength: 12}},
		{"negative count", vec3(0, -1), &scene.BufferView{ByteLength: 36}},
		{"negative offset", vec3(-4, 1), &scene.BufferView{ByteLength: 36}},
		{"offset past view", vec3(40, 1), &scene.BufferView{ByteLength: 36}},
		{"count times stride overflows", vec3(0, 1<<32-1), &scene.BufferView{ByteLength: 24, ByteStride: 1<<31 + 1<<20}},
		{"max count", vec3(0, math.MaxInt), &scene.BufferView{ByteLength: 24}},
		{"max stride", vec3(0, 2), &scene.BufferView{ByteLength: 24, ByteStride: math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanAccessor(tt.acc, tt.view, buf)
			if !errors.Is(err, ErrAccessorOutOfBounds) {
				t.Errorf("error = %v, want ErrAccessorOutOfBounds", err)
			}
		})
	}
}

func TestPlanAccessor_ExactFit(t *testing.T) {
	// Last element ends on the last byte of the view; the trailing stride
	// padding is not required.
	buf := make([]byte, 44)
	acc := &scene.Accessor{ComponentType: scene.ComponentFloat, Type: scene.ShapeVec3, Count: 2}
	view := &scene.BufferView{ByteLength: 44, ByteStride: 32}

	if _, err := PlanAccessor(acc, view, buf); err != nil {
		t.Errorf("PlanAccessor failed: %v", err)
	}
}

func TestPlanAccessor_EmptyAccessor(t *testing.T) {
	acc := &scene.Accessor{ComponentType: scene.ComponentFloat, Type: scene.ShapeVec3}
	plan, err := PlanAccessor(acc, &scene.BufferView{}, nil)
	if err != nil {
		t.Fatalf("PlanAccessor failed: %v", err)
	}
	if plan.Count != 0 {
		t.Errorf("count = %d, want 0", plan.Count)
	}
}

func TestPlanAccessor_UnsupportedElement(t *testing.T) {
	buf := make([]byte, 16)
	view := &scene.BufferView{ByteLength: 16}

	_, err := PlanAccessor(&scene.Accessor{ComponentType: 5130, Type: scene.ShapeScalar, Count: 1}, view, buf)
	if !errors.Is(err, ErrUnsupportedComponentType) {
		t.Errorf("error = %v, want ErrUnsupportedComponentType", err)
	}
	_, err = PlanAccessor(&scene.Accessor{ComponentType: scene.ComponentFloat, Type: "VEC5", Count: 1}, view, buf)
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("error = %v, want ErrUnsupportedShape", err)
	}
}

func TestZeroPlan_TooLarge(t *testing.T) {
	for _, count := range []int{MaxZeroBytes/16 + 1, 1<<32 - 1, math.MaxInt} {
		_, err := zeroPlan(&scene.Accessor{ComponentType: scene.ComponentFloat, Type: scene.ShapeVec4, Count: count})
		if !errors.Is(err, ErrAccessorOutOfBounds) {
			t.Errorf("count %d: error = %v, want ErrAccessorOutOfBounds", count, err)
		}
	}
}

func TestZeroPlan(t *testing.T) {
	plan, err := zeroPlan(&scene.Accessor{ComponentType: scene.ComponentFloat, Type: scene.ShapeVec2, Count: 4})
	if err != nil {
		t.Fatalf("zeroPlan failed: %v", err)
	}
	if plan.Count != 4 || plan.ElementSize != 8 || plan.Stride != 8 {
		t.Errorf("plan = %+v", plan)
	}
	for i := 0; i < plan.Count; i++ {
		if !bytes.Equal(plan.Element(i), make([]byte, 8)) {
			t.Errorf("element %d = %v, want zeros", i, plan.Element(i))
		}
	}
}
