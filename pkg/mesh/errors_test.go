package mesh

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op only",
			err:  newError("topology", ErrUnsupportedTopology),
			want: "topology: unsupported primitive topology",
		},
		{
			name: "full context",
			err: &Error{Op: "plan", Mesh: 2, Primitive: 1, Accessor: 7, BufferView: 3, Buffer: 0,
				Err: ErrAccessorOutOfBounds},
			want: "plan mesh 2 primitive 1 accessor 7 bufferView 3 buffer 0: accessor out of bounds",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtPrimitive(t *testing.T) {
	inner := newError("layout", ErrUnsupportedShape)
	inner.Accessor = 4

	err := atPrimitive(inner, 1, 2)
	var e *Error
	if !errors.As(err, &e) || e != inner {
		t.Fatalf("atPrimitive did not keep the existing *Error")
	}
	if e.Mesh != 1 || e.Primitive != 2 || e.Accessor != 4 {
		t.Errorf("context = %+v", e)
	}

	plain := fmt.Errorf("wrapped: %w", ErrMissingFile)
	err = atPrimitive(plain, 0, 3)
	if !errors.As(err, &e) || e.Op != "compile" || e.Primitive != 3 {
		t.Errorf("plain error context = %+v", e)
	}
	if !errors.Is(err, ErrMissingFile) {
		t.Error("atPrimitive lost the sentinel")
	}
}
