package mesh

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// Decoding errors. All of them are fatal to the primitive being compiled.
var (
	ErrUnsupportedIndexType     = errors.New("unsupported index component type")
	ErrUnsupportedTexCoordShape = errors.New("unsupported TEXCOORD_0 shape")
	ErrUnsupportedTopology      = errors.New("unsupported primitive topology")
	ErrAccessorOutOfBounds      = errors.New("accessor out of bounds")
	ErrMissingFile              = errors.New("buffer file not found")
	ErrShortRead                = errors.New("buffer shorter than declared byte length")
	ErrNoEmbeddedPayload        = errors.New("buffer refers to embedded payload but none is attached")
	ErrInvalidDataURI           = errors.New("invalid data URI")
	ErrSparseAccessor           = errors.New("sparse accessors are not supported")
	ErrLayoutMismatch           = errors.New("read plans do not match the vertex layout")

	// Re-exported from scene so callers can match the whole taxonomy from one package.
	ErrUnsupportedComponentType = scene.ErrUnsupportedComponentType
	ErrUnsupportedShape         = scene.ErrUnsupportedShape
)

// Error records which element of the document a decoding failure refers to.
// Index fields are -1 when they do not apply.
type Error struct {
	Op         string
	Mesh       int
	Primitive  int
	Accessor   int
	BufferView int
	Buffer     int
	Err        error
}

func newError(op string, err error) *Error {
	return &Error{
		Op:         op,
		Mesh:       -1,
		Primitive:  -1,
		Accessor:   -1,
		BufferView: -1,
		Buffer:     -1,
		Err:        err,
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Mesh >= 0 {
		fmt.Fprintf(&b, " mesh %d", e.Mesh)
	}
	if e.Primitive >= 0 {
		fmt.Fprintf(&b, " primitive %d", e.Primitive)
	}
	if e.Accessor >= 0 {
		fmt.Fprintf(&b, " accessor %d", e.Accessor)
	}
	if e.BufferView >= 0 {
		fmt.Fprintf(&b, " bufferView %d", e.BufferView)
	}
	if e.Buffer >= 0 {
		fmt.Fprintf(&b, " buffer %d", e.Buffer)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// atPrimitive attaches the primitive location to err. An *Error already in
// the chain was created by the current compilation and is updated in place.
func atPrimitive(err error, mesh, prim int) error {
	var e *Error
	if errors.As(err, &e) {
		e.Mesh, e.Primitive = mesh, prim
		return err
	}
	e = newError("compile", err)
	e.Mesh, e.Primitive = mesh, prim
	return e
}
