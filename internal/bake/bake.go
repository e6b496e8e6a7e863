// Package bake stores compiled drawables in a CBOR file so they can be
// loaded without decoding the source asset again.
package bake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

// Version is the baked file format version written by Write.
const Version = 1

// Baked file errors.
var (
	ErrUnsupportedBakeVersion = errors.New("unsupported baked file version")
	ErrDigestMismatch         = errors.New("drawable digest mismatch")
	ErrInvalidDrawable        = errors.New("invalid baked drawable")
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bake: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("bake: CBOR decoder initialization failed: " + err.Error())
	}
}

// File is a baked asset.
type File struct {
	Version   int        `cbor:"version"`
	Source    string     `cbor:"source"`
	Drawables []Drawable `cbor:"drawables"`
}

// Attribute is one slot of a baked vertex layout.
type Attribute struct {
	Semantic   string `cbor:"semantic"`
	Offset     int    `cbor:"offset"`
	Components int    `cbor:"components"`
}

// Drawable is a baked compiled primitive.
type Drawable struct {
	Mesh        int         `cbor:"mesh"`
	Primitive   int         `cbor:"primitive"`
	Topology    string      `cbor:"topology"`
	Count       int         `cbor:"count"`
	VertexCount int         `cbor:"vertexCount"`
	Stride      int         `cbor:"stride"`
	Layout      []Attribute `cbor:"layout"`
	Vertices    []byte      `cbor:"vertices"`
	IndexWidth  int         `cbor:"indexWidth"`
	Indices     []byte      `cbor:"indices"`
	Digest      []byte      `cbor:"digest"`
}

// Digest returns the BLAKE3-256 digest of a drawable's vertex stream
// followed by its index stream.
func Digest(vertices, indices []byte) [32]byte {
	h := blake3.New()
	h.Write(vertices)
	h.Write(indices)
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// FromDrawables bakes compiled drawables. source names the asset they were
// compiled from.
func FromDrawables(source string, drawables []*mesh.Drawable) *File {
	f := &File{Version: Version, Source: source, Drawables: make([]Drawable, 0, len(drawables))}
	for _, d := range drawables {
		f.Drawables = append(f.Drawables, bakeDrawable(d))
	}
	return f
}

func bakeDrawable(d *mesh.Drawable) Drawable {
	layout := make([]Attribute, len(d.Layout.Attributes))
	for i, a := range d.Layout.Attributes {
		layout[i] = Attribute{Semantic: a.Semantic.String(), Offset: a.Offset, Components: a.Components}
	}
	sum := Digest(d.Vertices, d.Indices)
	return Drawable{
		Mesh:        d.Mesh,
		Primitive:   d.Primitive,
		Topology:    d.Topology.String(),
		Count:       d.Count,
		VertexCount: d.VertexCount,
		Stride:      d.Layout.Stride,
		Layout:      layout,
		Vertices:    d.Vertices,
		IndexWidth:  int(d.IndexWidth),
		Indices:     d.Indices,
		Digest:      sum[:],
	}
}

// Restore rebuilds the compiled drawable.
func (b *Drawable) Restore() (*mesh.Drawable, error) {
	var topology mesh.Topology
	switch b.Topology {
	case mesh.TopologyTriangleList.String():
		topology = mesh.TopologyTriangleList
	case mesh.TopologyTriangleStrip.String():
		topology = mesh.TopologyTriangleStrip
	default:
		return nil, fmt.Errorf("%w: topology %q", ErrInvalidDrawable, b.Topology)
	}

	width := mesh.IndexWidth(b.IndexWidth)
	switch width {
	case mesh.IndexNone, mesh.IndexUint16, mesh.IndexUint32:
	default:
		return nil, fmt.Errorf("%w: index width %d", ErrInvalidDrawable, b.IndexWidth)
	}

	if b.VertexCount < 0 || b.Stride < 0 || b.Count < 0 {
		return nil, fmt.Errorf("%w: negative count or stride", ErrInvalidDrawable)
	}

	layout := mesh.VertexLayout{Stride: b.Stride}
	for _, a := range b.Layout {
		sem := mesh.ParseSemantic(a.Semantic)
		if sem == mesh.SemanticUnknown {
			return nil, fmt.Errorf("%w: semantic %q", ErrInvalidDrawable, a.Semantic)
		}
		if a.Components < 1 || a.Components > 4 {
			return nil, fmt.Errorf("%w: %s has %d components", ErrInvalidDrawable, a.Semantic, a.Components)
		}
		attr := mesh.LayoutAttribute{
			Semantic:   sem,
			Accessor:   -1,
			Count:      b.VertexCount,
			Offset:     a.Offset,
			Components: a.Components,
			Bits:       mesh.FloatBits,
		}
		if attr.Offset < 0 || attr.Offset+attr.Size() > b.Stride {
			return nil, fmt.Errorf("%w: %s slot exceeds stride %d", ErrInvalidDrawable, a.Semantic, b.Stride)
		}
		layout.Attributes = append(layout.Attributes, attr)
	}
	if (b.Stride > 0 && b.VertexCount > len(b.Vertices)/b.Stride) || len(b.Vertices) != b.VertexCount*b.Stride {
		return nil, fmt.Errorf("%w: %d vertex bytes for %d vertices of %d bytes",
			ErrInvalidDrawable, len(b.Vertices), b.VertexCount, b.Stride)
	}
	if width != mesh.IndexNone && (b.Count > len(b.Indices)/width.Bytes() || len(b.Indices) != b.Count*width.Bytes()) {
		return nil, fmt.Errorf("%w: %d index bytes for %d %s indices",
			ErrInvalidDrawable, len(b.Indices), b.Count, width)
	}
	if width == mesh.IndexNone && (len(b.Indices) != 0 || b.Count != b.VertexCount) {
		return nil, fmt.Errorf("%w: unindexed count %d for %d vertices",
			ErrInvalidDrawable, b.Count, b.VertexCount)
	}

	return &mesh.Drawable{
		Mesh:        b.Mesh,
		Primitive:   b.Primitive,
		Layout:      layout,
		Vertices:    b.Vertices,
		VertexCount: b.VertexCount,
		Indices:     b.Indices,
		IndexWidth:  width,
		Topology:    topology,
		Count:       b.Count,
	}, nil
}

// Verify checks the drawable's digest against its streams.
func (b *Drawable) Verify() error {
	sum := Digest(b.Vertices, b.Indices)
	if !bytes.Equal(sum[:], b.Digest) {
		return fmt.Errorf("%w: mesh %d primitive %d", ErrDigestMismatch, b.Mesh, b.Primitive)
	}
	return nil
}

// Write encodes f to w.
func Write(w io.Writer, f *File) error {
	return encMode.NewEncoder(w).Encode(f)
}

// Read decodes a baked file from r and verifies every drawable digest.
func Read(r io.Reader) (*File, error) {
	var f File
	if err := decMode.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding baked file: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBakeVersion, f.Version)
	}
	for i := range f.Drawables {
		if err := f.Drawables[i].Verify(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// WriteFile writes f to path.
func WriteFile(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating baked file: %w", err)
	}
	if err := Write(out, f); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

// ReadFile reads and verifies the baked file at path.
func ReadFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening baked file: %w", err)
	}
	defer in.Close()

	f, err := Read(in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return f, nil
}
