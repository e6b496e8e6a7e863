package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// Document decoding errors.
var (
	ErrInvalidJSON             = errors.New("invalid glTF JSON")
	ErrUnsupportedAssetVersion = errors.New("unsupported glTF asset version")
)

// Asset is a loaded glTF document together with the context needed to
// resolve its buffers: the directory relative URIs are resolved against
// and the embedded binary payload of a GLB container.
// An Asset is never mutated after Parse or Load returns.
type Asset struct {
	Path     string
	BaseDir  string
	Document *Document
	Payload  []byte // GLB BIN chunk, nil for .gltf documents
}

// Parse parses a .gltf (JSON) or .glb (binary container) document.
// Relative buffer URIs are resolved against baseDir.
func Parse(data []byte, baseDir string) (*Asset, error) {
	asset := &Asset{BaseDir: baseDir}

	jsonData := data
	if IsGLB(data) {
		var err error
		jsonData, asset.Payload, err = splitGLB(data)
		if err != nil {
			return nil, err
		}
	}

	doc, err := decodeDocument(jsonData)
	if err != nil {
		return nil, err
	}
	asset.Document = doc
	return asset, nil
}

// Load reads and parses a glTF document from disk.
func Load(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading glTF file: %w", err)
	}
	asset, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	asset.Path = path
	return asset, nil
}

// rawCodes holds the numeric and string codes exactly as written in the
// document. gltf's enum decoders map unknown codes to their zero values,
// which would turn an unsupported component type into FLOAT and an
// unsupported mode into triangles.
type rawCodes struct {
	Accessors []struct {
		ComponentType int    `json:"componentType"`
		Type          string `json:"type"`
	} `json:"accessors"`
	Meshes []struct {
		Primitives []struct {
			Mode *int `json:"mode"`
		} `json:"primitives"`
	} `json:"meshes"`
}

// decodeDocument decodes the JSON structure and converts it to the local model.
func decodeDocument(data []byte) (*Document, error) {
	var codes rawCodes
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	components := make([]ComponentType, len(codes.Accessors))
	shapes := make([]Shape, len(codes.Accessors))
	for i, a := range codes.Accessors {
		ct, err := componentFromCode(a.ComponentType)
		if err != nil {
			return nil, fmt.Errorf("accessor %d: %w", i, err)
		}
		shape, err := shapeFromCode(a.Type)
		if err != nil {
			return nil, fmt.Errorf("accessor %d: %w", i, err)
		}
		components[i], shapes[i] = ct, shape
	}

	var raw gltf.Document
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if !strings.HasPrefix(raw.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAssetVersion, raw.Asset.Version)
	}

	doc := &Document{
		Version:     raw.Asset.Version,
		Generator:   raw.Asset.Generator,
		Accessors:   make([]Accessor, len(raw.Accessors)),
		BufferViews: make([]BufferView, len(raw.BufferViews)),
		Buffers:     make([]Buffer, len(raw.Buffers)),
		Meshes:      make([]Mesh, len(raw.Meshes)),
	}

	for i, a := range raw.Accessors {
		acc := Accessor{
			Name:          a.Name,
			ByteOffset:    int(a.ByteOffset),
			ComponentType: components[i],
			Type:          shapes[i],
			Count:         int(a.Count),
			Sparse:        a.Sparse != nil,
		}
		if a.BufferView != nil {
			view := int(*a.BufferView)
			acc.BufferView = &view
		}
		for _, v := range a.Min {
			acc.Min = append(acc.Min, float64(v))
		}
		for _, v := range a.Max {
			acc.Max = append(acc.Max, float64(v))
		}
		doc.Accessors[i] = acc
	}

	for i, v := range raw.BufferViews {
		doc.BufferViews[i] = BufferView{
			Name:       v.Name,
			Buffer:     int(v.Buffer),
			ByteOffset: int(v.ByteOffset),
			ByteLength: int(v.ByteLength),
			ByteStride: int(v.ByteStride),
			Target:     targetFromGLTF(v.Target),
		}
	}

	for i, b := range raw.Buffers {
		doc.Buffers[i] = Buffer{
			Name:       b.Name,
			URI:        b.URI,
			ByteLength: int(b.ByteLength),
		}
	}

	for i, m := range raw.Meshes {
		mesh := Mesh{
			Name:       m.Name,
			Primitives: make([]Primitive, len(m.Primitives)),
		}
		for j, p := range m.Primitives {
			prim := Primitive{
				Attributes: make(map[string]int, len(p.Attributes)),
			}
			for name, idx := range p.Attributes {
				prim.Attributes[name] = int(idx)
			}
			if p.Indices != nil {
				idx := int(*p.Indices)
				prim.Indices = &idx
			}
			if p.Material != nil {
				mat := int(*p.Material)
				prim.Material = &mat
			}
			if mode := codes.Meshes[i].Primitives[j].Mode; mode != nil {
				code := *mode
				prim.Mode = &code
			}
			mesh.Primitives[j] = prim
		}
		doc.Meshes[i] = mesh
	}

	return doc, nil
}

// componentFromCode validates a componentType code.
func componentFromCode(code int) (ComponentType, error) {
	switch ct := ComponentType(code); ct {
	case ComponentByte, ComponentUbyte, ComponentShort, ComponentUshort,
		ComponentInt, ComponentUint, ComponentFloat:
		if int(ct) == code {
			return ct, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedComponentType, code)
}

// shapeFromCode validates an accessor type string.
func shapeFromCode(code string) (Shape, error) {
	switch s := Shape(code); s {
	case ShapeScalar, ShapeVec2, ShapeVec3, ShapeVec4, ShapeMat2, ShapeMat3, ShapeMat4:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedShape, code)
	}
}

func targetFromGLTF(t gltf.Target) Target {
	switch t {
	case gltf.TargetArrayBuffer:
		return TargetVertex
	case gltf.TargetElementArrayBuffer:
		return TargetIndex
	default:
		return TargetNone
	}
}
