package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const triangleJSON = `{
  "asset": {"version": "2.0", "generator": "unit-test"},
  "buffers": [{"uri": "triangle.bin", "byteLength": 66}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 60, "byteStride": 20, "target": 34962},
    {"buffer": 0, "byteOffset": 60, "byteLength": 6, "target": 34963}
  ],
  "accessors": [
    {"bufferView": 0, "byteOffset": 0, "componentType": 5126, "count": 3, "type": "VEC3",
     "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 0, "byteOffset": 12, "componentType": 5126, "count": 3, "type": "VEC2"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
    {"componentType": 5126, "count": 4, "type": "MAT4"}
  ],
  "meshes": [
    {"name": "tri", "primitives": [
      {"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "indices": 2},
      {"attributes": {"POSITION": 0}, "mode": 5},
      {"attributes": {"POSITION": 0}, "mode": 0}
    ]}
  ]
}`

func TestParse_JSONDocument(t *testing.T) {
	asset, err := Parse([]byte(triangleJSON), "/assets")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if asset.BaseDir != "/assets" {
		t.Errorf("BaseDir = %q, want /assets", asset.BaseDir)
	}
	if asset.Payload != nil {
		t.Errorf("Payload = %d bytes, want nil for JSON document", len(asset.Payload))
	}

	doc := asset.Document
	if doc.Version != "2.0" || doc.Generator != "unit-test" {
		t.Errorf("asset = %q/%q, want 2.0/unit-test", doc.Version, doc.Generator)
	}
	if len(doc.Buffers) != 1 || doc.Buffers[0].URI != "triangle.bin" || doc.Buffers[0].ByteLength != 66 {
		t.Errorf("buffers = %+v", doc.Buffers)
	}
	if doc.Buffers[0].Embedded() {
		t.Error("file-backed buffer reported as embedded")
	}

	views := doc.BufferViews
	if len(views) != 2 {
		t.Fatalf("buffer view count = %d, want 2", len(views))
	}
	if views[0].ByteStride != 20 || views[0].Target != TargetVertex {
		t.Errorf("view 0 = %+v", views[0])
	}
	if views[1].ByteStride != 0 || views[1].ByteOffset != 60 || views[1].Target != TargetIndex {
		t.Errorf("view 1 = %+v", views[1])
	}

	acc := doc.Accessors
	if len(acc) != 4 {
		t.Fatalf("accessor count = %d, want 4", len(acc))
	}
	if acc[0].ComponentType != ComponentFloat || acc[0].Type != ShapeVec3 || acc[0].Count != 3 {
		t.Errorf("accessor 0 = %+v", acc[0])
	}
	if len(acc[0].Max) != 3 || acc[0].Max[0] != 1 {
		t.Errorf("accessor 0 max = %v", acc[0].Max)
	}
	if acc[1].ByteOffset != 12 || acc[1].Type != ShapeVec2 {
		t.Errorf("accessor 1 = %+v", acc[1])
	}
	if acc[2].ComponentType != ComponentUshort || acc[2].Type != ShapeScalar {
		t.Errorf("accessor 2 = %+v", acc[2])
	}
	if acc[3].BufferView != nil {
		t.Errorf("accessor 3 buffer view = %d, want nil", *acc[3].BufferView)
	}

	prims := doc.Meshes[0].Primitives
	if len(prims) != 3 {
		t.Fatalf("primitive count = %d, want 3", len(prims))
	}
	if prims[0].Attributes["POSITION"] != 0 || prims[0].Attributes["TEXCOORD_0"] != 1 {
		t.Errorf("primitive 0 attributes = %v", prims[0].Attributes)
	}
	if prims[0].Indices == nil || *prims[0].Indices != 2 {
		t.Error("primitive 0 should reference index accessor 2")
	}

	if prims[0].Mode != nil {
		t.Errorf("primitive 0 mode = %d, want nil when absent", *prims[0].Mode)
	}
	modes := []int{ModeTriangleStrip, ModePoints}
	for i, want := range modes {
		if p := prims[i+1]; p.Mode == nil || *p.Mode != want {
			t.Errorf("primitive %d mode = %v, want %d", i+1, p.Mode, want)
		}
	}

	if doc.PrimitiveCount() != 3 {
		t.Errorf("PrimitiveCount = %d, want 3", doc.PrimitiveCount())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"invalid json", []byte(`{"asset": `), ErrInvalidJSON},
		{"version 1", []byte(`{"asset": {"version": "1.0"}}`), ErrUnsupportedAssetVersion},
		{"missing version", []byte(`{"asset": {}}`), ErrUnsupportedAssetVersion},
		{"truncated glb", []byte{'g', 'l', 'T', 'F', 2, 0}, ErrTruncatedGLB},
		{"glb version 1", makeGLBWithVersion(1, []byte(`{"asset":{"version":"2.0"}}`), nil), ErrUnsupportedGLBVersion},
		{"glb first chunk bin", makeGLBChunks(chunk{chunkBIN, []byte{1, 2, 3, 4}}), ErrMissingJSONChunk},
		{"glb no chunks", makeGLBChunks(), ErrMissingJSONChunk},
		{"unknown component type", accessorJSON(9999, "VEC3"), ErrUnsupportedComponentType},
		{"component type past uint16", accessorJSON(5126+65536, "VEC3"), ErrUnsupportedComponentType},
		{"unknown shape", accessorJSON(5126, "VEC5"), ErrUnsupportedShape},
		{"missing shape", accessorJSON(5126, ""), ErrUnsupportedShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_GLBPayload(t *testing.T) {
	bin := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	json := []byte(`{"asset":{"version":"2.0"},"buffers":[{"byteLength":8}]}`)

	asset, err := Parse(makeGLB(json, bin), "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(asset.Payload) != len(bin) {
		t.Fatalf("payload length = %d, want %d", len(asset.Payload), len(bin))
	}
	for i := range bin {
		if asset.Payload[i] != bin[i] {
			t.Fatalf("payload[%d] = %d, want %d", i, asset.Payload[i], bin[i])
		}
	}
	if !asset.Document.Buffers[0].Embedded() {
		t.Error("buffer without URI should be embedded")
	}
}

func TestParse_GLBSkipsUnknownChunks(t *testing.T) {
	json := []byte(`{"asset":{"version":"2.0"}}`)
	data := makeGLBChunks(
		chunk{chunkJSON, padTo4(json, ' ')},
		chunk{0x12345678, []byte{9, 9, 9, 9}},
		chunk{chunkBIN, []byte{7, 7, 7, 7}},
	)

	asset, err := Parse(data, "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(asset.Payload) != 4 || asset.Payload[0] != 7 {
		t.Errorf("payload = %v, want [7 7 7 7]", asset.Payload)
	}
}

func TestParse_GLBChunkOverrun(t *testing.T) {
	data := makeGLB([]byte(`{"asset":{"version":"2.0"}}`), []byte{1, 2, 3, 4})
	// Inflate the BIN chunk length past the end of the container
	binHeader := len(data) - 4 - 8
	binary.LittleEndian.PutUint32(data[binHeader:], 64)

	if _, err := Parse(data, ""); !errors.Is(err, ErrTruncatedGLB) {
		t.Errorf("got error %v, want %v", err, ErrTruncatedGLB)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.gltf")
	if err := os.WriteFile(path, []byte(triangleJSON), 0644); err != nil {
		t.Fatalf("failed to write test document: %v", err)
	}

	asset, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if asset.Path != path {
		t.Errorf("Path = %q, want %q", asset.Path, path)
	}
	if asset.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", asset.BaseDir, dir)
	}

	if _, err := Load(filepath.Join(dir, "missing.gltf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func accessorJSON(componentType int, shape string) []byte {
	return []byte(fmt.Sprintf(`{"asset": {"version": "2.0"},
  "accessors": [{"componentType": %d, "count": 1, "type": %q}]}`, componentType, shape))
}

func TestParse_RawCodes(t *testing.T) {
	data := []byte(`{"asset": {"version": "2.0"},
  "accessors": [
    {"componentType": 5124, "count": 3, "type": "VEC3"},
    {"componentType": 5120, "count": 3, "type": "MAT2"}
  ],
  "meshes": [{"primitives": [
    {"attributes": {"POSITION": 0}, "mode": 7},
    {"attributes": {"POSITION": 0}, "mode": 6},
    {"attributes": {"POSITION": 0}, "mode": 4}
  ]}]}`)

	asset, err := Parse(data, "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc := asset.Document

	if got := doc.Accessors[0].ComponentType; got != ComponentInt {
		t.Errorf("accessor 0 component type = %v, want INT", got)
	}
	if got := doc.Accessors[1].ComponentType; got != ComponentByte || doc.Accessors[1].Type != ShapeMat2 {
		t.Errorf("accessor 1 = %v %s, want BYTE MAT2", got, doc.Accessors[1].Type)
	}

	for i, want := range []int{7, ModeTriangleFan, ModeTriangles} {
		p := doc.Meshes[0].Primitives[i]
		if p.Mode == nil || *p.Mode != want {
			t.Errorf("primitive %d mode = %v, want %d", i, p.Mode, want)
		}
	}
}

func TestDocument_Lookups(t *testing.T) {
	asset, err := Parse([]byte(triangleJSON), "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc := asset.Document

	if _, err := doc.Accessor(4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Accessor(4) error = %v", err)
	}
	if _, err := doc.BufferView(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("BufferView(-1) error = %v", err)
	}
	if _, err := doc.Buffer(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Buffer(1) error = %v", err)
	}
	if _, err := doc.Primitive(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Primitive(0, 3) error = %v", err)
	}
	if p, err := doc.Primitive(0, 1); err != nil || *p.Mode != ModeTriangleStrip {
		t.Errorf("Primitive(0, 1) = %+v, %v", p, err)
	}
}

// chunk is a raw GLB chunk used to assemble test containers.
type chunk struct {
	typ  uint32
	data []byte
}

// makeGLB builds a GLB container with a JSON chunk and an optional BIN chunk.
func makeGLB(json, bin []byte) []byte {
	return makeGLBWithVersion(glbVersion, json, bin)
}

func makeGLBWithVersion(version uint32, json, bin []byte) []byte {
	chunks := []chunk{{chunkJSON, padTo4(json, ' ')}}
	if bin != nil {
		chunks = append(chunks, chunk{chunkBIN, padTo4(bin, 0)})
	}
	data := makeGLBChunks(chunks...)
	binary.LittleEndian.PutUint32(data[4:], version)
	return data
}

func makeGLBChunks(chunks ...chunk) []byte {
	total := glbHeaderSize
	for _, c := range chunks {
		total += 8 + len(c.data)
	}

	data := make([]byte, glbHeaderSize, total)
	binary.LittleEndian.PutUint32(data[0:], glbMagic)
	binary.LittleEndian.PutUint32(data[4:], glbVersion)
	binary.LittleEndian.PutUint32(data[8:], uint32(total))

	for _, c := range chunks {
		data = binary.LittleEndian.AppendUint32(data, uint32(len(c.data)))
		data = binary.LittleEndian.AppendUint32(data, c.typ)
		data = append(data, c.data...)
	}
	return data
}

func padTo4(b []byte, pad byte) []byte {
	out := append([]byte(nil), b...)
	for len(out)%4 != 0 {
		out = append(out, pad)
	}
	return out
}
