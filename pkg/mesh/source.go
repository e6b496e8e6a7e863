package mesh

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/pkg/scene"
)

// BufferResolver maps a logical buffer index to its bytes.
type BufferResolver interface {
	Resolve(index int) ([]byte, error)
}

// SourceKind tells where a buffer's bytes come from.
type SourceKind int

const (
	SourceEmbedded SourceKind = iota // GLB BIN chunk
	SourceDataURI                    // base64 data: URI
	SourceFile                       // file relative to the document
)

// String returns a short name for the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceEmbedded:
		return "embedded"
	case SourceDataURI:
		return "data-uri"
	case SourceFile:
		return "file"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// KindOf classifies a buffer by its URI.
func KindOf(b *scene.Buffer) SourceKind {
	switch {
	case b.Embedded():
		return SourceEmbedded
	case strings.HasPrefix(b.URI, "data:"):
		return SourceDataURI
	default:
		return SourceFile
	}
}

// Source resolves the buffers of one asset. It keeps no state beyond the
// asset it was created from: every Resolve call reads again. Wrap it in a
// BufferCache to share reads between accessors.
type Source struct {
	doc     *scene.Document
	baseDir string
	payload []byte
	log     *zap.Logger
}

// NewSource creates a buffer source for asset.
func NewSource(asset *scene.Asset, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		doc:     asset.Document,
		baseDir: asset.BaseDir,
		payload: asset.Payload,
		log:     log,
	}
}

// Resolve returns exactly ByteLength bytes of buffer index.
// Embedded buffers share the payload; the returned slice must not be modified.
func (s *Source) Resolve(index int) ([]byte, error) {
	buf, err := s.doc.Buffer(index)
	if err != nil {
		return nil, err
	}
	if buf.ByteLength < 0 {
		return nil, fmt.Errorf("buffer %d: negative byte length %d", index, buf.ByteLength)
	}

	kind := KindOf(buf)
	var data []byte
	switch kind {
	case SourceEmbedded:
		data, err = s.embedded(buf)
	case SourceDataURI:
		data, err = decodeDataURI(buf.URI, buf.ByteLength)
	default:
		data, err = s.readFile(buf)
	}
	if err != nil {
		return nil, fmt.Errorf("buffer %d: %w", index, err)
	}

	s.log.Debug("buffer resolved",
		zap.Int("buffer", index),
		zap.Stringer("source", kind),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

func (s *Source) embedded(buf *scene.Buffer) ([]byte, error) {
	if s.payload == nil {
		return nil, ErrNoEmbeddedPayload
	}
	if len(s.payload) < buf.ByteLength {
		return nil, fmt.Errorf("%w: payload has %d bytes, declared %d", ErrShortRead, len(s.payload), buf.ByteLength)
	}
	return s.payload[:buf.ByteLength:buf.ByteLength], nil
}

// readFile reads a file-backed buffer relative to the document directory.
func (s *Source) readFile(buf *scene.Buffer) ([]byte, error) {
	name, err := url.PathUnescape(buf.URI)
	if err != nil {
		name = buf.URI
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(name))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data := make([]byte, buf.ByteLength)
	n, err := io.ReadFull(f, data)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has %d bytes, declared %d", ErrShortRead, path, n, buf.ByteLength)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string, byteLength int) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: missing ','", ErrInvalidDataURI)
	}
	header := uri[len("data:"):comma]
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) < byteLength {
		return nil, fmt.Errorf("%w: data URI has %d bytes, declared %d", ErrShortRead, len(data), byteLength)
	}
	return data[:byteLength:byteLength], nil
}
