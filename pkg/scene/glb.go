package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// GLB container errors.
var (
	ErrInvalidGLBMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBVersion = errors.New("unsupported GLB version")
	ErrTruncatedGLB          = errors.New("truncated GLB data")
	ErrMissingJSONChunk      = errors.New("GLB has no leading JSON chunk")
)

const (
	glbMagic      = 0x46546C67 // "glTF"
	glbVersion    = 2
	glbHeaderSize = 12

	chunkJSON = 0x4E4F534A // "JSON"
	chunkBIN  = 0x004E4942 // "BIN\x00"
)

// glbHeader is the fixed 12-byte GLB file header.
type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// glbChunkHeader precedes every chunk payload.
type glbChunkHeader struct {
	Length uint32
	Type   uint32
}

// IsGLB reports whether data starts with the GLB magic.
func IsGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
}

// splitGLB returns the JSON chunk and the optional BIN chunk of a GLB container.
// The BIN slice aliases data.
func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, ErrTruncatedGLB
	}

	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, ErrTruncatedGLB
	}
	if header.Magic != glbMagic {
		return nil, nil, ErrInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBVersion, header.Version)
	}
	if int(header.Length) > len(data) {
		return nil, nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrTruncatedGLB, header.Length, len(data))
	}

	// Trailing bytes past the declared length are ignored
	end := int(header.Length)
	offset := glbHeaderSize

	for chunkIndex := 0; offset < end; chunkIndex++ {
		if end-offset < 8 {
			return nil, nil, fmt.Errorf("%w: chunk %d header", ErrTruncatedGLB, chunkIndex)
		}

		ch := glbChunkHeader{
			Length: binary.LittleEndian.Uint32(data[offset:]),
			Type:   binary.LittleEndian.Uint32(data[offset+4:]),
		}
		offset += 8

		if int(ch.Length) > end-offset {
			return nil, nil, fmt.Errorf("%w: chunk %d declares %d bytes, have %d", ErrTruncatedGLB, chunkIndex, ch.Length, end-offset)
		}
		payload := data[offset : offset+int(ch.Length) : offset+int(ch.Length)]
		offset += int(ch.Length)

		switch {
		case chunkIndex == 0:
			if ch.Type != chunkJSON {
				return nil, nil, ErrMissingJSONChunk
			}
			jsonChunk = payload
		case ch.Type == chunkBIN && binChunk == nil:
			binChunk = payload
		}
		// Other chunk types are extensions and skipped
	}

	if jsonChunk == nil {
		return nil, nil, ErrMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}
