package wasm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wippyai/wasm-ast/wasm/internal/binary"
)

// Header errors returned by ScanSections.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// SectionHeader describes the binary layout of one module section.
//
//	| id | size (LEB128) | vector length (LEB128, optional) | body ... |
//	     ^ Offset
//
// Offset points at the size field, so the section ends at
// Offset + SizeWidth + Size.
type SectionHeader struct {
	Name        string
	Offset      uint32
	Size        uint32
	Vector      uint32
	SizeWidth   int
	VectorWidth int
	ID          byte
	HasVector   bool
}

// End returns the offset of the first byte after the section.
func (h SectionHeader) End() uint32 {
	return h.Offset + uint32(h.SizeWidth) + h.Size
}

// ScanSections walks the section headers of a binary module without decoding
// section bodies.
func ScanSections(data []byte) ([]SectionHeader, error) {
	r := binary.NewReader(bytes.NewReader(data))

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	var headers []SectionHeader
	for {
		id, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, r.WrapError("section header", err)
		}

		name, ok := SectionName(id)
		if !ok {
			return nil, r.WrapError("section header", fmt.Errorf("unknown section ID: 0x%02x", id))
		}

		h := SectionHeader{ID: id, Name: name, Offset: uint32(r.Position())}

		h.Size, err = r.ReadU32()
		if err != nil {
			return nil, r.WrapError(name+" section size", err)
		}
		h.SizeWidth = r.Position() - int(h.Offset)

		bodyStart := r.Position()
		if hasVector(id) && h.Size > 0 {
			h.Vector, err = r.ReadU32()
			if err != nil {
				return nil, r.WrapError(name+" section vector", err)
			}
			h.VectorWidth = r.Position() - bodyStart
			h.HasVector = true
			if h.VectorWidth > int(h.Size) {
				return nil, r.WrapError(name+" section vector", io.ErrUnexpectedEOF)
			}
		}

		if err := r.Skip(int(h.Size) - (r.Position() - bodyStart)); err != nil {
			return nil, r.WrapError(name+" section data", err)
		}

		headers = append(headers, h)
	}

	return headers, nil
}
