package ast

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-ast/errors"
	"github.com/wippyai/wasm-ast/wasm"
)

// SectionID returns the binary id of a section.
func SectionID(name SectionName) (byte, bool) {
	if !knownSection(name) {
		return 0, false
	}
	return wasm.SectionID(string(name))
}

// SectionForNode returns the binary section a module field is encoded in.
func SectionForNode(n Node) (SectionName, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case TypeModuleImport:
		return SectionImport, true
	case TypeCallInstruction, TypeCallIndirectInstruction, TypeFunc, TypeInstr:
		return SectionCode, true
	case TypeModuleExport:
		return SectionExport, true
	case TypeStart:
		return SectionStart, true
	case TypeTypeInstruction:
		return SectionType, true
	case TypeIndexInFuncSection:
		return SectionFunc, true
	case TypeGlobal:
		return SectionGlobal, true
	}
	return "", false
}

// MetadataFromSections builds a ModuleMetadata node from scanned section
// headers. Size and vector-length literals are located on BinaryLine with
// byte-offset columns spanning their LEB128 encoding. Sections the node
// model has no name for are skipped.
func MetadataFromSections(t *Tree, headers []wasm.SectionHeader) (Ref, error) {
	sections := make([]Ref, 0, len(headers))

	for _, h := range headers {
		name := SectionName(h.Name)
		if !knownSection(name) {
			Logger().Debug("skip section without metadata",
				zap.String("section", h.Name),
				zap.Uint32("offset", h.Offset))
			continue
		}

		sizeStart := int(h.Offset)
		size, err := t.NewNumberLiteral(int64(h.Size), strconv.FormatUint(uint64(h.Size), 10))
		if err != nil {
			return NilRef, err
		}
		t.WithLoc(size,
			Position{Line: BinaryLine, Column: sizeStart},
			Position{Line: BinaryLine, Column: sizeStart + h.SizeWidth})

		var vector Ref
		if h.HasVector {
			vecStart := sizeStart + h.SizeWidth
			vector, err = t.NewNumberLiteral(int64(h.Vector), strconv.FormatUint(uint64(h.Vector), 10))
			if err != nil {
				return NilRef, err
			}
			t.WithLoc(vector,
				Position{Line: BinaryLine, Column: vecStart},
				Position{Line: BinaryLine, Column: vecStart + h.VectorWidth})
		} else {
			vector, err = t.NewNumberLiteral(-1, "-1")
			if err != nil {
				return NilRef, err
			}
		}

		ref, err := t.NewSectionMetadata(name, h.Offset, size, vector)
		if err != nil {
			return NilRef, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "section "+h.Name)
		}
		t.WithLoc(ref,
			Position{Line: BinaryLine, Column: sizeStart},
			Position{Line: BinaryLine, Column: int(h.End())})
		sections = append(sections, ref)
	}

	return t.NewModuleMetadata(sections, nil, nil, NilRef)
}

func knownSection(name SectionName) bool {
	switch name {
	case SectionCustom, SectionType, SectionImport, SectionFunc, SectionTable, SectionMemory,
		SectionGlobal, SectionExport, SectionStart, SectionElement, SectionCode, SectionData:
		return true
	}
	return false
}
