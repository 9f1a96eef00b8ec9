package ast

import (
	"cmp"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-ast/errors"
)

// SortResult tells whether SortSectionMetadata had anything to sort.
type SortResult int

const (
	Sorted SortResult = iota
	NoMetadata
)

func (r SortResult) String() string {
	if r == NoMetadata {
		return "no metadata"
	}
	return "sorted"
}

// GetSectionMetadata returns the first SectionMetadata for name found in a
// pre-order walk from root.
func GetSectionMetadata(t *Tree, root Ref, name SectionName) (Ref, bool) {
	found := NilRef
	Traverse(t, root, Visitors{
		TypeSectionMetadata: func(p *Path) {
			if s, ok := p.Node().(*SectionMetadata); ok && s.Section == name {
				found = p.Ref
				p.Stop()
			}
		},
	})
	return found, !found.IsNil()
}

// SortSectionMetadata orders the module's section metadata by binary
// section id. The sort is stable, so repeated custom sections keep their
// relative order.
func SortSectionMetadata(t *Tree, module Ref) (SortResult, error) {
	m, ok := Get[*Module](t, module)
	if !ok {
		return Sorted, errors.StructuralEdit(string(t.Type(module)), "sorting section metadata requires a Module")
	}

	meta, ok := Get[*ModuleMetadata](t, m.Metadata)
	if !ok {
		Logger().Debug("no section metadata to sort", zap.Int32("module", int32(module)))
		return NoMetadata, nil
	}

	ids := make(map[Ref]byte, len(meta.Sections))
	for _, r := range meta.Sections {
		s, ok := Get[*SectionMetadata](t, r)
		if !ok {
			return Sorted, errors.StructuralEdit(string(t.Type(r)), "metadata section list holds a non-section node")
		}
		id, ok := SectionID(s.Section)
		if !ok {
			return Sorted, errors.NotFound(errors.PhaseEdit, "section id", string(s.Section))
		}
		ids[r] = id
	}

	slices.SortStableFunc(meta.Sections, func(a, b Ref) int {
		return cmp.Compare(ids[a], ids[b])
	})
	return Sorted, nil
}

// OrderedInsertNode inserts node into the module fields before the first
// field that ends after node starts. Fields without a location sort last.
// Exports are always appended.
func OrderedInsertNode(t *Tree, module, node Ref) error {
	if err := AssertHasLoc(t, node); err != nil {
		return err
	}
	m, ok := Get[*Module](t, module)
	if !ok {
		return errors.StructuralEdit(string(t.Type(module)), "ordered insert requires a Module")
	}

	n := t.Node(node)
	if n.Type() == TypeModuleExport {
		m.Fields = append(m.Fields, node)
		return nil
	}

	start := n.Location().Start.Column
	at := len(m.Fields)
	for i, f := range m.Fields {
		end := math.MaxInt
		if fn := t.Node(f); fn != nil && fn.Location() != nil {
			end = fn.Location().End.Column
		}
		if start < end {
			at = i
			break
		}
	}

	m.Fields = slices.Insert(m.Fields, at, node)
	return nil
}

// AssertHasLoc fails when the node has no start or end position.
func AssertHasLoc(t *Tree, r Ref) error {
	n := t.Node(r)
	if n == nil {
		return errors.MissingLocation("")
	}
	if n.Location() == nil {
		return errors.MissingLocation(string(n.Type()))
	}
	return nil
}

// GetEndOfSection returns the offset of the first byte after the section:
// its start offset plus the width of the size field plus the size.
func GetEndOfSection(t *Tree, section Ref) (uint32, error) {
	s, ok := Get[*SectionMetadata](t, section)
	if !ok {
		return 0, errors.StructuralEdit(string(t.Type(section)), "end of section requires a SectionMetadata")
	}
	if err := AssertHasLoc(t, s.Size); err != nil {
		return 0, err
	}

	size, ok := Get[*NumberLiteral](t, s.Size)
	if !ok {
		return 0, errors.StructuralEdit(string(t.Type(s.Size)), "section size must be a NumberLiteral")
	}
	if size.Value < 0 || size.Value > math.MaxUint32 {
		return 0, errors.New(errors.PhaseEdit, errors.KindInvalidData).
			Node(string(TypeSectionMetadata)).
			Value(size.Value).
			Detail("%s section size %d is out of range", s.Section, size.Value).
			Build()
	}
	loc := size.Location()
	width := loc.End.Column - loc.Start.Column

	return s.StartOffset + uint32(size.Value) + uint32(width), nil
}

// ShiftLoc moves a node's span by delta columns. Nodes without a location
// are left alone.
func ShiftLoc(n Node, delta int) {
	if n == nil || n.Location() == nil {
		return
	}
	loc := n.Location()
	loc.Start.Column += delta
	loc.End.Column += delta
}

// ShiftSection moves a section by delta bytes: its start offset, the spans
// of its size and vector-length literals, and the span of every node under
// root that is encoded in that section.
func ShiftSection(t *Tree, root, section Ref, delta int) error {
	s, ok := Get[*SectionMetadata](t, section)
	if !ok {
		return errors.StructuralEdit(string(t.Type(section)), "can not shift a node that is not a SectionMetadata")
	}

	offset := int64(s.StartOffset) + int64(delta)
	if offset < 0 || offset > math.MaxUint32 {
		return errors.New(errors.PhaseEdit, errors.KindInvalidData).
			Node(string(TypeSectionMetadata)).
			Value(offset).
			Detail("shifting %s section by %d leaves its offset out of range", s.Section, delta).
			Build()
	}

	s.StartOffset = uint32(offset)
	ShiftLoc(t.Node(s.Size), delta)
	ShiftLoc(t.Node(s.VectorOfSize), delta)

	shifted := 0
	Traverse(t, root, Visitors{
		AnyNode: func(p *Path) {
			n := p.Node()
			if name, ok := SectionForNode(n); ok && name == s.Section && n.Location() != nil {
				ShiftLoc(n, delta)
				shifted++
			}
		},
	})

	Logger().Debug("shift section",
		zap.String("section", string(s.Section)),
		zap.Int("delta", delta),
		zap.Uint32("offset", s.StartOffset),
		zap.Int("nodes", shifted))
	return nil
}
