package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wasm-ast/errors"
	"github.com/wippyai/wasm-ast/wasm"
)

// binaryModule holds a type, func, code and custom section:
//
//	offset  9: type   size 4, vector 1
//	offset 15: func   size 2, vector 1
//	offset 19: code   size 4, vector 1
//	offset 25: custom size 5
var binaryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
	0x00, 0x05, 0x04, 'n', 'a', 'm', 'e',
}

// withMetadata attaches metadata scanned from binaryModule to the fixture
// module.
func withMetadata(t *testing.T, f fixture) Ref {
	headers, err := wasm.ScanSections(binaryModule)
	require.NoError(t, err)

	meta, err := MetadataFromSections(f.tree, headers)
	require.NoError(t, err)

	m, ok := Get[*Module](f.tree, f.module)
	require.True(t, ok)
	m.Metadata = meta
	return meta
}

func TestOrderedInsertNode(t *testing.T) {
	must := requireRef(t)

	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"between fields", 12, 2},
		{"before the first field", 1, 0},
		{"inside a field", 6, 0},
		{"after every located field", 40, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			start := must(f.tree.NewStart(f.tree.IndexLiteral(0)))
			f.tree.WithLoc(start, pos(tt.start), pos(tt.start+2))

			require.NoError(t, OrderedInsertNode(f.tree, f.module, start))

			fields := f.fields(t)
			require.Len(t, fields, 5)
			assert.Equal(t, start, fields[tt.want])
		})
	}
}

func TestOrderedInsertNodeKeepsColumnOrder(t *testing.T) {
	f := newFixture(t)
	must := requireRef(t)

	start := f.tree.WithLoc(must(f.tree.NewStart(f.tree.IndexLiteral(0))), pos(12), pos(14))
	require.NoError(t, OrderedInsertNode(f.tree, f.module, start))

	var cols []int
	for _, r := range f.fields(t) {
		if f.tree.Type(r) == TypeModuleExport {
			continue
		}
		cols = append(cols, f.tree.Node(r).Location().Start.Column)
	}
	assert.Equal(t, []int{5, 10, 12, 20}, cols)
}

func TestOrderedInsertNodeAppendsExports(t *testing.T) {
	f := newFixture(t)
	must := requireRef(t)

	export := must(f.tree.NewModuleExport("g", ExportGlobal, f.tree.IndexLiteral(0)))
	f.tree.WithLoc(export, pos(1), pos(3))

	require.NoError(t, OrderedInsertNode(f.tree, f.module, export))

	fields := f.fields(t)
	assert.Equal(t, export, fields[len(fields)-1])
}

func TestOrderedInsertNodeUnlocatedFieldsSortLast(t *testing.T) {
	tr := NewTree()
	must := requireRef(t)

	loose := must(tr.NewStart(tr.IndexLiteral(0)))
	module := must(tr.NewModule(nil, []Ref{loose}, NilRef))
	start := tr.WithLoc(must(tr.NewStart(tr.IndexLiteral(1))), pos(100), pos(110))

	require.NoError(t, OrderedInsertNode(tr, module, start))

	m, _ := Get[*Module](tr, module)
	assert.Equal(t, []Ref{start, loose}, m.Fields)
}

func TestOrderedInsertNodeRequiresLocation(t *testing.T) {
	f := newFixture(t)
	must := requireRef(t)

	start := must(f.tree.NewStart(f.tree.IndexLiteral(0)))
	err := OrderedInsertNode(f.tree, f.module, start)

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingLocation)
	assert.Len(t, f.fields(t), 4)
}

func TestSortSectionMetadata(t *testing.T) {
	tr := NewTree()
	must := requireRef(t)

	section := func(name SectionName) Ref {
		return must(tr.NewSectionMetadata(name, 0, tr.IndexLiteral(0), tr.IndexLiteral(0)))
	}
	code := section(SectionCode)
	typ := section(SectionType)
	customA := section(SectionCustom)
	imp := section(SectionImport)
	customB := section(SectionCustom)

	meta := must(tr.NewModuleMetadata([]Ref{code, typ, customA, imp, customB}, nil, nil, NilRef))
	module := must(tr.NewModule(nil, nil, meta))

	res, err := SortSectionMetadata(tr, module)
	require.NoError(t, err)
	assert.Equal(t, Sorted, res)

	m, _ := Get[*ModuleMetadata](tr, meta)
	assert.Equal(t, []Ref{customA, customB, typ, imp, code}, m.Sections)
}

func TestSortSectionMetadataWithoutMetadata(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	f := newFixture(t)

	res, err := SortSectionMetadata(f.tree, f.module)
	require.NoError(t, err)
	assert.Equal(t, NoMetadata, res)
	assert.Equal(t, "no metadata", res.String())
	assert.Equal(t, 1, logs.FilterMessage("no section metadata to sort").Len())

	_, err = SortSectionMetadata(f.tree, f.fn)
	assert.ErrorIs(t, err, errors.ErrStructuralEdit)
}

func TestGetSectionMetadata(t *testing.T) {
	f := newFixture(t)
	withMetadata(t, f)

	code, ok := GetSectionMetadata(f.tree, f.module, SectionCode)
	require.True(t, ok)
	s, _ := Get[*SectionMetadata](f.tree, code)
	assert.Equal(t, uint32(19), s.StartOffset)

	_, ok = GetSectionMetadata(f.tree, f.module, SectionData)
	assert.False(t, ok)
}

func TestGetSectionMetadataFirstMatch(t *testing.T) {
	tr := NewTree()
	must := requireRef(t)

	first := must(tr.NewSectionMetadata(SectionCustom, 10, tr.IndexLiteral(0), tr.IndexLiteral(0)))
	second := must(tr.NewSectionMetadata(SectionCustom, 20, tr.IndexLiteral(0), tr.IndexLiteral(0)))
	meta := must(tr.NewModuleMetadata([]Ref{first, second}, nil, nil, NilRef))

	got, ok := GetSectionMetadata(tr, meta, SectionCustom)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestGetEndOfSection(t *testing.T) {
	f := newFixture(t)
	withMetadata(t, f)

	tests := []struct {
		section SectionName
		end     uint32
	}{
		{SectionType, 14},
		{SectionFunc, 18},
		{SectionCode, 24},
		{SectionCustom, 31},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			ref, ok := GetSectionMetadata(f.tree, f.module, tt.section)
			require.True(t, ok)

			end, err := GetEndOfSection(f.tree, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestGetEndOfSectionErrors(t *testing.T) {
	tr := NewTree()
	must := requireRef(t)

	unlocated := must(tr.NewSectionMetadata(SectionCode, 0, tr.IndexLiteral(4), tr.IndexLiteral(1)))
	_, err := GetEndOfSection(tr, unlocated)
	assert.ErrorIs(t, err, errors.ErrMissingLocation)

	_, err = GetEndOfSection(tr, tr.IndexLiteral(0))
	assert.ErrorIs(t, err, errors.ErrStructuralEdit)

	for _, value := range []int64{-1, 1 << 32} {
		size := tr.WithLoc(must(tr.NewNumberLiteral(value, "")),
			Position{Line: BinaryLine, Column: 9},
			Position{Line: BinaryLine, Column: 10})
		section := must(tr.NewSectionMetadata(SectionCode, 8, size, tr.IndexLiteral(1)))

		_, err = GetEndOfSection(tr, section)
		assert.ErrorIs(t, err, errors.ErrInvalidData, "size %d", value)
	}
}

func TestShiftSection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	f := newFixture(t)
	withMetadata(t, f)

	code, ok := GetSectionMetadata(f.tree, f.module, SectionCode)
	require.True(t, ok)
	before, err := GetEndOfSection(f.tree, code)
	require.NoError(t, err)

	require.NoError(t, ShiftSection(f.tree, f.module, code, 4))

	after, err := GetEndOfSection(f.tree, code)
	require.NoError(t, err)
	assert.Equal(t, before+4, after)

	s, _ := Get[*SectionMetadata](f.tree, code)
	assert.Equal(t, uint32(23), s.StartOffset)
	assert.Equal(t, SourceLocation{
		Start: Position{Line: BinaryLine, Column: 23},
		End:   Position{Line: BinaryLine, Column: 24},
	}, *f.tree.Node(s.Size).Location())
	assert.Equal(t, 24, f.tree.Node(s.VectorOfSize).Location().Start.Column)

	// Code section nodes move; the rest stay.
	assert.Equal(t, SourceLocation{Start: pos(14), End: pos(16)}, *f.tree.Node(f.fn).Location())
	assert.Equal(t, SourceLocation{Start: pos(15), End: pos(16)}, *f.tree.Node(f.instr).Location())
	assert.Equal(t, SourceLocation{Start: pos(20), End: pos(25)}, *f.tree.Node(f.global).Location())
	assert.Equal(t, SourceLocation{Start: pos(5), End: pos(8)}, *f.tree.Node(f.typ).Location())

	typ, _ := GetSectionMetadata(f.tree, f.module, SectionType)
	end, err := GetEndOfSection(f.tree, typ)
	require.NoError(t, err)
	assert.Equal(t, uint32(14), end)

	entries := logs.FilterMessage("shift section").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["nodes"])
}

func TestShiftSectionErrors(t *testing.T) {
	f := newFixture(t)
	withMetadata(t, f)

	err := ShiftSection(f.tree, f.module, f.fn, 1)
	assert.ErrorIs(t, err, errors.ErrStructuralEdit)

	typ, _ := GetSectionMetadata(f.tree, f.module, SectionType)
	err = ShiftSection(f.tree, f.module, typ, -100)
	assert.ErrorIs(t, err, errors.ErrInvalidData)

	s, _ := Get[*SectionMetadata](f.tree, typ)
	assert.Equal(t, uint32(9), s.StartOffset)
}

func TestShiftLoc(t *testing.T) {
	tr := NewTree()
	must := requireRef(t)

	id := tr.WithLoc(must(tr.NewIdentifier("x")), pos(3), pos(5))
	ShiftLoc(tr.Node(id), -2)
	assert.Equal(t, SourceLocation{Start: pos(1), End: pos(3)}, *tr.Node(id).Location())

	bare := must(tr.NewIdentifier("y"))
	ShiftLoc(tr.Node(bare), 7)
	assert.Nil(t, tr.Node(bare).Location())

	ShiftLoc(nil, 1)
}
