package ast

import (
	"maps"
	"slices"
)

// children flattens ref lists in order, dropping absent refs.
func children(lists ...[]Ref) []Ref {
	var out []Ref
	for _, l := range lists {
		for _, r := range l {
			if !r.IsNil() {
				out = append(out, r)
			}
		}
	}
	return out
}

func one(r Ref) []Ref {
	return []Ref{r}
}

func removeRef(list *[]Ref, ref Ref) bool {
	i := slices.Index(*list, ref)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}

type Program struct {
	Base
	Body []Ref
}

func (*Program) Type() Type               { return TypeProgram }
func (n *Program) Children() []Ref        { return children(n.Body) }
func (n *Program) RemoveChild(r Ref) bool { return removeRef(&n.Body, r) }

type Module struct {
	Base
	ID       *string
	Fields   []Ref
	Metadata Ref // ModuleMetadata
}

func (*Module) Type() Type               { return TypeModule }
func (n *Module) Children() []Ref        { return children(n.Fields, one(n.Metadata)) }
func (n *Module) RemoveChild(r Ref) bool { return removeRef(&n.Fields, r) }

type ModuleMetadata struct {
	Base
	Sections      []Ref // SectionMetadata
	FunctionNames []Ref // FunctionNameMetadata
	LocalNames    []Ref // LocalNameMetadata
	ModuleName    Ref   // ModuleNameMetadata
}

func (*ModuleMetadata) Type() Type { return TypeModuleMetadata }
func (n *ModuleMetadata) Children() []Ref {
	return children(n.Sections, n.FunctionNames, n.LocalNames, one(n.ModuleName))
}
func (n *ModuleMetadata) RemoveChild(r Ref) bool { return removeRef(&n.Sections, r) }

// SectionMetadata records where a section sits in the binary. StartOffset
// is the offset of the section size field. Size and VectorOfSize are
// NumberLiterals whose locations span their LEB128 encodings; a section
// without a vector carries a VectorOfSize of -1 with no location.
type SectionMetadata struct {
	Base
	Section      SectionName
	StartOffset  uint32
	Size         Ref
	VectorOfSize Ref
}

func (*SectionMetadata) Type() Type        { return TypeSectionMetadata }
func (n *SectionMetadata) Children() []Ref { return children(one(n.Size), one(n.VectorOfSize)) }

type FunctionNameMetadata struct {
	Base
	Value string
	Index uint32
}

func (*FunctionNameMetadata) Type() Type      { return TypeFunctionNameMetadata }
func (*FunctionNameMetadata) Children() []Ref { return nil }

type ModuleNameMetadata struct {
	Base
	Value string
}

func (*ModuleNameMetadata) Type() Type      { return TypeModuleNameMetadata }
func (*ModuleNameMetadata) Children() []Ref { return nil }

type LocalNameMetadata struct {
	Base
	Value         string
	LocalIndex    uint32
	FunctionIndex uint32
}

func (*LocalNameMetadata) Type() Type      { return TypeLocalNameMetadata }
func (*LocalNameMetadata) Children() []Ref { return nil }

type BinaryModule struct {
	Base
	ID   *string
	Blob []string
}

func (*BinaryModule) Type() Type      { return TypeBinaryModule }
func (*BinaryModule) Children() []Ref { return nil }

type QuoteModule struct {
	Base
	ID     *string
	String []string
}

func (*QuoteModule) Type() Type      { return TypeQuoteModule }
func (*QuoteModule) Children() []Ref { return nil }

type Func struct {
	Base
	Name       Ref // Identifier or NumberLiteral
	Signature  Ref // Signature, or an index into the type section
	Body       []Ref
	IsExternal bool
	Metadata   *FuncMetadata
}

func (*Func) Type() Type               { return TypeFunc }
func (n *Func) Children() []Ref        { return children(one(n.Name), one(n.Signature), n.Body) }
func (n *Func) RemoveChild(r Ref) bool { return removeRef(&n.Body, r) }

type Signature struct {
	Base
	Params  []FuncParam
	Results []Valtype
}

func (*Signature) Type() Type      { return TypeSignature }
func (*Signature) Children() []Ref { return nil }

// Instr is a plain instruction such as "local.get" or, with Object set,
// "i32.add".
type Instr struct {
	Base
	ID        string
	Object    Valtype
	Args      []Ref
	NamedArgs map[string]Ref
}

func (*Instr) Type() Type { return TypeInstr }
func (n *Instr) Children() []Ref {
	named := make([]Ref, 0, len(n.NamedArgs))
	for _, k := range slices.Sorted(maps.Keys(n.NamedArgs)) {
		named = append(named, n.NamedArgs[k])
	}
	return children(n.Args, named)
}

type BlockInstruction struct {
	Base
	Label  Ref // Identifier
	Instr  []Ref
	Result *Valtype
}

func (*BlockInstruction) Type() Type        { return TypeBlockInstruction }
func (*BlockInstruction) ID() string        { return "block" }
func (n *BlockInstruction) Children() []Ref { return children(one(n.Label), n.Instr) }

type LoopInstruction struct {
	Base
	Label      Ref
	ResultType *Valtype
	Instr      []Ref
}

func (*LoopInstruction) Type() Type        { return TypeLoopInstruction }
func (*LoopInstruction) ID() string        { return "loop" }
func (n *LoopInstruction) Children() []Ref { return children(one(n.Label), n.Instr) }

type IfInstruction struct {
	Base
	TestLabel  Ref // Identifier
	Test       []Ref
	Result     *Valtype
	Consequent []Ref
	Alternate  []Ref
}

func (*IfInstruction) Type() Type { return TypeIfInstruction }
func (*IfInstruction) ID() string { return "if" }
func (n *IfInstruction) Children() []Ref {
	return children(one(n.TestLabel), n.Test, n.Consequent, n.Alternate)
}

type CallInstruction struct {
	Base
	Index     Ref
	InstrArgs []Ref
}

func (*CallInstruction) Type() Type        { return TypeCallInstruction }
func (*CallInstruction) ID() string        { return "call" }
func (n *CallInstruction) Children() []Ref { return children(one(n.Index), n.InstrArgs) }

type CallIndirectInstruction struct {
	Base
	Signature Ref // Signature or index
	Intrs     []Ref
}

func (*CallIndirectInstruction) Type() Type        { return TypeCallIndirectInstruction }
func (*CallIndirectInstruction) ID() string        { return "call_indirect" }
func (n *CallIndirectInstruction) Children() []Ref { return children(one(n.Signature), n.Intrs) }

type TypeInstruction struct {
	Base
	ID       Ref
	FuncType Ref // Signature
}

func (*TypeInstruction) Type() Type        { return TypeTypeInstruction }
func (n *TypeInstruction) Children() []Ref { return children(one(n.ID), one(n.FuncType)) }

type ModuleExport struct {
	Base
	Name  string
	Descr Ref // ModuleExportDescr
}

func (*ModuleExport) Type() Type        { return TypeModuleExport }
func (n *ModuleExport) Children() []Ref { return children(one(n.Descr)) }

type ModuleExportDescr struct {
	Base
	ExportType ExportDescrType
	ID         Ref
}

func (*ModuleExportDescr) Type() Type        { return TypeModuleExportDescr }
func (n *ModuleExportDescr) Children() []Ref { return children(one(n.ID)) }

type ModuleImport struct {
	Base
	Module string
	Name   string
	Descr  Ref // FuncImportDescr, GlobalType, Memory or Table
}

func (*ModuleImport) Type() Type        { return TypeModuleImport }
func (n *ModuleImport) Children() []Ref { return children(one(n.Descr)) }

type FuncImportDescr struct {
	Base
	ID        Ref // Identifier
	Signature Ref // Signature
}

func (*FuncImportDescr) Type() Type        { return TypeFuncImportDescr }
func (n *FuncImportDescr) Children() []Ref { return children(one(n.ID), one(n.Signature)) }

type Table struct {
	Base
	ElementType string
	Limits      Ref // Limit
	Name        Ref
	Elements    []Ref
}

func (*Table) Type() Type        { return TypeTable }
func (n *Table) Children() []Ref { return children(one(n.Limits), one(n.Name), n.Elements) }

type Memory struct {
	Base
	Limits Ref // Limit
	ID     Ref
}

func (*Memory) Type() Type        { return TypeMemory }
func (n *Memory) Children() []Ref { return children(one(n.Limits), one(n.ID)) }

type Limit struct {
	Base
	Min uint32
	Max *uint32
}

func (*Limit) Type() Type      { return TypeLimit }
func (*Limit) Children() []Ref { return nil }

type Data struct {
	Base
	MemoryIndex Ref // NumberLiteral
	Offset      Ref // instruction
	Init        Ref // Bytes
}

func (*Data) Type() Type { return TypeData }
func (n *Data) Children() []Ref {
	return children(one(n.MemoryIndex), one(n.Offset), one(n.Init))
}

type Bytes struct {
	Base
	Values []byte
}

func (*Bytes) Type() Type      { return TypeBytes }
func (*Bytes) Children() []Ref { return nil }

type Global struct {
	Base
	GlobalType Ref // GlobalType
	Init       []Ref
	Name       Ref
}

func (*Global) Type() Type        { return TypeGlobal }
func (n *Global) Children() []Ref { return children(one(n.GlobalType), n.Init, one(n.Name)) }

type GlobalType struct {
	Base
	Valtype    Valtype
	Mutability Mutability
}

func (*GlobalType) Type() Type      { return TypeGlobalType }
func (*GlobalType) Children() []Ref { return nil }

type NumberLiteral struct {
	Base
	Value int64
	Raw   string
}

func (*NumberLiteral) Type() Type      { return TypeNumberLiteral }
func (*NumberLiteral) Children() []Ref { return nil }

// LongNumberLiteral holds an i64 value.
type LongNumberLiteral struct {
	Base
	Value int64
	Raw   string
}

func (*LongNumberLiteral) Type() Type      { return TypeLongNumberLiteral }
func (*LongNumberLiteral) Children() []Ref { return nil }

type FloatLiteral struct {
	Base
	Value float64
	NaN   bool
	Inf   bool
	Raw   string
}

func (*FloatLiteral) Type() Type      { return TypeFloatLiteral }
func (*FloatLiteral) Children() []Ref { return nil }

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) Type() Type      { return TypeStringLiteral }
func (*StringLiteral) Children() []Ref { return nil }

// Identifier is a symbolic name. Raw is the spelling in the source, or the
// empty string for a generated name.
type Identifier struct {
	Base
	Value string
	Raw   *string
}

func (*Identifier) Type() Type      { return TypeIdentifier }
func (*Identifier) Children() []Ref { return nil }

type ValtypeLiteral struct {
	Base
	Name Valtype
}

func (*ValtypeLiteral) Type() Type      { return TypeValtypeLiteral }
func (*ValtypeLiteral) Children() []Ref { return nil }

type LeadingComment struct {
	Base
	Value string
}

func (*LeadingComment) Type() Type      { return TypeLeadingComment }
func (*LeadingComment) Children() []Ref { return nil }

type BlockComment struct {
	Base
	Value string
}

func (*BlockComment) Type() Type      { return TypeBlockComment }
func (*BlockComment) Children() []Ref { return nil }

type Start struct {
	Base
	Index Ref
}

func (*Start) Type() Type        { return TypeStart }
func (n *Start) Children() []Ref { return children(one(n.Index)) }

type Elem struct {
	Base
	Table  Ref
	Offset []Ref
	Funcs  []Ref
}

func (*Elem) Type() Type        { return TypeElem }
func (n *Elem) Children() []Ref { return children(one(n.Table), n.Offset, n.Funcs) }

// IndexInFuncSection is an entry of the function section.
type IndexInFuncSection struct {
	Base
	Index Ref
}

func (*IndexInFuncSection) Type() Type        { return TypeIndexInFuncSection }
func (n *IndexInFuncSection) Children() []Ref { return children(one(n.Index)) }
