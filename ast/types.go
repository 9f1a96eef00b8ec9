package ast

import "fmt"

// Type is the discriminant of a node kind.
type Type string

// AnyNode is the visitor key invoked for every node, before the
// type-specific visitor.
const AnyNode Type = "Node"

const (
	TypeProgram                 Type = "Program"
	TypeModule                  Type = "Module"
	TypeModuleMetadata          Type = "ModuleMetadata"
	TypeSectionMetadata         Type = "SectionMetadata"
	TypeFunctionNameMetadata    Type = "FunctionNameMetadata"
	TypeModuleNameMetadata      Type = "ModuleNameMetadata"
	TypeLocalNameMetadata       Type = "LocalNameMetadata"
	TypeBinaryModule            Type = "BinaryModule"
	TypeQuoteModule             Type = "QuoteModule"
	TypeFunc                    Type = "Func"
	TypeSignature               Type = "Signature"
	TypeInstr                   Type = "Instr"
	TypeBlockInstruction        Type = "BlockInstruction"
	TypeLoopInstruction         Type = "LoopInstruction"
	TypeIfInstruction           Type = "IfInstruction"
	TypeCallInstruction         Type = "CallInstruction"
	TypeCallIndirectInstruction Type = "CallIndirectInstruction"
	TypeTypeInstruction         Type = "TypeInstruction"
	TypeModuleExport            Type = "ModuleExport"
	TypeModuleExportDescr       Type = "ModuleExportDescr"
	TypeModuleImport            Type = "ModuleImport"
	TypeFuncImportDescr         Type = "FuncImportDescr"
	TypeTable                   Type = "Table"
	TypeMemory                  Type = "Memory"
	TypeLimit                   Type = "Limit"
	TypeData                    Type = "Data"
	TypeBytes                   Type = "Bytes"
	TypeGlobal                  Type = "Global"
	TypeGlobalType              Type = "GlobalType"
	TypeNumberLiteral           Type = "NumberLiteral"
	TypeLongNumberLiteral       Type = "LongNumberLiteral"
	TypeFloatLiteral            Type = "FloatLiteral"
	TypeStringLiteral           Type = "StringLiteral"
	TypeIdentifier              Type = "Identifier"
	TypeValtypeLiteral          Type = "ValtypeLiteral"
	TypeLeadingComment          Type = "LeadingComment"
	TypeBlockComment            Type = "BlockComment"
	TypeStart                   Type = "Start"
	TypeElem                    Type = "Elem"
	TypeIndexInFuncSection      Type = "IndexInFuncSection"
)

// Ref is a stable handle to a node slot in a Tree. Holders store the Ref,
// never the node itself, so replacing a slot is observed by every holder.
type Ref int32

// NilRef marks an absent node.
const NilRef Ref = 0

func (r Ref) IsNil() bool {
	return r == NilRef
}

// Position is a line and column. Text positions are 1-based; positions
// derived from a binary module use BinaryLine and a byte-offset column.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// BinaryLine is the line of positions that point into a binary module.
const BinaryLine = -1

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type SourceLocation struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// Base holds the attributes shared by every node kind.
type Base struct {
	Loc     *SourceLocation
	deleted bool
}

func (b *Base) base() *Base {
	return b
}

// Location returns the source span, or nil.
func (b *Base) Location() *SourceLocation {
	return b.Loc
}

// Deleted reports whether the node was removed through a Path.
func (b *Base) Deleted() bool {
	return b.deleted
}

// Node is implemented by every node kind of this package. The set is closed.
type Node interface {
	Type() Type
	Location() *SourceLocation
	Deleted() bool

	// Children lists the child refs in field order. The returned slice is
	// owned by the caller.
	Children() []Ref

	base() *Base
}

// Container is implemented by nodes that own a removable child list.
type Container interface {
	Node

	// RemoveChild drops ref from the child list and reports whether it was
	// present.
	RemoveChild(ref Ref) bool
}

type Valtype string

const (
	I32   Valtype = "i32"
	I64   Valtype = "i64"
	F32   Valtype = "f32"
	F64   Valtype = "f64"
	U32   Valtype = "u32"
	Label Valtype = "label"
)

type Mutability string

const (
	Const Mutability = "const"
	Var   Mutability = "var"
)

type ExportDescrType string

const (
	ExportFunc   ExportDescrType = "Func"
	ExportTable  ExportDescrType = "Table"
	ExportMemory ExportDescrType = "Memory"
	ExportGlobal ExportDescrType = "Global"
)

// SectionName names a binary module section.
type SectionName string

const (
	SectionCustom  SectionName = "custom"
	SectionType    SectionName = "type"
	SectionImport  SectionName = "import"
	SectionFunc    SectionName = "func"
	SectionTable   SectionName = "table"
	SectionMemory  SectionName = "memory"
	SectionGlobal  SectionName = "global"
	SectionExport  SectionName = "export"
	SectionStart   SectionName = "start"
	SectionElement SectionName = "element"
	SectionCode    SectionName = "code"
	SectionData    SectionName = "data"
)

// FuncParam is a parameter of a Signature. It is not a node.
type FuncParam struct {
	ID      *string
	Valtype Valtype
}

// FuncMetadata carries binary-only facts about a function body.
type FuncMetadata struct {
	BodySize uint32
}
