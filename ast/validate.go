package ast

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wippyai/wasm-ast/errors"
)

// Kind sets accepted by node-typed fields. A nil set accepts any node.
var (
	indexKinds = []Type{TypeNumberLiteral, TypeIdentifier}

	instructionKinds = []Type{
		TypeInstr,
		TypeBlockInstruction,
		TypeLoopInstruction,
		TypeIfInstruction,
		TypeCallInstruction,
		TypeCallIndirectInstruction,
	}

	expressionKinds = append(slices.Clone(instructionKinds),
		TypeIdentifier,
		TypeNumberLiteral,
		TypeLongNumberLiteral,
		TypeFloatLiteral,
		TypeStringLiteral,
		TypeValtypeLiteral,
	)

	signatureKinds   = append([]Type{TypeSignature}, indexKinds...)
	importDescrKinds = []Type{TypeFuncImportDescr, TypeGlobalType, TypeMemory, TypeTable}
)

// IsInstruction reports whether n is one of the instruction kinds.
func IsInstruction(n Node) bool {
	return n != nil && slices.Contains(instructionKinds, n.Type())
}

// validator accumulates the first broken invariant of a constructor call.
type validator struct {
	t    *Tree
	node Type
	err  error
}

func (t *Tree) validate(node Type) *validator {
	return &validator{t: t, node: node}
}

func (v *validator) fail(field, invariant string, args ...any) {
	if v.err == nil {
		v.err = errors.Assertion(string(v.node), []string{field}, fmt.Sprintf(invariant, args...))
	}
}

func (v *validator) failed(field, invariant string, args ...any) error {
	v.fail(field, invariant, args...)
	return v.err
}

func (v *validator) kind(field string, r Ref, kinds []Type) {
	n := v.t.Node(r)
	if n == nil {
		v.fail(field, "ref %d does not point to a node", r)
		return
	}
	if kinds != nil && !slices.Contains(kinds, n.Type()) {
		v.fail(field, "expected %s, got %s", kindList(kinds), n.Type())
	}
}

func (v *validator) required(field string, r Ref, kinds []Type) {
	if r.IsNil() {
		v.fail(field, "field is required")
		return
	}
	v.kind(field, r, kinds)
}

func (v *validator) maybe(field string, r Ref, kinds []Type) {
	if !r.IsNil() {
		v.kind(field, r, kinds)
	}
}

func (v *validator) each(field string, refs []Ref, kinds []Type) {
	for i, r := range refs {
		v.required(fmt.Sprintf("%s[%d]", field, i), r, kinds)
	}
}

func (v *validator) nonEmpty(field, value string) {
	if value == "" {
		v.fail(field, "must be a non-empty string")
	}
}

func (v *validator) oneOf(field, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		v.fail(field, "%q is not one of %s", value, strings.Join(allowed, ", "))
	}
}

func (v *validator) valtype(field string, vt Valtype) {
	v.oneOf(field, string(vt), string(I32), string(I64), string(F32), string(F64), string(U32), string(Label))
}

func kindList(kinds []Type) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

// optional drops empty lists so that absent and empty read the same.
func optional(refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}
	return slices.Clone(refs)
}
