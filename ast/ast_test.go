package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func requireRef(t *testing.T) func(Ref, error) Ref {
	return func(r Ref, err error) Ref {
		t.Helper()
		require.NoError(t, err)
		return r
	}
}

func pos(col int) Position {
	return Position{Line: 1, Column: col}
}

// fixture is a small module with located fields:
//
//	(module
//	  (type (func))          ;; cols 5..8
//	  (func $f (type 0) ...) ;; cols 10..12
//	  (global ...)           ;; cols 20..25
//	  (export "f" (func 0))) ;; cols 30..34
type fixture struct {
	tree   *Tree
	module Ref
	typ    Ref
	fn     Ref
	instr  Ref
	global Ref
	export Ref
}

func newFixture(t *testing.T) fixture {
	must := requireRef(t)
	tr := NewTree()

	sig := must(tr.NewSignature(nil, nil))
	typ := tr.WithLoc(must(tr.NewTypeInstruction(NilRef, sig)), pos(5), pos(8))

	lit := must(tr.NumberLiteralFromRaw("1", I32))
	instr := tr.WithLoc(must(tr.NewObjectInstruction("const", I32, []Ref{lit}, nil)), pos(11), pos(12))
	drop := must(tr.NewInstruction("drop", nil, nil))
	name := must(tr.NewIdentifier("f"))
	fn := tr.WithLoc(must(tr.NewFunc(name, tr.IndexLiteral(0), []Ref{instr, drop})), pos(10), pos(12))

	gt := must(tr.NewGlobalType(I32, Const))
	zero := must(tr.NumberLiteralFromRaw("0", I32))
	initExpr := must(tr.NewObjectInstruction("const", I32, []Ref{zero}, nil))
	global := tr.WithLoc(must(tr.NewGlobal(gt, []Ref{initExpr}, NilRef)), pos(20), pos(25))

	export := tr.WithLoc(must(tr.NewModuleExport("f", ExportFunc, tr.IndexLiteral(0))), pos(30), pos(34))

	module := must(tr.NewModule(nil, []Ref{typ, fn, global, export}, NilRef))

	return fixture{
		tree:   tr,
		module: module,
		typ:    typ,
		fn:     fn,
		instr:  instr,
		global: global,
		export: export,
	}
}

func (f fixture) fields(t *testing.T) []Ref {
	m, ok := Get[*Module](f.tree, f.module)
	require.True(t, ok)
	return m.Fields
}
