package ast

import (
	"fmt"
	"reflect"

	"github.com/wippyai/wasm-ast/errors"
)

// Tree is an arena that owns every node of one or more node trees.
// Slot 0 is reserved for NilRef. Slots are never reused.
type Tree struct {
	nodes []Node
}

func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 1, 64)}
}

// Len returns the number of allocated slots, including released ones.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Node returns the node in slot r, or nil for NilRef, a released slot or an
// out-of-range ref.
func (t *Tree) Node(r Ref) Node {
	if r <= NilRef || int(r) >= len(t.nodes) {
		return nil
	}
	return t.nodes[r]
}

// Type returns the kind of the node in slot r, or the empty Type.
func (t *Tree) Type(r Ref) Type {
	if n := t.Node(r); n != nil {
		return n.Type()
	}
	return ""
}

// Get returns the node in slot r when it has type T.
func Get[T Node](t *Tree, r Ref) (T, bool) {
	n, ok := t.Node(r).(T)
	return n, ok
}

func (t *Tree) add(n Node) Ref {
	t.nodes = append(t.nodes, n)
	return Ref(len(t.nodes) - 1)
}

// Replace stores a copy of the node at with in slot target. Every holder of
// target observes the new node. The copy owns its ref lists, maps and
// location, so with stays valid and may remain linked elsewhere.
func (t *Tree) Replace(target, with Ref) error {
	old := t.Node(target)
	if old == nil {
		return errors.StructuralEdit("", fmt.Sprintf("replace target %d does not exist", target))
	}
	n := t.Node(with)
	if n == nil {
		return errors.StructuralEdit(string(old.Type()), fmt.Sprintf("replacement %d does not exist", with))
	}
	if target == with {
		return errors.StructuralEdit(string(old.Type()), "node can not replace itself")
	}

	c := cloneNode(n)
	c.base().deleted = old.Deleted()
	t.nodes[target] = c
	return nil
}

// cloneNode copies a node struct. Slices and maps are copied one level deep,
// pointers to scalar values are shared.
func cloneNode(n Node) Node {
	src := reflect.ValueOf(n).Elem()
	dst := reflect.New(src.Type()).Elem()
	dst.Set(src)

	for i := range dst.NumField() {
		if !src.Type().Field(i).IsExported() {
			continue
		}
		f := dst.Field(i)
		switch f.Kind() {
		case reflect.Slice:
			if !f.IsNil() {
				s := reflect.MakeSlice(f.Type(), f.Len(), f.Len())
				reflect.Copy(s, f)
				f.Set(s)
			}
		case reflect.Map:
			if !f.IsNil() {
				m := reflect.MakeMapWithSize(f.Type(), f.Len())
				iter := f.MapRange()
				for iter.Next() {
					m.SetMapIndex(iter.Key(), iter.Value())
				}
				f.Set(m)
			}
		}
	}

	c := dst.Addr().Interface().(Node)
	if b := c.base(); b.Loc != nil {
		loc := *b.Loc
		b.Loc = &loc
	}
	return c
}

// WithLoc attaches a source span to the node in slot r and returns r.
func (t *Tree) WithLoc(r Ref, start, end Position) Ref {
	if n := t.Node(r); n != nil {
		n.base().Loc = &SourceLocation{Start: start, End: end}
	}
	return r
}

// WithRaw sets the source spelling of a literal or identifier.
func (t *Tree) WithRaw(r Ref, raw string) error {
	switch n := t.Node(r).(type) {
	case *NumberLiteral:
		n.Raw = raw
	case *LongNumberLiteral:
		n.Raw = raw
	case *FloatLiteral:
		n.Raw = raw
	case *Identifier:
		n.Raw = &raw
	case nil:
		return errors.NotFound(errors.PhaseConstruct, "node", fmt.Sprint(r))
	default:
		return errors.Unsupported(errors.PhaseConstruct, fmt.Sprintf("raw value on %s", n.Type()))
	}
	return nil
}
