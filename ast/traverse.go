package ast

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-ast/errors"
)

// VisitFunc is called with the path of a visited node.
type VisitFunc func(p *Path)

// HookFunc is called around a type-specific visitor.
type HookFunc func(typ Type, p *Path)

// Visitors maps node types to callbacks. AnyNode is called for every node
// before the type-specific entry.
type Visitors map[Type]VisitFunc

// walk state shared by every Path of one traversal.
type walk struct {
	tree    *Tree
	stopped bool
}

// Path is a visited node with a link to its parent's path. The parent chain
// lives only for the duration of the traversal.
type Path struct {
	Ref    Ref
	Parent *Path

	w *walk
}

// NewPath builds a path outside a traversal.
func NewPath(t *Tree, ref Ref, parent *Path) *Path {
	w := &walk{tree: t}
	if parent != nil {
		w = parent.w
	}
	return &Path{Ref: ref, Parent: parent, w: w}
}

// Node returns the node currently stored at the path's slot.
func (p *Path) Node() Node {
	return p.w.tree.Node(p.Ref)
}

func (p *Path) Type() Type {
	return p.w.tree.Type(p.Ref)
}

func (p *Path) Tree() *Tree {
	return p.w.tree
}

// Stop ends the traversal once the current callback returns.
func (p *Path) Stop() {
	p.w.stopped = true
}

// Remove detaches the node from its parent's child list and marks it
// deleted. Only Program bodies, Module fields, ModuleMetadata sections and
// Func bodies support removal.
func (p *Path) Remove() error {
	n := p.Node()
	if n == nil {
		return errors.StructuralEdit("", fmt.Sprintf("node %d does not exist", p.Ref))
	}
	if p.Parent == nil {
		return errors.StructuralEdit(string(n.Type()), "can not remove the root node")
	}

	parent := p.Parent.Node()
	c, ok := parent.(Container)
	if !ok {
		typ := Type("")
		if parent != nil {
			typ = parent.Type()
		}
		return errors.StructuralEdit(string(n.Type()),
			fmt.Sprintf("removing a child of %s is not supported", typ))
	}
	if !c.RemoveChild(p.Ref) {
		return errors.StructuralEdit(string(n.Type()),
			fmt.Sprintf("node is not in the child list of %s", c.Type()))
	}

	n.base().deleted = true
	Logger().Debug("delete path",
		zap.String("node", string(n.Type())),
		zap.String("parent", string(c.Type())),
		zap.Int32("ref", int32(p.Ref)))
	return nil
}

// ReplaceWith copies the node at with into this path's slot. The slot keeps
// its Ref, so the parent and any other holder now see the new node. The node
// at with is left as it was.
func (p *Path) ReplaceWith(with Ref) error {
	return p.w.tree.Replace(p.Ref, with)
}

// Traverse walks the subtree at root depth-first, pre-order, and calls the
// matching visitors. Deleted nodes and their subtrees are skipped. Nodes may
// be removed or replaced from within a visitor; the children visited are
// those of the node stored at the slot after the visitors return.
func Traverse(t *Tree, root Ref, visitors Visitors) {
	w := &walk{tree: t}
	w.visit(root, nil, func(typ Type, p *Path) {
		if v := visitors[AnyNode]; v != nil {
			v(p)
		}
		if w.stopped {
			return
		}
		if v := visitors[typ]; v != nil {
			v(p)
		}
	})
}

// TraverseWithHooks calls before and after around each type-specific
// visitor. Nodes without a visitor get no hooks. Either hook may be nil.
func TraverseWithHooks(t *Tree, root Ref, visitors Visitors, before, after HookFunc) {
	w := &walk{tree: t}
	w.visit(root, nil, func(typ Type, p *Path) {
		v := visitors[typ]
		if v == nil {
			return
		}
		if before != nil {
			before(typ, p)
		}
		v(p)
		if after != nil {
			after(typ, p)
		}
	})
}

func (w *walk) visit(ref Ref, parent *Path, cb HookFunc) {
	n := w.tree.Node(ref)
	if n == nil || n.Deleted() || w.stopped {
		return
	}

	p := &Path{Ref: ref, Parent: parent, w: w}
	cb(n.Type(), p)

	n = w.tree.Node(ref)
	if n == nil || n.Deleted() {
		return
	}
	for _, c := range n.Children() {
		if w.stopped {
			return
		}
		w.visit(c, p, cb)
	}
}
