// Package ast is the node model of WebAssembly modules together with the
// traversal engine and the location-aware editing helpers built on it.
//
// # Tree
//
// Nodes live in a Tree arena and refer to each other by Ref. Nodes are
// created through the checked constructors on Tree, which validate field
// kinds and return an errors.KindAssertion error on a broken invariant:
//
//	t := ast.NewTree()
//	sig, _ := t.NewSignature(nil, []ast.Valtype{ast.I32})
//	fn, err := t.NewFunc(ast.NilRef, sig, nil)
//
// # Traversal
//
// Traverse walks a subtree depth-first and calls visitors keyed by node
// Type. The AnyNode visitor sees every node. Visitors edit the tree through
// the Path they receive:
//
//	ast.Traverse(t, module, ast.Visitors{
//		ast.TypeModuleExport: func(p *ast.Path) {
//			_ = p.Remove()
//		},
//	})
//
// Remove is supported for Program bodies, Module fields, ModuleMetadata
// sections and Func bodies. ReplaceWith keeps the Ref, so every holder of
// the replaced node sees its replacement.
//
// # Binary offsets
//
// SectionMetadata nodes tie a module to the binary layout it was decoded
// from. MetadataFromSections builds them from wasm.ScanSections output;
// GetEndOfSection, ShiftSection and OrderedInsertNode keep offsets and
// source spans consistent while fields are inserted or resized.
package ast
