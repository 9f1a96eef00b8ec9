// Package wasmast is the root of a toolkit for WebAssembly text and binary
// module front ends.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmast/
//	├── wat/             WAT/WAST tokenization entry point
//	│   └── token/       Lexer, number literal automaton, code frames
//	├── ast/             Node model, traversal engine, offset editing
//	├── wasm/            Binary section ids, LEB128 helpers, section scanner
//	├── errors/          Structured error types for debugging
//	└── cmd/watkit/      Command line front end
//
// # Quick Start
//
// Tokenize a text module:
//
//	tokens, err := wat.Tokenize("(module (func))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Build section metadata for a binary module and move a section:
//
//	headers, err := wasm.ScanSections(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t := ast.NewTree()
//	meta, _ := ast.MetadataFromSections(t, headers)
//	module, _ := t.NewModule(nil, nil, meta)
//
//	code, _ := ast.GetSectionMetadata(t, module, ast.SectionCode)
//	if err := ast.ShiftSection(t, module, code, 4); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// A Tree is NOT safe for concurrent mutation. Traversals and edits of one
// Tree must be confined to a single goroutine, or access must be
// synchronized. The package loggers may be replaced at any time.
package wasmast
