// Package wat provides WebAssembly Text format tokenization.
//
// This package is the entry point for turning WAT/WAST source into the token
// stream consumed by a grammar-level parser. The lexer itself lives in
// wat/token; this package adds logging and helpers for consumers.
//
// Basic usage:
//
//	tokens, err := wat.Tokenize(`(module
//		(func (export "add") (param i32 i32) (result i32)
//			local.get 0
//			local.get 1
//			i32.add))`)
//
// Lexical errors are *errors.Error values carrying the 1-based line and
// column of the offending character and a rendered code frame:
//
//	var lexErr *errors.Error
//	if stderrors.As(err, &lexErr) {
//		fmt.Println(lexErr.Frame)
//	}
//
// Recognized tokens:
//   - Parens, '=' and member-access dots (i32.add)
//   - Keywords (module, func, param, result, export, loop, block, ...)
//   - Value types i32, i64, f32, f64
//   - Identifiers ($name), names, strings (escapes kept verbatim)
//   - Numbers: decimal, hex, floats, hex floats, nan, nan:0x..., inf, '_' separators
//   - Comments: line (;;) and block (; ;), emitted as comment tokens
package wat
