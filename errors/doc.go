// Package errors provides structured error types for the wasm-ast module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending node type, source position, a rendered
// code frame for lexical errors, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConstruct, errors.KindAssertion).
//		Node("Func").
//		Path("body").
//		Detail("must be an instruction").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Lexical(line, col, frame, "unexpected character '@'")
//	err := errors.MissingLocation("ModuleExport")
//
// Kind-only sentinels match any phase:
//
//	if stderrors.Is(err, errors.ErrStructuralEdit) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
