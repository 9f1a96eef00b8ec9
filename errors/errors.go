package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLex       Phase = "lex"       // WAT tokenization
	PhaseConstruct Phase = "construct" // node construction
	PhaseEdit      Phase = "edit"      // structural and location edits
	PhaseDecode    Phase = "decode"    // binary section scanning
	PhaseParse     Phase = "parse"     // facade-level parsing
)

// Kind categorizes the error
type Kind string

const (
	KindLexical         Kind = "lexical"
	KindAssertion       Kind = "assertion"
	KindStructuralEdit  Kind = "structural_edit"
	KindMissingLocation Kind = "missing_location"
	KindInvalidData     Kind = "invalid_data"
	KindUnsupported     Kind = "unsupported"
	KindNotFound        Kind = "not_found"
)

// Sentinels for errors.Is. They carry no phase, so they match any phase.
var (
	ErrLexical         = &Error{Kind: KindLexical}
	ErrAssertion       = &Error{Kind: KindAssertion}
	ErrStructuralEdit  = &Error{Kind: KindStructuralEdit}
	ErrMissingLocation = &Error{Kind: KindMissingLocation}
	ErrInvalidData     = &Error{Kind: KindInvalidData}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Node   string
	Detail string
	Frame  string
	Path   []string
	Line   int
	Column int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Line > 0 {
		fmt.Fprintf(&b, " (%d:%d)", e.Line, e.Column)
	}

	if e.Node != "" {
		b.WriteString(": node ")
		b.WriteString(e.Node)
	}

	if e.Detail != "" {
		if e.Node != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Node sets the node type name the error refers to
func (b *Builder) Node(t string) *Builder {
	b.err.Node = t
	return b
}

// At sets the 1-based source position
func (b *Builder) At(line, column int) *Builder {
	b.err.Line = line
	b.err.Column = column
	return b
}

// Frame attaches a rendered source excerpt
func (b *Builder) Frame(frame string) *Builder {
	b.err.Frame = frame
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Lexical creates a tokenization error at a source position
func Lexical(line, column int, frame, detail string) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindLexical,
		Line:   line,
		Column: column,
		Frame:  frame,
		Detail: detail,
	}
}

// Assertion creates a node construction invariant violation
func Assertion(node string, path []string, invariant string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindAssertion,
		Node:   node,
		Path:   path,
		Detail: invariant,
	}
}

// StructuralEdit creates an error for a rejected remove/replace/shift
func StructuralEdit(node, detail string) *Error {
	return &Error{
		Phase:  PhaseEdit,
		Kind:   KindStructuralEdit,
		Node:   node,
		Detail: detail,
	}
}

// MissingLocation creates an error for a node lacking a source span
func MissingLocation(node string) *Error {
	return &Error{
		Phase:  PhaseEdit,
		Kind:   KindMissingLocation,
		Node:   node,
		Detail: "node has no location information",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
