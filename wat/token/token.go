package token

import "fmt"

type Type int

const (
	OpenParen Type = iota
	CloseParen
	Number
	String
	Name
	Identifier
	Valtype
	Dot
	Comment
	Equal
	Keyword
)

func (t Type) String() string {
	switch t {
	case OpenParen:
		return "'('"
	case CloseParen:
		return "')'"
	case Number:
		return "number"
	case String:
		return "string"
	case Name:
		return "name"
	case Identifier:
		return "identifier"
	case Valtype:
		return "valtype"
	case Dot:
		return "'.'"
	case Comment:
		return "comment"
	case Equal:
		return "'='"
	case Keyword:
		return "keyword"
	}
	return "unknown"
}

var typeNames = [...]string{
	OpenParen:  "openParen",
	CloseParen: "closeParen",
	Number:     "number",
	String:     "string",
	Name:       "name",
	Identifier: "identifier",
	Valtype:    "valtype",
	Dot:        "dot",
	Comment:    "comment",
	Equal:      "equal",
	Keyword:    "keyword",
}

// MarshalText renders the type as its stable camel-case name.
func (t Type) MarshalText() ([]byte, error) {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("token: unknown type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

// CommentKind distinguishes line comments from block comments.
// It is empty for every other token type.
type CommentKind string

const (
	CommentLeading CommentKind = "leading"
	CommentBlock   CommentKind = "block"
)

// Position is a 1-based line and column in the source text.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Value   string      `json:"value" yaml:"value"`
	Comment CommentKind `json:"comment,omitempty" yaml:"comment,omitempty"`
	Pos     Position    `json:"loc" yaml:"loc"`
	Type    Type        `json:"type" yaml:"type"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Type, t.Value, t.Pos)
}

var keywords = map[string]struct{}{
	"module":        {},
	"func":          {},
	"param":         {},
	"result":        {},
	"export":        {},
	"loop":          {},
	"block":         {},
	"if":            {},
	"then":          {},
	"else":          {},
	"call":          {},
	"call_indirect": {},
	"import":        {},
	"memory":        {},
	"table":         {},
	"global":        {},
	"anyfunc":       {},
	"mut":           {},
	"data":          {},
	"type":          {},
	"elem":          {},
	"start":         {},
	"offset":        {},
}

// IsKeyword reports whether s is a reserved keyword of the text format.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// IsValtype reports whether s names a number value type.
func IsValtype(s string) bool {
	switch s {
	case "i32", "i64", "f32", "f64":
		return true
	}
	return false
}
