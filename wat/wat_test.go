package wat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wasm-ast/errors"
	"github.com/wippyai/wasm-ast/wat/token"
)

// Integration tests for the public Tokenize() API.
// Unit tests are in wat/token.

func TestTokenize(t *testing.T) {
	t.Run("empty_module", func(t *testing.T) {
		tokens, err := Tokenize("(module)")
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, token.Keyword, tokens[1].Type)
		assert.Equal(t, "module", tokens[1].Value)
	})

	t.Run("simple_function", func(t *testing.T) {
		tokens, err := Tokenize(`(module
			(func (export "add") (param i32 i32) (result i32)
				local.get 0
				local.get 1
				i32.add))`)
		require.NoError(t, err)

		var names []string
		for _, tok := range tokens {
			if tok.Type == token.Name {
				names = append(names, tok.Value)
			}
		}
		assert.Equal(t, []string{"local", "get", "local", "get", "add"}, names)
	})
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name, wat, wantErr string
	}{
		{"unexpected", "(module #)", "unexpected character '#'"},
		{"unterminated_string", `(module (export "x`, "unterminated string"},
		{"unterminated_comment", "(module (;", "unterminated block comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.wat)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrLexical)
			assert.Contains(t, err.Error(), tt.wantErr)

			var lexErr *errors.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, errors.PhaseLex, lexErr.Phase)
			assert.Contains(t, lexErr.Frame, "> 1 | (module")
		})
	}
}

func TestSignificant(t *testing.T) {
	tokens, err := Tokenize(";; header\n(module (; inline ;) )")
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	sig := Significant(tokens)
	require.Len(t, sig, 3)
	for _, tok := range sig {
		assert.NotEqual(t, token.Comment, tok.Type)
	}
}

func TestTokenizeLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	_, err := Tokenize("(module)")
	require.NoError(t, err)
	_, err = Tokenize("(module @)")
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "tokenized source", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["tokens"])
	assert.Equal(t, "tokenize failed", entries[1].Message)
}
