package wat

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-ast/wat/token"
)

func Tokenize(source string) ([]token.Token, error) {
	tokens, err := token.Tokenize(source)
	if err != nil {
		Logger().Debug("tokenize failed", zap.Error(err))
		return nil, err
	}
	Logger().Debug("tokenized source",
		zap.Int("bytes", len(source)),
		zap.Int("tokens", len(tokens)))
	return tokens, nil
}

// Significant drops comment tokens, keeping the order of everything else.
func Significant(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != token.Comment {
			out = append(out, t)
		}
	}
	return out
}
