package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-ast/wat"
	"github.com/wippyai/wasm-ast/wat/token"
)

type tokensFlags struct {
	skipComments bool
}

func newTokensCommand(root *rootFlags) *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens <file.wat>",
		Short: "Print the token stream of a WebAssembly text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd.OutOrStdout(), args[0], root, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.skipComments, "skip-comments", false, "drop comment tokens")

	return cmd
}

func runTokens(w io.Writer, path string, root *rootFlags, flags *tokensFlags) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tokens, err := wat.Tokenize(string(src))
	if err != nil {
		return err
	}
	if flags.skipComments {
		tokens = wat.Significant(tokens)
	}

	p := newPrinter(w, root)
	return p.emit(tokens, func(w io.Writer) error {
		for _, t := range tokens {
			if _, err := fmt.Fprintln(w, p.formatToken(t)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *printer) formatToken(t token.Token) string {
	pos := fmt.Sprintf("%-8s", t.Pos.String())
	kind := fmt.Sprintf("%-11s", t.Type.String())

	value := p.styles.value.Render(strconv.Quote(t.Value))
	switch t.Type {
	case token.Number:
		value = p.styles.number.Render(t.Value)
	case token.Comment:
		value = p.styles.dim.Render(string(t.Comment) + " " + strconv.Quote(t.Value))
	}

	return p.styles.dim.Render(pos) + " " + p.styles.kind.Render(kind) + " " + value
}
