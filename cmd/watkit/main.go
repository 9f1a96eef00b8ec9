// Command watkit inspects WebAssembly text and binary modules: it prints the
// token stream of a .wat file and the section layout of a .wasm file, and
// shifts sections to check offset bookkeeping.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-ast/ast"
	"github.com/wippyai/wasm-ast/errors"
	"github.com/wippyai/wasm-ast/wat"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type rootFlags struct {
	format  string
	color   string
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := &rootFlags{}
	cmd := newRootCommand(flags)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), flags, err)
		return 1
	}
	return 0
}

func newRootCommand(flags *rootFlags) *cobra.Command {
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "watkit",
		Short: "Inspect WebAssembly text and binary modules",
		Long: `watkit tokenizes WebAssembly text and reports the section layout of
binary modules.

Examples:
  watkit tokens add.wat                   Print the token stream
  watkit tokens add.wat --format json     Tokens as JSON
  watkit sections add.wasm --validate     Section offsets, after compiling the module
  watkit shift add.wasm --section code --delta 4
  watkit browse add.wasm                  Shift sections interactively`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch flags.format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("invalid format %q: must be text, json or yaml", flags.format)
			}
			switch flags.color {
			case colorAuto, colorAlways, colorNever:
			default:
				return fmt.Errorf("invalid color mode %q: must be auto, always or never", flags.color)
			}

			if flags.verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return errors.Wrap(errors.PhaseParse, errors.KindUnsupported, err, "create logger")
				}
				logger = l
				ast.SetLogger(l)
				wat.SetLogger(l)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
				ast.SetLogger(nil)
				wat.SetLogger(nil)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.format, "format", formatText, "output format: text, json or yaml")
	cmd.PersistentFlags().StringVar(&flags.color, "color", colorAuto, "colorize output: auto, always, never")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newTokensCommand(flags))
	cmd.AddCommand(newSectionsCommand(flags))
	cmd.AddCommand(newShiftCommand(flags))
	cmd.AddCommand(newBrowseCommand(flags))

	return cmd
}
