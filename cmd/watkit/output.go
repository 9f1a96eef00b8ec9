package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-ast/errors"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

type styles struct {
	title  lipgloss.Style
	kind   lipgloss.Style
	value  lipgloss.Style
	number lipgloss.Style
	dim    lipgloss.Style
	err    lipgloss.Style
	marker lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		kind:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		number: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		marker: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
}

// colorEnabled resolves the --color mode for w. Auto enables color only on
// terminals.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type printer struct {
	out    io.Writer
	format string
	styles styles
}

func newPrinter(w io.Writer, flags *rootFlags) *printer {
	return &printer{
		out:    w,
		format: flags.format,
		styles: newStyles(colorEnabled(flags.color, w)),
	}
}

// emit writes v as JSON or YAML, or calls text for the text format.
func (p *printer) emit(v any, text func(w io.Writer) error) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(p.out)
}

// printError reports err and, for lexical errors, the code frame with the
// offending line and caret highlighted.
func printError(w io.Writer, flags *rootFlags, err error) {
	s := newStyles(colorEnabled(flags.color, w))
	fmt.Fprintln(w, s.err.Render("Error: "+err.Error()))

	var e *errors.Error
	if !stderrors.As(err, &e) || e.Frame == "" {
		return
	}

	fmt.Fprintln(w)
	for _, line := range strings.Split(e.Frame, "\n") {
		switch {
		case strings.HasPrefix(line, ">"), strings.HasSuffix(line, "^"):
			fmt.Fprintln(w, s.marker.Render(line))
		default:
			fmt.Fprintln(w, s.dim.Render(line))
		}
	}
}
