package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-ast/ast"
	"github.com/wippyai/wasm-ast/errors"
)

type shiftFlags struct {
	section string
	delta   int
}

type shiftResult struct {
	Section   string `json:"section" yaml:"section"`
	Delta     int    `json:"delta" yaml:"delta"`
	OffsetWas uint32 `json:"offset_before" yaml:"offset_before"`
	Offset    uint32 `json:"offset" yaml:"offset"`
	EndWas    uint32 `json:"end_before" yaml:"end_before"`
	End       uint32 `json:"end" yaml:"end"`
}

func newShiftCommand(root *rootFlags) *cobra.Command {
	flags := &shiftFlags{}

	cmd := &cobra.Command{
		Use:   "shift <file.wasm>",
		Short: "Shift a section by a byte delta and report its new end offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadBinary(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			res, err := m.shift(ast.SectionName(flags.section), flags.delta)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), root).shift(res)
		},
	}

	cmd.Flags().StringVar(&flags.section, "section", "code", "section to shift")
	cmd.Flags().IntVar(&flags.delta, "delta", 0, "byte delta, may be negative")

	return cmd
}

func (m *binaryModule) shift(name ast.SectionName, delta int) (shiftResult, error) {
	ref, ok := ast.GetSectionMetadata(m.tree, m.module, name)
	if !ok {
		return shiftResult{}, errors.NotFound(errors.PhaseEdit, "section", string(name))
	}

	before, err := m.row(ref)
	if err != nil {
		return shiftResult{}, err
	}
	if err := ast.ShiftSection(m.tree, m.module, ref, delta); err != nil {
		return shiftResult{}, err
	}
	after, err := m.row(ref)
	if err != nil {
		return shiftResult{}, err
	}

	return shiftResult{
		Section:   string(name),
		Delta:     delta,
		OffsetWas: before.Offset,
		Offset:    after.Offset,
		EndWas:    before.End,
		End:       after.End,
	}, nil
}

func (p *printer) shift(r shiftResult) error {
	return p.emit(r, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s %s\n  offset %s -> %s\n  end    %s -> %s\n",
			p.styles.title.Render(r.Section),
			p.styles.dim.Render(fmt.Sprintf("shifted by %+d", r.Delta)),
			p.styles.number.Render(fmt.Sprint(r.OffsetWas)),
			p.styles.number.Render(fmt.Sprint(r.Offset)),
			p.styles.number.Render(fmt.Sprint(r.EndWas)),
			p.styles.number.Render(fmt.Sprint(r.End)))
		return err
	})
}
