package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-ast/ast"
	"github.com/wippyai/wasm-ast/errors"
	"github.com/wippyai/wasm-ast/wasm"
)

type sectionsFlags struct {
	validate bool
	sort     bool
}

// sectionRow is one line of section output.
type sectionRow struct {
	Name   string `json:"name" yaml:"name"`
	ID     byte   `json:"id" yaml:"id"`
	Offset uint32 `json:"offset" yaml:"offset"`
	Size   int64  `json:"size" yaml:"size"`
	Vector int64  `json:"vector" yaml:"vector"`
	End    uint32 `json:"end" yaml:"end"`
}

// binaryModule is a module node whose metadata was read from a binary.
type binaryModule struct {
	tree   *ast.Tree
	module ast.Ref
	meta   ast.Ref
}

func newSectionsCommand(root *rootFlags) *cobra.Command {
	flags := &sectionsFlags{}

	cmd := &cobra.Command{
		Use:   "sections <file.wasm>",
		Short: "Print the section layout of a binary module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadBinary(cmd.Context(), args[0], flags.validate)
			if err != nil {
				return err
			}
			if flags.sort {
				if _, err := ast.SortSectionMetadata(m.tree, m.module); err != nil {
					return err
				}
			}

			rows, err := m.rows()
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), root).sections(rows)
		},
	}

	cmd.Flags().BoolVar(&flags.validate, "validate", false, "compile the module before scanning it")
	cmd.Flags().BoolVar(&flags.sort, "sort", false, "order sections by id")

	return cmd
}

func loadBinary(ctx context.Context, path string, validate bool) (*binaryModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if validate {
		if err := compileModule(ctx, data); err != nil {
			return nil, err
		}
	}

	headers, err := wasm.ScanSections(data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "scan sections of "+path)
	}

	t := ast.NewTree()
	meta, err := ast.MetadataFromSections(t, headers)
	if err != nil {
		return nil, err
	}
	module, err := t.NewModule(nil, nil, meta)
	if err != nil {
		return nil, err
	}

	return &binaryModule{tree: t, module: module, meta: meta}, nil
}

// compileModule checks that wazero accepts the module.
func compileModule(ctx context.Context, data []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		return errors.ParseFailed("module", err)
	}
	return compiled.Close(ctx)
}

func (m *binaryModule) rows() ([]sectionRow, error) {
	meta, ok := ast.Get[*ast.ModuleMetadata](m.tree, m.meta)
	if !ok {
		return nil, nil
	}

	rows := make([]sectionRow, 0, len(meta.Sections))
	for _, ref := range meta.Sections {
		row, err := m.row(ref)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *binaryModule) row(ref ast.Ref) (sectionRow, error) {
	s, ok := ast.Get[*ast.SectionMetadata](m.tree, ref)
	if !ok {
		return sectionRow{}, errors.StructuralEdit(string(m.tree.Type(ref)), "expected SectionMetadata")
	}

	end, err := ast.GetEndOfSection(m.tree, ref)
	if err != nil {
		return sectionRow{}, err
	}
	id, _ := ast.SectionID(s.Section)

	row := sectionRow{Name: string(s.Section), ID: id, Offset: s.StartOffset, End: end}
	if size, ok := ast.Get[*ast.NumberLiteral](m.tree, s.Size); ok {
		row.Size = size.Value
	}
	if vec, ok := ast.Get[*ast.NumberLiteral](m.tree, s.VectorOfSize); ok {
		row.Vector = vec.Value
	}
	return row, nil
}

func (p *printer) sections(rows []sectionRow) error {
	return p.emit(rows, func(w io.Writer) error {
		header := fmt.Sprintf("%-8s %3s %8s %8s %7s %8s", "section", "id", "offset", "size", "vector", "end")
		if _, err := fmt.Fprintln(w, p.styles.title.Render(header)); err != nil {
			return err
		}
		for _, r := range rows {
			vector := "-"
			if r.Vector >= 0 {
				vector = fmt.Sprint(r.Vector)
			}
			line := p.styles.kind.Render(fmt.Sprintf("%-8s", r.Name)) + " " +
				p.styles.number.Render(fmt.Sprintf("%3d %8d %8d %7s %8d", r.ID, r.Offset, r.Size, vector, r.End))
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}
