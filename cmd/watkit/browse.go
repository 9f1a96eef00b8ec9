package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-ast/ast"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateSelectSection browseState = iota
	stateInputDelta
	stateShowResult
)

type browseModel struct {
	err      error
	module   *binaryModule
	filename string
	result   string
	rows     []sectionRow
	input    textinput.Model
	selected int
	state    browseState
}

type loadedMsg struct {
	err    error
	module *binaryModule
	rows   []sectionRow
}

func newBrowseModel(filename string) *browseModel {
	return &browseModel{
		filename: filename,
		state:    stateSelectSection,
	}
}

func newBrowseCommand(_ *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file.wasm>",
		Short: "Browse the sections of a binary module and shift them interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p := tea.NewProgram(newBrowseModel(args[0]), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	mod, err := loadBinary(context.Background(), m.filename, false)
	if err != nil {
		return loadedMsg{err: err}
	}
	rows, err := mod.rows()
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{module: mod, rows: rows}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputDelta {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectSection && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectSection && m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectSection:
				if len(m.rows) == 0 {
					return m, nil
				}
				m.prepareInput()
				m.state = stateInputDelta
				return m, textinput.Blink

			case stateInputDelta:
				m.applyShift()
				m.state = stateShowResult
				return m, nil

			case stateShowResult:
				m.state = stateSelectSection
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputDelta:
				m.state = stateSelectSection
			case stateShowResult:
				m.state = stateSelectSection
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.module = msg.module
		m.rows = msg.rows
	}

	if m.state == stateInputDelta {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *browseModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "+4"
	ti.Prompt = "delta: "
	ti.Width = 12
	ti.Focus()
	m.input = ti
}

func (m *browseModel) applyShift() {
	row := m.rows[m.selected]

	delta, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(m.input.Value()), "+"))
	if err != nil {
		m.err = fmt.Errorf("invalid delta %q", m.input.Value())
		return
	}

	res, err := m.module.shift(ast.SectionName(row.Name), delta)
	if err != nil {
		m.err = err
		return
	}

	rows, err := m.module.rows()
	if err != nil {
		m.err = err
		return
	}
	m.rows = rows
	m.result = fmt.Sprintf("%s: offset %d -> %d, end %d -> %d",
		res.Section, res.OffsetWas, res.Offset, res.EndWas, res.End)
}

func (m *browseModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.module == nil {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(browseTitleStyle.Render("Sections"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSection:
		if len(m.rows) == 0 {
			b.WriteString("No sections.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a section to shift:\n\n")
		for i, r := range m.rows {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatRow(r)))
			} else {
				b.WriteString("  " + formatRow(r))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter shift • q quit"))

	case stateInputDelta:
		b.WriteString(fmt.Sprintf("Shifting %s\n\n", sectionStyle.Render(m.rows[m.selected].Name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatRow(r sectionRow) string {
	return fmt.Sprintf("%-8s @%-6d size %-6d end %d", r.Name, r.Offset, r.Size, r.End)
}
