package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-ast/errors"
)

// layoutModule holds a type, func, code and custom section:
//
//	offset  9: type   size 4, vector 1
//	offset 15: func   size 2, vector 1
//	offset 19: code   size 4, vector 1
//	offset 25: custom size 5
var layoutModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
	0x00, 0x05, 0x04, 'n', 'a', 'm', 'e',
}

// emptyFunc is a valid module with one function that does nothing.
var emptyFunc = layoutModule[:24]

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	flags := &rootFlags{}
	cmd := newRootCommand(flags)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", colorNever}, args...))

	err := cmd.Execute()
	if err != nil {
		printError(&stderr, flags, err)
	}
	return stdout.String(), stderr.String(), err
}

func TestTokensCommand(t *testing.T) {
	path := writeFile(t, "empty.wat", []byte("(module)"))

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, "tokens", path)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"1:2", "keyword", `"module"`}, strings.Fields(lines[1]))
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "tokens", path, "--format", "json")
		require.NoError(t, err)

		var tokens []struct {
			Value string `json:"value"`
			Type  string `json:"type"`
			Loc   struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"loc"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &tokens))
		require.Len(t, tokens, 3)
		assert.Equal(t, "openParen", tokens[0].Type)
		assert.Equal(t, "module", tokens[1].Value)
		assert.Equal(t, 2, tokens[1].Loc.Column)
		assert.Equal(t, "closeParen", tokens[2].Type)
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := execute(t, "tokens", path, "--format", "yaml")
		require.NoError(t, err)

		var tokens []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &tokens))
		require.Len(t, tokens, 3)
		assert.Equal(t, "keyword", tokens[1]["type"])
	})
}

func TestTokensSkipComments(t *testing.T) {
	path := writeFile(t, "commented.wat", []byte(";; header\n(module)"))

	out, _, err := execute(t, "tokens", path, "--format", "json")
	require.NoError(t, err)
	var all []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 4)
	assert.Equal(t, "leading", all[0]["comment"])

	out, _, err = execute(t, "tokens", path, "--format", "json", "--skip-comments")
	require.NoError(t, err)
	var significant []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &significant))
	assert.Len(t, significant, 3)
}

func TestTokensLexicalError(t *testing.T) {
	path := writeFile(t, "bad.wat", []byte("(module #)"))

	_, stderr, err := execute(t, "tokens", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrLexical)
	assert.Contains(t, stderr, "unexpected character '#'")
	assert.Contains(t, stderr, "> 1 | (module #)")
	assert.Contains(t, stderr, "^")
}

func TestRootCommandErrors(t *testing.T) {
	path := writeFile(t, "empty.wat", []byte("(module)"))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"tokens", filepath.Join(t.TempDir(), "nope.wat")}, "read file"},
		{"bad format", []string{"tokens", path, "--format", "xml"}, `invalid format "xml"`},
		{"bad color", []string{"--color", "sometimes", "tokens", path}, `invalid color mode "sometimes"`},
		{"no args", []string{"tokens"}, "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, strings.HasPrefix(stderr, "Error: "))
		})
	}
}

func decodeRows(t *testing.T, out string) []sectionRow {
	t.Helper()
	var rows []sectionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func TestSectionsCommand(t *testing.T) {
	path := writeFile(t, "layout.wasm", layoutModule)

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "sections", path, "--format", "json")
		require.NoError(t, err)

		assert.Equal(t, []sectionRow{
			{Name: "type", ID: 1, Offset: 9, Size: 4, Vector: 1, End: 14},
			{Name: "func", ID: 3, Offset: 15, Size: 2, Vector: 1, End: 18},
			{Name: "code", ID: 10, Offset: 19, Size: 4, Vector: 1, End: 24},
			{Name: "custom", ID: 0, Offset: 25, Size: 5, Vector: -1, End: 31},
		}, decodeRows(t, out))
	})

	t.Run("sorted", func(t *testing.T) {
		out, _, err := execute(t, "sections", path, "--format", "json", "--sort")
		require.NoError(t, err)

		var names []string
		for _, r := range decodeRows(t, out) {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"custom", "type", "func", "code"}, names)
	})

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, "sections", path)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, []string{"section", "id", "offset", "size", "vector", "end"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"code", "10", "19", "4", "1", "24"}, strings.Fields(lines[3]))
		assert.Equal(t, []string{"custom", "0", "25", "5", "-", "31"}, strings.Fields(lines[4]))
	})
}

func TestSectionsValidate(t *testing.T) {
	t.Run("valid module", func(t *testing.T) {
		path := writeFile(t, "empty.wasm", emptyFunc)

		out, _, err := execute(t, "sections", path, "--format", "json", "--validate")
		require.NoError(t, err)
		assert.Len(t, decodeRows(t, out), 3)
	})

	t.Run("rejected module", func(t *testing.T) {
		path := writeFile(t, "truncated.wasm", layoutModule[:20])

		_, stderr, err := execute(t, "sections", path, "--validate")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidData)
		assert.Contains(t, stderr, "parse module")
	})

	t.Run("scan failure", func(t *testing.T) {
		path := writeFile(t, "junk.wasm", []byte("not wasm"))

		_, _, err := execute(t, "sections", path)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidData)
	})
}

func TestShiftCommand(t *testing.T) {
	path := writeFile(t, "layout.wasm", layoutModule)

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "shift", path, "--section", "code", "--delta", "4", "--format", "json")
		require.NoError(t, err)

		var res shiftResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, shiftResult{
			Section:   "code",
			Delta:     4,
			OffsetWas: 19,
			Offset:    23,
			EndWas:    24,
			End:       28,
		}, res)
	})

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, "shift", path, "--section", "type", "--delta=-2")
		require.NoError(t, err)
		assert.Contains(t, out, "shifted by -2")
		assert.Contains(t, out, "offset 9 -> 7")
		assert.Contains(t, out, "end    14 -> 12")
	})

	t.Run("unknown section", func(t *testing.T) {
		_, _, err := execute(t, "shift", path, "--section", "data", "--delta", "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `section "data" not found`)
	})

	t.Run("offset underflow", func(t *testing.T) {
		_, _, err := execute(t, "shift", path, "--section", "type", "--delta=-100")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidData)
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedBrowseModel(t *testing.T) *browseModel {
	t.Helper()
	m := newBrowseModel(writeFile(t, "layout.wasm", layoutModule))
	assert.Equal(t, "Loading module...", m.View())

	m.Update(m.load())
	require.NoError(t, m.err)
	require.Len(t, m.rows, 4)
	return m
}

func TestBrowseModel(t *testing.T) {
	t.Run("select and shift", func(t *testing.T) {
		m := loadedBrowseModel(t)
		assert.Contains(t, m.View(), "Select a section to shift")

		m.Update(key("down"))
		m.Update(key("down"))
		m.Update(key("down"))
		m.Update(key("down"))
		assert.Equal(t, 3, m.selected)
		m.Update(key("up"))
		assert.Equal(t, 2, m.selected)

		m.Update(key("enter"))
		require.Equal(t, stateInputDelta, m.state)
		assert.Contains(t, m.View(), "Shifting code")

		m.input.SetValue("+4")
		m.Update(key("enter"))
		require.Equal(t, stateShowResult, m.state)
		require.NoError(t, m.err)
		assert.Equal(t, "code: offset 19 -> 23, end 24 -> 28", m.result)
		assert.Contains(t, m.View(), m.result)

		m.Update(key("enter"))
		assert.Equal(t, stateSelectSection, m.state)
		assert.Equal(t, uint32(23), m.rows[2].Offset)
	})

	t.Run("invalid delta", func(t *testing.T) {
		m := loadedBrowseModel(t)
		m.Update(key("enter"))
		m.input.SetValue("four")
		m.Update(key("enter"))

		require.Error(t, m.err)
		assert.Contains(t, m.View(), `invalid delta "four"`)

		m.Update(key("esc"))
		assert.Equal(t, stateSelectSection, m.state)
		assert.NoError(t, m.err)
	})

	t.Run("esc leaves the delta prompt", func(t *testing.T) {
		m := loadedBrowseModel(t)
		m.Update(key("enter"))
		m.Update(key("esc"))
		assert.Equal(t, stateSelectSection, m.state)
	})

	t.Run("q quits", func(t *testing.T) {
		m := loadedBrowseModel(t)
		_, cmd := m.Update(key("q"))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("load error", func(t *testing.T) {
		m := newBrowseModel(filepath.Join(t.TempDir(), "missing.wasm"))
		m.Update(m.load())
		assert.Contains(t, m.View(), "Error: read file")
	})
}
