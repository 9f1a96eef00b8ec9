package token

import (
	"strconv"
	"strings"
)

const (
	frameLinesAbove = 2
	frameLinesBelow = 3
)

// CodeFrame renders a window of source around a 1-based line and column:
//
//	  1 | (module
//	> 2 |   (func @)
//	    |         ^
//	  3 | )
//
// Tabs before the column are kept so the caret lines up in a terminal.
func CodeFrame(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	from := max(1, line-frameLinesAbove)
	to := min(len(lines), line+frameLinesBelow)
	width := len(strconv.Itoa(to))

	var b strings.Builder
	for n := from; n <= to; n++ {
		text := lines[n-1]
		marker := "  "
		if n == line {
			marker = "> "
		}

		b.WriteString(marker)
		b.WriteString(padLeft(strconv.Itoa(n), width))
		b.WriteString(" |")
		if text != "" {
			b.WriteByte(' ')
			b.WriteString(text)
		}
		b.WriteByte('\n')

		if n == line {
			b.WriteString("  ")
			b.WriteString(strings.Repeat(" ", width))
			b.WriteString(" | ")
			b.WriteString(caretPadding(text, column))
			b.WriteString("^\n")
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func caretPadding(text string, column int) string {
	var b strings.Builder
	i := 0
	for _, r := range text {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		i++
	}
	for ; i < column-1; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}
