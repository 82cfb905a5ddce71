package analysis

import (
	"strings"
	"unicode/utf8"
)

// grid is a plain-text table: a header row, one label per row and
// right-aligned cells separated by two spaces.
type grid struct {
	header []string
	labels []string
	rows   [][]string
}

func (g grid) String() string {
	labelW := 0
	for _, l := range g.labels {
		labelW = max(labelW, utf8.RuneCountInString(l))
	}
	widths := make([]int, len(g.header))
	for j, h := range g.header {
		widths[j] = utf8.RuneCountInString(h)
	}
	for _, row := range g.rows {
		for j, cell := range row {
			widths[j] = max(widths[j], utf8.RuneCountInString(safeVal(cell)))
		}
	}

	var b strings.Builder
	writeRow := func(label string, cells []string) {
		b.WriteString(padLeft(label, labelW))
		for j, cell := range cells {
			b.WriteString("  ")
			b.WriteString(padLeft(safeVal(cell), widths[j]))
		}
		b.WriteString("\n")
	}
	writeRow("", g.header)
	for i, row := range g.rows {
		writeRow(g.labels[i], row)
	}
	return b.String()
}

func padLeft(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

func padRight(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// safeVal keeps a cell on one line.
func safeVal(s string) string {
	return strings.NewReplacer("\r\n", "\\n", "\n", "\\n", "\t", " ").Replace(s)
}
