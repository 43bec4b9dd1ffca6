package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
)

// Table renders rows under header: a light box table in text mode, a
// markdown table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
}

// Truncate shortens value to at most width terminal cells.
func Truncate(value string, width int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

// Caret returns line followed by a marker under the given 1-based column.
// The marker is aligned by display width, so wide characters before the
// column shift it correctly.
func Caret(line string, column int) string {
	prefix := line
	if column-1 < len(line) {
		prefix = line[:max(column-1, 0)]
	}
	pad := make([]byte, 0, len(prefix))
	for _, r := range prefix {
		if r == '\t' {
			pad = append(pad, '\t')
			continue
		}
		pad = append(pad, strings.Repeat(" ", runewidth.RuneWidth(r))...)
	}
	return line + "\n" + string(pad) + "^"
}
