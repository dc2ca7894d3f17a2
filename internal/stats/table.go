package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a plain-text table. Cells are measured by display width so wide
// (CJK) labels stay aligned.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right lists the right-aligned column indexes.
	Right map[int]bool
}

// Lines renders the table, one string per line, header first.
func (t Table) Lines() []string {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	lines := make([]string, 0, len(t.Rows)+1)
	if len(t.Headers) > 0 {
		lines = append(lines, t.row(t.Headers, widths))
	}
	for _, row := range t.Rows {
		lines = append(lines, t.row(row, widths))
	}
	return lines
}

func (t Table) row(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, w-runewidth.StringWidth(cell)))
		if t.Right[i] {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}

// Render writes the table followed by a blank line.
func (t Table) Render(w io.Writer) error {
	for _, line := range t.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
