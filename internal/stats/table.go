// Package stats contains score distribution calculations and reporting.
package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is one report column. Numeric columns are right-aligned.
type column struct {
	title string
	right bool
}

// table lays out report rows in aligned columns measured in terminal cells.
type table struct {
	cols []column
	rows [][]string
}

func newTable(cols ...column) *table {
	return &table{cols: cols}
}

// addRow appends a row. Missing cells render empty and extra cells are dropped.
func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.cols))
	for i, col := range t.cols {
		widths[i] = displayWidth(col.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// width returns the cell width of a fully padded line.
func (t *table) width() int {
	if len(t.cols) == 0 {
		return 0
	}
	total := len(t.cols) - 1
	for _, w := range t.widths() {
		total += w
	}
	return total
}

// lines renders the header followed by every row, without trailing padding.
func (t *table) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	widths := t.widths()
	header := make([]string, len(t.cols))
	for i, col := range t.cols {
		header[i] = col.title
	}
	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.formatRow(header, widths))
	for _, row := range t.rows {
		out = append(out, t.formatRow(row, widths))
	}
	return out
}

func (t *table) formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], t.cols[i].right))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
