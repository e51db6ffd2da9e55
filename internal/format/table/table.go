// Package table aligns text columns for fixed-width output.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// gap separates adjacent columns.
const gap = "  "

// Format returns the rows padded according to the widest entry in each
// column. Widths are measured in terminal cells, so styled and wide text
// line up. Columns that are empty in every row are dropped.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], ansi.StringWidth(cell))
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		first := true
		for c := 0; c < colCount; c++ {
			if widths[c] == 0 {
				continue
			}
			if !first {
				b.WriteString(gap)
			}
			first = false
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			pad := strings.Repeat(" ", widths[c]-ansi.StringWidth(cell))
			if c < len(alignments) && alignments[c] == AlignRight {
				b.WriteString(pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				b.WriteString(pad)
			}
		}
		out[i] = b.String()
	}
	return out
}
