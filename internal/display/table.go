package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RowKind selects how a table row is styled.
type RowKind int

const (
	RowPlain     RowKind = iota
	RowHighlight         // the row the reader is looking for, e.g. the next prayer
	RowPast              // already elapsed
	RowAside             // informational, e.g. syuruk
)

type row struct {
	kind  RowKind
	cells []string
}

// Table is a column-aligned listing with an optional title line.
type Table struct {
	title   string
	headers []string
	rows    []row
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// SetTitle sets a line printed above the header, e.g. "Prayer Times for Today:".
func (t *Table) SetTitle(title string) {
	t.title = title
}

// Add appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) Add(kind RowKind, cells ...string) {
	t.rows = append(t.rows, row{kind: kind, cells: cells})
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render lays the table out with a two-space indent. A table without
// headers renders as "".
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(Bold(t.title))
		sb.WriteByte('\n')
	}

	sb.WriteString("  " + Bold(joinCells(t.headers, widths)) + "\n")

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(rule, "  ")) + "\n")

	for _, r := range t.rows {
		sb.WriteString("  " + styleRow(r.kind, joinCells(r.cells, widths)) + "\n")
	}
	return sb.String()
}

// widths measures display cells, not bytes, so Malay and CJK names align.
func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i := 0; i < len(r.cells) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(r.cells[i]))
		}
	}
	return widths
}

func styleRow(kind RowKind, line string) string {
	switch kind {
	case RowHighlight:
		return Accent(line)
	case RowPast:
		return Dim(line)
	case RowAside:
		return Gray(line)
	default:
		return line
	}
}

func joinCells(cells []string, widths []int) string {
	out := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		out[i] = padCell(cell, w)
	}
	return strings.Join(out, "  ")
}

func padCell(cell string, width int) string {
	if gap := width - lipgloss.Width(cell); gap > 0 {
		return cell + strings.Repeat(" ", gap)
	}
	return cell
}
