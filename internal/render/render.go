// Package render writes records and reports to the terminal as styled
// tables, JSON or CSV.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Column maps a record field to a table header.
type Column struct {
	Key     string
	Title   string
	Numeric bool
}

// Printer formats output for one locale.
type Printer struct {
	w   io.Writer
	num *message.Printer
}

// New returns a Printer writing to w. Numbers are grouped per tag.
func New(w io.Writer, tag language.Tag) *Printer {
	return &Printer{w: w, num: message.NewPrinter(tag)}
}

// Records widens a typed slice for the table writers.
func Records[T types.Record](items []T) []types.Record {
	out := make([]types.Record, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// Table writes rows as a bordered table.
func (p *Printer) Table(cols []Column, rows []types.Record) error {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title
	}
	cells := make([][]string, len(rows))
	for i, rec := range rows {
		cells[i] = p.row(cols, rec)
	}
	return p.grid(headers, cells, func(col int) bool { return cols[col].Numeric })
}

// Grid writes a pre-formatted table. numeric reports right-aligned columns.
func (p *Printer) grid(headers []string, cells [][]string, numeric func(col int) bool) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(subtleStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case numeric != nil && numeric(col):
				return numberStyle
			default:
				return cellStyle
			}
		})
	_, err := fmt.Fprintln(p.w, t.String())
	return err
}

// Footer writes the pagination line under a table.
func (p *Printer) Footer(page, totalPages, totalItems int) error {
	if totalItems == 0 {
		_, err := fmt.Fprintln(p.w, subtleStyle.Render("no matching rows"))
		return err
	}
	_, err := fmt.Fprintln(p.w, subtleStyle.Render(
		p.num.Sprintf("page %d of %d, %d rows", page, totalPages, totalItems)))
	return err
}

// Warn writes a highlighted notice.
func (p *Printer) Warn(format string, args ...any) error {
	_, err := fmt.Fprintln(p.w, warnStyle.Render(fmt.Sprintf(format, args...)))
	return err
}

// Line writes one plain line.
func (p *Printer) Line(format string, args ...any) error {
	_, err := fmt.Fprintln(p.w, p.num.Sprintf(format, args...))
	return err
}

// Amount formats a whole-so'm amount with locale grouping.
func (p *Printer) Amount(n int64) string {
	return p.num.Sprintf("%d", n)
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CSV writes rows with a header line. Values are unformatted.
func (p *Printer) CSV(cols []Column, rows []types.Record) error {
	w := csv.NewWriter(p.w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Key
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			v, _ := rec.Field(c.Key)
			line[i] = raw(v)
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (p *Printer) row(cols []Column, rec types.Record) []string {
	line := make([]string, len(cols))
	for i, c := range cols {
		v, ok := rec.Field(c.Key)
		if !ok {
			continue
		}
		line[i] = p.cell(v)
	}
	return line
}

func (p *Printer) cell(v any) string {
	switch x := v.(type) {
	case int64:
		return p.Amount(x)
	case int:
		return p.Amount(int64(x))
	case float64:
		return p.num.Sprintf("%.2f", x)
	default:
		return raw(v)
	}
}

func raw(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(types.DateLayout)
	default:
		return fmt.Sprint(x)
	}
}
