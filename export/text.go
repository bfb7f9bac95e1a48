package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tsawler/htmltable/model"
)

var _ Formatter = (*Grid)(nil)

// Grid draws the table with box characters for reading in a terminal.
type Grid struct{}

func NewGrid() *Grid {
	return &Grid{}
}

func (g *Grid) Name() string {
	return "grid"
}

func (g *Grid) Format(t *model.Table, w io.Writer) error {
	tw := table.NewWriter()
	if caption, ok := t.Caption(); ok {
		tw.SetTitle(caption)
	}
	if cols := t.Columns(); len(cols) > 0 {
		tw.AppendHeader(row(cols))
	}
	for _, cells := range t.Matrix() {
		tw.AppendRow(row(cells))
	}
	tw.SetStyle(table.StyleLight)
	tw.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	tw.SuppressTrailingSpaces()

	_, err := io.WriteString(w, tw.Render()+"\n")
	return err
}

func row(cells []string) table.Row {
	r := make(table.Row, len(cells))
	for i, c := range cells {
		r[i] = c
	}
	return r
}

var _ Formatter = (*Markdown)(nil)

// Markdown writes a pipe table.
type Markdown struct{}

func NewMarkdown() *Markdown {
	return &Markdown{}
}

func (m *Markdown) Name() string {
	return "markdown"
}

func (m *Markdown) Format(t *model.Table, w io.Writer) error {
	_, err := io.WriteString(w, t.ToMarkdown())
	return err
}

var _ Formatter = (*CSV)(nil)

// CSV writes the header line, when there is one, followed by one line per
// record. Null values are empty fields.
type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (c *CSV) Name() string {
	return "csv"
}

func (c *CSV) Format(t *model.Table, w io.Writer) error {
	out, err := t.ToCSV()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
