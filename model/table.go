package model

import (
	"encoding/csv"
	"encoding/json"
	"strings"
)

// Table is the result of one extraction: records in document order, the
// header they were keyed with and an optional caption. A Table is not
// modified after it is built.
type Table struct {
	header     []string
	records    []Record
	caption    string
	hasCaption bool
}

// NewTable builds a table. A nil caption means the table has none.
func NewTable(header []string, records []Record, caption *string) *Table {
	t := &Table{
		header:  append([]string{}, header...),
		records: append([]Record{}, records...),
	}
	if caption != nil {
		t.caption = *caption
		t.hasCaption = true
	}
	return t
}

// Header returns a copy of the header; empty when records are positional.
func (t *Table) Header() []string {
	return append([]string{}, t.header...)
}

// Caption returns the caption and whether one was resolved.
func (t *Table) Caption() (string, bool) {
	return t.caption, t.hasCaption
}

// Records returns a copy of the records.
func (t *Table) Records() []Record {
	return append([]Record{}, t.records...)
}

// Record returns the record at index i.
func (t *Table) Record(i int) (Record, bool) {
	if i < 0 || i >= len(t.records) {
		return Record{}, false
	}
	return t.records[i], true
}

// RowCount returns the number of records.
func (t *Table) RowCount() int {
	return len(t.records)
}

// ColCount returns the header width, or the widest record when there is no
// header.
func (t *Table) ColCount() int {
	if len(t.header) > 0 {
		return len(t.header)
	}
	n := 0
	for _, r := range t.records {
		if r.Len() > n {
			n = r.Len()
		}
	}
	return n
}

// Columns returns the column labels used by the text exports: the header, or
// the keys of the first keyed record, or nothing for positional tables.
func (t *Table) Columns() []string {
	if len(t.header) > 0 {
		return t.Header()
	}
	for _, r := range t.records {
		if r.IsKeyed() {
			return r.Keys()
		}
	}
	return nil
}

// Matrix returns every record as a row of ColCount cells. Null and missing
// values are empty strings. Keyed records are laid out by Columns.
func (t *Table) Matrix() [][]string {
	cols := t.Columns()
	width := t.ColCount()
	if len(cols) > width {
		width = len(cols)
	}

	rows := make([][]string, 0, len(t.records))
	for _, r := range t.records {
		row := make([]string, width)
		if r.IsKeyed() && len(cols) > 0 {
			for j, c := range cols {
				row[j], _ = r.Get(c)
			}
		} else {
			for j := 0; j < r.Len() && j < width; j++ {
				row[j], _ = r.At(j)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Equal reports whether two tables hold the same header, caption and records.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.hasCaption != o.hasCaption || t.caption != o.caption {
		return false
	}
	if len(t.header) != len(o.header) || len(t.records) != len(o.records) {
		return false
	}
	for i := range t.header {
		if t.header[i] != o.header[i] {
			return false
		}
	}
	for i := range t.records {
		if !t.records[i].Equal(o.records[i]) {
			return false
		}
	}
	return true
}

// GetText returns the table as tab separated lines.
func (t *Table) GetText() string {
	var sb strings.Builder
	if cols := t.Columns(); len(cols) > 0 {
		sb.WriteString(strings.Join(cols, "\t"))
		sb.WriteString("\n")
	}
	for _, row := range t.Matrix() {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format. Positional tables get an
// empty header row, since markdown tables require one.
func (t *Table) ToMarkdown() string {
	width := t.ColCount()
	if width == 0 {
		return ""
	}

	cols := t.Columns()
	header := make([]string, width)
	copy(header, cols)

	var sb strings.Builder
	writeMarkdownRow(&sb, header)
	for j := 0; j < width; j++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range t.Matrix() {
		writeMarkdownRow(&sb, row)
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	for _, c := range cells {
		sb.WriteString("| ")
		sb.WriteString(escapeMarkdown(c))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
}

// escapeMarkdown escapes characters that break markdown table cells.
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}

// ToCSV converts the table to CSV, header first when there is one.
func (t *Table) ToCSV() (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if cols := t.Columns(); len(cols) > 0 {
		if err := w.Write(cols); err != nil {
			return "", err
		}
	}
	if err := w.WriteAll(t.Matrix()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type tableJSON struct {
	Caption *string  `json:"caption"`
	Header  []string `json:"header"`
	Records []Record `json:"records"`
}

// MarshalJSON encodes the table as {"caption", "header", "records"}.
func (t *Table) MarshalJSON() ([]byte, error) {
	v := tableJSON{Header: t.Header(), Records: t.Records()}
	if t.hasCaption {
		c := t.caption
		v.Caption = &c
	}
	return json.Marshal(v)
}
