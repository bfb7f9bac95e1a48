package htmltable

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"

	"github.com/tsawler/htmltable/format"
	"github.com/tsawler/htmltable/markup"
	"github.com/tsawler/htmltable/model"
)

// ParseHTML extracts the configured table from an HTML string.
//
// Example:
//
//	table, err := htmltable.New().ParseHTML(src)
//	if err != nil {
//	    // handle error
//	}
//	for _, r := range table.Records() {
//	    fmt.Println(r.Get("name"))
//	}
func (p Parser) ParseHTML(src string) (*model.Table, error) {
	doc, diags, err := markup.Parse(src)
	if err != nil {
		return nil, err
	}
	if len(diags) > 0 {
		if p.options.strict {
			return nil, &DiagnosticsError{Diagnostics: diags}
		}
		p.log().Debug().Int("diagnostics", len(diags)).Msg("ignoring markup diagnostics")
	}
	return p.extract(doc)
}

// ParseBytes extracts the configured table from raw markup. Input that is not
// valid UTF-8 is decoded using the charset declared in the document.
func (p Parser) ParseBytes(b []byte) (*model.Table, error) {
	src, err := markup.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStream, err)
	}
	return p.ParseHTML(src)
}

// ParseReader reads r to the end and extracts the configured table. ctx is
// checked before and after reading; r is not closed.
func (p Parser) ParseReader(ctx context.Context, r io.Reader) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading input: %w", ErrStream, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.ParseBytes(b)
}

// ParseFile opens filename, extracts the configured table and closes the
// file. Files that are recognisably not markup (PDF, office archives) are
// rejected with ErrStream.
func (p Parser) ParseFile(ctx context.Context, filename string) (*model.Table, error) {
	b, err := readFile(ctx, filename)
	if err != nil {
		return nil, err
	}
	f, err := format.DetectFromReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStream, filename, err)
	}
	if !f.IsMarkup() {
		return nil, fmt.Errorf("%w: %s is a %s file, not markup", ErrStream, filename, f)
	}
	p.log().Debug().Str("file", filename).Stringer("format", f).Int("bytes", len(b)).Msg("read input")
	return p.ParseBytes(b)
}

func readFile(ctx context.Context, filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: opening file: %w", ErrStream, err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrStream, filename, err)
	}
	return b, ctx.Err()
}

// ParseNode extracts the configured table from an already parsed tree. root
// may be a document or any element, including the table itself. The tree is
// not modified and no diagnostics are available.
func (p Parser) ParseNode(root *html.Node) (*model.Table, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil node", ErrTableNotFound)
	}
	return p.extract(markup.NewDocument(root))
}

// extract runs locate, header, caption and walk in that order.
func (p Parser) extract(doc *markup.Document) (*model.Table, error) {
	table, err := p.locateTable(doc)
	if err != nil {
		return nil, err
	}
	p.log().Debug().Str("expression", p.options.tableExpression).Msg("located table")

	header, consumed, err := p.resolveHeader(table)
	if err != nil {
		return nil, err
	}

	caption, err := p.resolveCaption(table)
	if err != nil {
		return nil, err
	}

	records, err := p.walk(table, header, consumed)
	if err != nil {
		return nil, err
	}
	p.log().Debug().Int("records", len(records)).Int("columns", len(header)).Msg("extracted table")

	return model.NewTable(header, records, caption), nil
}

// walk visits the table's direct children in order. Bare rows share one
// carry-over for the whole table; each included container gets its own.
// Excluded containers are not visited at all.
func (p Parser) walk(table *html.Node, header []string, consumed *html.Node) ([]model.Record, error) {
	records := []model.Record{}

	emit := func(tr *html.Node, pending carryOver) error {
		if !markup.IsElement(tr, "tr") || tr == consumed {
			return nil
		}
		record, err := formatRecord(extractRow(tr, pending), header, p.options.transform)
		if err != nil {
			return &TransformError{Row: len(records), Err: err}
		}
		records = append(records, record)
		return nil
	}

	bare := carryOver{}
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		tag := markup.TagName(c)
		if !p.options.includes(tag) {
			continue
		}

		if tag == SectionRow.Tag() {
			if err := emit(c, bare); err != nil {
				return nil, err
			}
			continue
		}

		pending := carryOver{}
		for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
			if err := emit(tr, pending); err != nil {
				return nil, err
			}
		}
	}
	return records, nil
}
