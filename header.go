package htmltable

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/tsawler/htmltable/markup"
)

// resolveHeader returns the header and, when it was read from the markup,
// the row it came from so the walk can skip it.
func (p Parser) resolveHeader(table *html.Node) ([]string, *html.Node, error) {
	switch {
	case len(p.options.header) > 0:
		p.log().Debug().Strs("header", p.options.header).Msg("using explicit header")
		return append([]string(nil), p.options.header...), nil, nil
	case p.options.ignoreHeader:
		p.log().Debug().Msg("header derivation disabled")
		return nil, nil, nil
	}

	row, err := markup.First(p.options.headerExpression, table)
	if err != nil {
		return nil, nil, err
	}
	if row == nil {
		p.log().Debug().Str("expression", p.options.headerExpression).Msg("no header row found")
		return nil, nil, nil
	}

	header := extractRow(row, nil)
	if len(header) == 0 {
		return nil, nil, nil
	}
	if dup, ok := firstDuplicate(header); ok {
		return nil, nil, fmt.Errorf("%w: derived header repeats %q", ErrDuplicateHeader, dup)
	}

	p.log().Debug().Strs("header", header).Msg("derived header")
	return header, row, nil
}

// resolveCaption prefers the table's own <caption> over the configured one.
func (p Parser) resolveCaption(table *html.Node) (*string, error) {
	node, err := markup.First("(//caption)[1]", table)
	if err != nil {
		return nil, err
	}
	if node != nil {
		caption := markup.TextContent(node)
		return &caption, nil
	}
	if p.options.hasCaption {
		caption := p.options.caption
		return &caption, nil
	}
	return nil, nil
}
