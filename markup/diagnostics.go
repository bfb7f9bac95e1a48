package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Diagnostic describes a markup problem the parser recovered from.
type Diagnostic struct {
	Line    int // 1-based
	Column  int // 1-based, in runes
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// explicitBodyAttr marks <tbody> start tags that were present in the source.
const explicitBodyAttr = "data-htmltable-explicit-tbody"

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Elements whose end tag may be omitted.
var optionalEndTag = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true,
	"dt": true, "dd": true, "option": true, "optgroup": true, "rb": true,
	"rt": true, "rtc": true, "rp": true, "colgroup": true, "caption": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true, "td": true,
	"th": true,
}

type cursor struct {
	line, col int
}

func (c *cursor) advance(raw string) {
	for _, r := range raw {
		if r == '\n' {
			c.line++
			c.col = 1
			continue
		}
		c.col++
	}
}

// scan tokenizes src once. It returns src with every explicit <tbody> start
// tag marked, and the diagnostics found along the way.
func scan(src string) (string, []Diagnostic) {
	z := html.NewTokenizer(strings.NewReader(src))
	var (
		out     strings.Builder
		diags   []Diagnostic
		stack   []string
		foreign int // depth inside <svg> or <math>
		pos     = cursor{line: 1, col: 1}
	)
	out.Grow(len(src) + 64)

	report := func(at cursor, format string, args ...any) {
		diags = append(diags, Diagnostic{Line: at.line, Column: at.col, Message: fmt.Sprintf(format, args...)})
	}

	for {
		tt := z.Next()
		raw := string(z.Raw())
		at := pos
		pos.advance(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				report(at, "tokenizer: %v", err)
			}
			out.WriteString(raw)
			for i := len(stack) - 1; i >= 0; i-- {
				if !optionalEndTag[stack[i]] {
					report(pos, "premature end of data in tag %s", stack[i])
				}
			}
			return out.String(), diags

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			name := tok.Data
			seen := make(map[string]bool, len(tok.Attr))
			for _, a := range tok.Attr {
				if seen[a.Key] {
					report(at, "attribute %s redefined", a.Key)
				}
				seen[a.Key] = true
			}
			if foreign == 0 && tok.DataAtom == 0 && !strings.Contains(name, "-") {
				report(at, "tag %s invalid", name)
			}

			if tok.DataAtom == atom.Tbody && tt == html.StartTagToken {
				tok.Attr = append(tok.Attr, html.Attribute{Key: explicitBodyAttr})
				out.WriteString(tok.String())
			} else {
				out.WriteString(raw)
			}

			if tt == html.SelfClosingTagToken || voidElements[name] {
				continue
			}
			if name == "svg" || name == "math" {
				foreign++
			}
			stack = append(stack, name)

		case html.EndTagToken:
			out.WriteString(raw)
			tok := z.Token()
			name := tok.Data
			i := len(stack) - 1
			for ; i >= 0 && stack[i] != name; i-- {
			}
			if i < 0 {
				report(at, "unexpected end tag %s", name)
				continue
			}
			for j := len(stack) - 1; j > i; j-- {
				if !optionalEndTag[stack[j]] {
					report(at, "opening and ending tag mismatch: %s and %s", stack[j], name)
				}
				if stack[j] == "svg" || stack[j] == "math" {
					foreign--
				}
			}
			if name == "svg" || name == "math" {
				foreign--
			}
			stack = stack[:i]

		default:
			out.WriteString(raw)
		}
	}
}
