package htmltable

import (
	"golang.org/x/net/html"

	"github.com/tsawler/htmltable/markup"
)

// Span values outside [minSpan, maxSpan] count as 1.
const (
	minSpan = 2
	maxSpan = 1000
)

// spanSize returns the effective colspan or rowspan of a cell.
func spanSize(n *html.Node, attr string) int {
	v, ok := markup.Attr(n, attr)
	if !ok {
		return 1
	}
	span, ok := parseSpan(v)
	if !ok || span < minSpan || span > maxSpan {
		return 1
	}
	return span
}

// parseSpan reads a leading integer the way browsers read span attributes:
// leading whitespace and an optional sign are skipped, parsing stops at the
// first non-digit.
func parseSpan(v string) (int, bool) {
	i := 0
	for i < len(v) && (v[i] == ' ' || v[i] == '\t' || v[i] == '\n' || v[i] == '\r' || v[i] == '\f') {
		i++
	}
	neg := false
	if i < len(v) && (v[i] == '+' || v[i] == '-') {
		neg = v[i] == '-'
		i++
	}
	start := i
	n := 0
	for ; i < len(v) && v[i] >= '0' && v[i] <= '9'; i++ {
		if n <= maxSpan {
			n = n*10 + int(v[i]-'0')
		}
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
