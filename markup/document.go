package markup

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed markup tree.
type Document struct {
	root *html.Node
}

// NewDocument wraps an existing tree. The tree is used as-is: implied
// <tbody> elements are not removed.
func NewDocument(root *html.Node) *Document {
	return &Document{root: root}
}

// Parse parses src into a Document. Diagnostics are returned even when
// parsing succeeds; an error is only returned when no tree could be built.
func Parse(src string) (*Document, []Diagnostic, error) {
	prepared, diags := scan(src)

	root, err := html.Parse(strings.NewReader(prepared))
	if err != nil {
		return nil, diags, fmt.Errorf("parsing HTML: %w", err)
	}
	unwrapImpliedBodies(root)

	return &Document{root: root}, diags, nil
}

// Root returns the document's root node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Query evaluates expr against the whole document.
func (d *Document) Query(expr string) ([]*html.Node, error) {
	return Query(expr, d.root)
}

// First returns the first element matching expr, or nil.
func (d *Document) First(expr string) (*html.Node, error) {
	return First(expr, d.root)
}

// Decode converts raw bytes to a UTF-8 string. Valid UTF-8 is returned
// unchanged; anything else is decoded using the encoding sniffed from a BOM
// or <meta charset>, falling back to windows-1252.
func Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	enc, name, _ := charset.DetermineEncoding(b, "")
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(out), nil
}

// unwrapImpliedBodies removes every <tbody> directly under a <table> that
// the tree builder created on its own, moving its rows up into the table.
func unwrapImpliedBodies(root *html.Node) {
	var implied []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tbody" {
			if _, ok := Attr(n, explicitBodyAttr); ok {
				removeAttr(n, explicitBodyAttr)
			} else if IsElement(n.Parent, "table") {
				implied = append(implied, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, body := range implied {
		parent := body.Parent
		for c := body.FirstChild; c != nil; c = body.FirstChild {
			body.RemoveChild(c)
			parent.InsertBefore(c, body)
		}
		parent.RemoveChild(body)
	}
}
