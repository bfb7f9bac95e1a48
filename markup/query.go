package markup

import (
	"fmt"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Compile parses an XPath expression.
func Compile(expr string) (*xpath.Expr, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath expression %q: %w", expr, err)
	}
	return e, nil
}

// Validate reports whether expr compiles and can be evaluated, by running it
// against an empty document.
func Validate(expr string) (err error) {
	e, err := Compile(expr)
	if err != nil {
		return err
	}
	// Evaluation errors in antchfx/xpath surface as panics.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid xpath expression %q: %v", expr, r)
		}
	}()
	e.Select(newNavigator(&html.Node{Type: html.DocumentNode})).MoveNext()
	return nil
}

// Query evaluates expr against scope and returns the matching element nodes
// in document order.
func Query(expr string, scope *html.Node) ([]*html.Node, error) {
	e, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return Select(e, scope), nil
}

// Select evaluates a compiled expression against scope.
func Select(e *xpath.Expr, scope *html.Node) []*html.Node {
	var out []*html.Node
	iter := e.Select(newNavigator(scope))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok || nav.attr != -1 {
			continue
		}
		if nav.curr.Type == html.ElementNode {
			out = append(out, nav.curr)
		}
	}
	return out
}

// First returns the first element matching expr within scope, or nil.
func First(expr string, scope *html.Node) (*html.Node, error) {
	nodes, err := Query(expr, scope)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}
