// Package markup turns HTML text into a navigable node tree and answers
// XPath queries against it.
//
// Parsing is lenient: the HTML5 tree builder from golang.org/x/net/html
// recovers from any input. Problems it silently repairs are reported back as
// [Diagnostic] values so callers can decide whether to tolerate them.
//
// # Bare rows
//
// The HTML5 tree builder wraps a <tr> that appears directly inside a <table>
// in an implied <tbody>. [Parse] removes those implied wrappers again, so a
// row written without a section container stays a direct child of its table.
// Explicit <tbody> elements are left untouched.
//
// # Queries
//
// Selector expressions are XPath 1.0 (github.com/antchfx/xpath):
//
//	doc, _, err := markup.Parse(src)
//	if err != nil {
//	    // handle error
//	}
//	tables, err := doc.Query("//table[@id='prices']")
//
// A query scoped to an element sees that element as the only child of a
// document root, so "//table" inside a table scope selects the table itself.
package markup
