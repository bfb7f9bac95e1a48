// Package htmltable extracts a single HTML table into ordered records.
//
// It copes with markup found in the wild: cells spanning rows and columns,
// tables with or without <thead>, <tbody> and <tfoot> sections, rows written
// directly inside <table>, and malformed HTML.
//
// Basic usage:
//
//	table, err := htmltable.New().ParseHTML(src)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(table.Header())
//	for _, r := range table.Records() {
//	    fmt.Println(r.Values())
//	}
//
// With options:
//
//	p := htmltable.Must(htmltable.New().TableID("prices"))
//	p = htmltable.Must(p.TableHeader("product", "price"))
//	p = htmltable.Must(p.IncludeSection(htmltable.SectionHeader))
//	table, err := p.FailOnDiagnostics().ParseFile(ctx, "prices.html")
//
// # Headers
//
// By default the header is read from the first row of the table's <thead>
// and that row is not returned as data. An explicit header set with
// [Parser.TableHeader] takes precedence, and [Parser.WithoutTableHeader]
// turns derivation off so every row is positional data.
//
// # Spans
//
// A cell with colspan n appears n times in its row; a cell with rowspan n
// is repeated at the same column in the next n-1 rows of the same section.
// Span values below 2 or above 1000 count as 1.
//
// Configuration is a plain value: every method returns a new [Parser], so a
// configured Parser can be shared between goroutines.
package htmltable

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for building parsers
// from constant configuration, in scripts or tests.
//
// Example:
//
//	p := htmltable.Must(htmltable.New().TablePosition(2))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
