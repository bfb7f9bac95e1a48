package htmltable

import (
	"golang.org/x/net/html"

	"github.com/tsawler/htmltable/markup"
)

// carryOver holds the cells a rowspan still owes to the following rows,
// keyed by the child index of the spanning cell. One carryOver lives for one
// section container; bare rows share one for the whole table.
type carryOver map[int][][]string

// flush appends the next pending cell group for index, if any.
func (c carryOver) flush(index int, row []string) []string {
	queue, ok := c[index]
	if !ok {
		return row
	}
	row = append(row, queue[0]...)
	if len(queue) == 1 {
		delete(c, index)
	} else {
		c[index] = queue[1:]
	}
	return row
}

// extractRow expands one row into its cell values. Pending cells from earlier
// rows are placed before the child at the same index, and once more after
// the last child. Children that are not cells still take up an index.
// A nil carryOver is treated as an empty one that is discarded afterwards.
func extractRow(tr *html.Node, pending carryOver) []string {
	if pending == nil {
		pending = carryOver{}
	}

	row := []string{}
	index := -1
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		index++
		row = pending.flush(index, row)

		if !markup.IsElement(c, "td", "th") {
			continue
		}

		text := markup.TextContent(c)
		cells := make([]string, spanSize(c, "colspan"))
		for i := range cells {
			cells[i] = text
		}
		row = append(row, cells...)

		if rowspan := spanSize(c, "rowspan"); rowspan > 1 {
			queue := make([][]string, rowspan-1)
			for i := range queue {
				queue[i] = cells
			}
			pending[index] = queue
		}
	}

	if index >= 0 {
		row = pending.flush(index+1, row)
	}
	return row
}
