package htmltable

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/tsawler/htmltable/markup"
)

func tablePositionExpression(position int) string {
	return fmt.Sprintf("(//table)[%d]", position+1)
}

func tableIDExpression(id string) (string, error) {
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return "", configError("table id must not contain whitespace, got %q", id)
	}
	switch {
	case !strings.Contains(id, `"`):
		return fmt.Sprintf(`(//table[@id="%s"])[1]`, id), nil
	case !strings.Contains(id, `'`):
		return fmt.Sprintf(`(//table[@id='%s'])[1]`, id), nil
	default:
		return "", configError("table id must not contain both quote characters, got %q", id)
	}
}

// locateTable returns the first node matched by the table expression.
func (p Parser) locateTable(doc *markup.Document) (*html.Node, error) {
	node, err := doc.First(p.options.tableExpression)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, p.options.tableExpression)
	}
	if tag := markup.TagName(node); tag != "table" {
		return nil, fmt.Errorf("%w: got <%s>", ErrNotATable, tag)
	}
	return node, nil
}
