// Package export writes extracted tables in the formats the command line
// tool offers.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tsawler/htmltable/model"
)

// ErrUnknownFormat is returned by Lookup for an unregistered name.
var ErrUnknownFormat = errors.New("export: unknown format")

// Formatter renders a table to w.
type Formatter interface {
	Name() string
	Format(t *model.Table, w io.Writer) error
}

var formatters = map[string]Formatter{}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(NewGrid())
	register(NewMarkdown())
	register(NewCSV())
	register(NewJSON())
	register(NewYAML())
}

// Lookup returns the formatter registered under name.
func Lookup(name string) (Formatter, error) {
	f, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the registered formats in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
