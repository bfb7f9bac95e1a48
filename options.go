package htmltable

import (
	"reflect"

	"github.com/tsawler/htmltable/markup"
)

const (
	defaultTableExpression  = "(//table)[1]"
	defaultHeaderExpression = "(//table/thead/tr)[1]"
)

// options holds the extraction configuration behind a Parser.
type options struct {
	// Table selection
	tableExpression string

	// Caption used when the table has no <caption>
	caption    string
	hasCaption bool

	// Header resolution
	header           []string // explicit header; empty means derive
	ignoreHeader     bool
	headerExpression string

	// Section filtering
	sections sectionSet

	// Record shaping
	transform RecordTransform

	// Fail on markup diagnostics
	strict bool
}

// defaultOptions returns the default extraction options.
func defaultOptions() options {
	return options{
		tableExpression:  defaultTableExpression,
		headerExpression: defaultHeaderExpression,
		sections:         newSectionSet(SectionBody, SectionFooter, SectionRow),
	}
}

// clone creates a deep copy of options.
func (o options) clone() options {
	newOpts := o
	if o.header != nil {
		newOpts.header = make([]string, len(o.header))
		copy(newOpts.header, o.header)
	}
	return newOpts
}

// equal compares two option sets. Transforms compare by function identity.
func (o options) equal(x options) bool {
	if o.tableExpression != x.tableExpression ||
		o.caption != x.caption || o.hasCaption != x.hasCaption ||
		o.ignoreHeader != x.ignoreHeader ||
		o.headerExpression != x.headerExpression ||
		o.sections != x.sections ||
		o.strict != x.strict {
		return false
	}
	if len(o.header) != len(x.header) {
		return false
	}
	for i := range o.header {
		if o.header[i] != x.header[i] {
			return false
		}
	}
	return sameTransform(o.transform, x.transform)
}

func sameTransform(a, b RecordTransform) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// includes reports whether rows held by an element with this tag are
// extracted. Unknown tags never are.
func (o options) includes(tag string) bool {
	s, ok := ParseSection(tag)
	return ok && o.sections.has(s)
}

func validateExpression(expr string) error {
	if err := markup.Validate(expr); err != nil {
		return configError("%v", err)
	}
	return nil
}
