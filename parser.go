package htmltable

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Parser extracts one table from HTML markup.
//
// A Parser is an immutable value. Each configuration method returns a new
// Parser and leaves the receiver untouched; when a call would not change
// anything the receiver itself is returned. Methods that validate their
// input return an error wrapping ErrInvalidConfig immediately, so a Parser
// that was built without errors never fails for configuration reasons during
// extraction. Parsers are safe for concurrent use.
//
// The zero value is not usable; start from New.
type Parser struct {
	options options
	logger  *zerolog.Logger
}

// New returns a Parser with the default configuration: the first table in
// the document, header derived from the first <thead> row, body, footer and
// bare rows extracted, markup diagnostics ignored.
func New() Parser {
	return Parser{options: defaultOptions()}
}

// clone copies the Parser with a deep copy of its options.
func (p Parser) clone() Parser {
	return Parser{
		options: p.options.clone(),
		logger:  p.logger,
	}
}

// Equal reports whether two Parsers are configured identically. Record
// transforms compare by function identity; loggers are ignored.
func (p Parser) Equal(o Parser) bool {
	return p.options.equal(o.options)
}

func (p Parser) log() *zerolog.Logger {
	if p.logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return p.logger
}

// ============================================================================
// Table selection
// ============================================================================

// TableExpression selects the table with an XPath expression. The first
// matching node is used and must be a <table>.
//
// Example:
//
//	p, err := htmltable.New().TableExpression(`//div[@class="prices"]/table`)
func (p Parser) TableExpression(expr string) (Parser, error) {
	if expr == p.options.tableExpression {
		return p, nil
	}
	if err := validateExpression(expr); err != nil {
		return p, err
	}
	newP := p.clone()
	newP.options.tableExpression = expr
	return newP, nil
}

// TablePosition selects the table by its zero-based position among all
// tables of the document, nested ones included.
func (p Parser) TablePosition(position int) (Parser, error) {
	if position < 0 {
		return p, configError("table position must not be negative, got %d", position)
	}
	return p.TableExpression(tablePositionExpression(position))
}

// TableID selects the table whose id attribute equals id.
func (p Parser) TableID(id string) (Parser, error) {
	expr, err := tableIDExpression(id)
	if err != nil {
		return p, err
	}
	return p.TableExpression(expr)
}

// ============================================================================
// Header
// ============================================================================

// TableHeader sets an explicit header. Names must be unique. Records are
// keyed by these names and no header row is derived from the markup.
// Calling it with no names clears the explicit header.
func (p Parser) TableHeader(names ...string) (Parser, error) {
	if equalStrings(names, p.options.header) {
		return p, nil
	}
	if dup, ok := firstDuplicate(names); ok {
		return p, fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrDuplicateHeader, dup)
	}
	newP := p.clone()
	newP.options.header = nil
	if len(names) > 0 {
		newP.options.header = append([]string(nil), names...)
	}
	return newP, nil
}

// WithoutTableHeader stops header derivation: unless an explicit header is
// set, records are positional and every row is data.
func (p Parser) WithoutTableHeader() Parser {
	if p.options.ignoreHeader {
		return p
	}
	newP := p.clone()
	newP.options.ignoreHeader = true
	return newP
}

// ResolveTableHeader restores header derivation after WithoutTableHeader.
func (p Parser) ResolveTableHeader() Parser {
	if !p.options.ignoreHeader {
		return p
	}
	newP := p.clone()
	newP.options.ignoreHeader = false
	return newP
}

// TableHeaderPosition derives the header from the row at the zero-based
// offset of the given section. The row is never returned as data.
//
// Example:
//
//	// header is the second bare row of the table
//	p, err := htmltable.New().TableHeaderPosition(htmltable.SectionRow, 1)
func (p Parser) TableHeaderPosition(section Section, offset int) (Parser, error) {
	if !section.valid() {
		return p, configError("unknown section %s", section)
	}
	if offset < 0 {
		return p, configError("header offset must not be negative, got %d", offset)
	}
	expr := section.rowExpression(offset)
	if expr == p.options.headerExpression {
		return p, nil
	}
	newP := p.clone()
	newP.options.headerExpression = expr
	return newP, nil
}

// ============================================================================
// Sections
// ============================================================================

// IncludeSection adds sections whose rows are extracted.
func (p Parser) IncludeSection(sections ...Section) (Parser, error) {
	if err := validateSections(sections); err != nil {
		return p, err
	}
	set := p.options.sections
	for _, s := range sections {
		set = set.with(s)
	}
	return p.withSections(set), nil
}

// ExcludeSection removes sections from extraction. Rows in an excluded
// section are skipped entirely.
func (p Parser) ExcludeSection(sections ...Section) (Parser, error) {
	if err := validateSections(sections); err != nil {
		return p, err
	}
	set := p.options.sections
	for _, s := range sections {
		set = set.without(s)
	}
	return p.withSections(set), nil
}

func (p Parser) withSections(set sectionSet) Parser {
	if set == p.options.sections {
		return p
	}
	newP := p.clone()
	newP.options.sections = set
	return newP
}

// ============================================================================
// Records, caption, diagnostics, logging
// ============================================================================

// WithTransform sets a function applied to every record after it has been
// shaped. A nil fn removes the transform.
func (p Parser) WithTransform(fn RecordTransform) Parser {
	if fn == nil {
		return p.WithoutTransform()
	}
	newP := p.clone()
	newP.options.transform = fn
	return newP
}

// WithoutTransform removes the record transform.
func (p Parser) WithoutTransform() Parser {
	if p.options.transform == nil {
		return p
	}
	newP := p.clone()
	newP.options.transform = nil
	return newP
}

// WithCaption sets the caption reported when the table has no <caption>.
func (p Parser) WithCaption(caption string) Parser {
	if p.options.hasCaption && p.options.caption == caption {
		return p
	}
	newP := p.clone()
	newP.options.caption = caption
	newP.options.hasCaption = true
	return newP
}

// WithoutCaption removes the fallback caption.
func (p Parser) WithoutCaption() Parser {
	if !p.options.hasCaption {
		return p
	}
	newP := p.clone()
	newP.options.caption = ""
	newP.options.hasCaption = false
	return newP
}

// FailOnDiagnostics makes extraction fail with a *DiagnosticsError when the
// markup parser reports any problem.
func (p Parser) FailOnDiagnostics() Parser {
	if p.options.strict {
		return p
	}
	newP := p.clone()
	newP.options.strict = true
	return newP
}

// IgnoreDiagnostics tolerates malformed markup. This is the default.
func (p Parser) IgnoreDiagnostics() Parser {
	if !p.options.strict {
		return p
	}
	newP := p.clone()
	newP.options.strict = false
	return newP
}

// WithLogger sets the logger used for debug output during extraction.
func (p Parser) WithLogger(l zerolog.Logger) Parser {
	newP := p.clone()
	newP.logger = &l
	return newP
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return "", false
}
