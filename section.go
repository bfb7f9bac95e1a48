package htmltable

import (
	"fmt"
	"strings"
)

// Section identifies a structural row container of a table.
type Section int

const (
	// SectionHeader is <thead>.
	SectionHeader Section = iota + 1
	// SectionBody is <tbody>.
	SectionBody
	// SectionFooter is <tfoot>.
	SectionFooter
	// SectionRow is a <tr> written directly inside <table>.
	SectionRow
)

// Tag returns the element name the section corresponds to.
func (s Section) Tag() string {
	switch s {
	case SectionHeader:
		return "thead"
	case SectionBody:
		return "tbody"
	case SectionFooter:
		return "tfoot"
	case SectionRow:
		return "tr"
	default:
		return ""
	}
}

func (s Section) String() string {
	if t := s.Tag(); t != "" {
		return t
	}
	return fmt.Sprintf("Section(%d)", int(s))
}

func (s Section) valid() bool {
	return s.Tag() != ""
}

// ParseSection maps an element name to its Section.
func ParseSection(tag string) (Section, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "thead":
		return SectionHeader, true
	case "tbody":
		return SectionBody, true
	case "tfoot":
		return SectionFooter, true
	case "tr":
		return SectionRow, true
	}
	return 0, false
}

// rowExpression selects the (offset+1)-th row of the section.
func (s Section) rowExpression(offset int) string {
	if s == SectionRow {
		return fmt.Sprintf("(//table/tr)[%d]", offset+1)
	}
	return fmt.Sprintf("(//table/%s/tr)[%d]", s.Tag(), offset+1)
}

// sectionSet is a bit set of sections.
type sectionSet uint8

func newSectionSet(sections ...Section) sectionSet {
	var set sectionSet
	for _, s := range sections {
		set = set.with(s)
	}
	return set
}

func (set sectionSet) with(s Section) sectionSet    { return set | 1<<uint(s) }
func (set sectionSet) without(s Section) sectionSet { return set &^ (1 << uint(s)) }
func (set sectionSet) has(s Section) bool           { return set&(1<<uint(s)) != 0 }

// sections returns the members in declaration order.
func (set sectionSet) sections() []Section {
	var out []Section
	for _, s := range []Section{SectionHeader, SectionBody, SectionFooter, SectionRow} {
		if set.has(s) {
			out = append(out, s)
		}
	}
	return out
}

func validateSections(sections []Section) error {
	for _, s := range sections {
		if !s.valid() {
			return configError("unknown section %s", s)
		}
	}
	return nil
}
