package htmltable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of a Parser. Zero values leave the defaults
// in place.
//
//	table:
//	  id: prices
//	caption: Price list
//	header:
//	  section: tbody
//	  offset: 0
//	sections:
//	  include: [thead]
//	  exclude: [tfoot]
//	strict: true
type FileConfig struct {
	Table struct {
		Expression string `yaml:"expression"`
		Position   *int   `yaml:"position"`
		ID         string `yaml:"id"`
	} `yaml:"table"`

	Caption *string `yaml:"caption"`

	Header struct {
		Names   []string `yaml:"names"`
		Ignore  bool     `yaml:"ignore"`
		Section string   `yaml:"section"`
		Offset  int      `yaml:"offset"`
	} `yaml:"header"`

	Sections struct {
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"sections"`

	Strict bool `yaml:"strict"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	fc, err := ParseConfig(b)
	if err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// ParseConfig decodes YAML configuration. Unknown keys are rejected. An
// empty document yields the zero FileConfig.
func ParseConfig(b []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// Parser applies the file configuration on top of New(). Only one of the
// table selectors may be set.
func (fc FileConfig) Parser() (Parser, error) {
	return fc.Apply(New())
}

// Apply applies the file configuration on top of p.
func (fc FileConfig) Apply(p Parser) (Parser, error) {
	var err error

	selectors := 0
	for _, set := range []bool{fc.Table.Expression != "", fc.Table.Position != nil, fc.Table.ID != ""} {
		if set {
			selectors++
		}
	}
	if selectors > 1 {
		return p, configError("table: set only one of expression, position and id")
	}
	switch {
	case fc.Table.Expression != "":
		p, err = p.TableExpression(fc.Table.Expression)
	case fc.Table.Position != nil:
		p, err = p.TablePosition(*fc.Table.Position)
	case fc.Table.ID != "":
		p, err = p.TableID(fc.Table.ID)
	}
	if err != nil {
		return p, err
	}

	if fc.Caption != nil {
		p = p.WithCaption(*fc.Caption)
	}

	if fc.Header.Section != "" {
		section, ok := ParseSection(fc.Header.Section)
		if !ok {
			return p, configError("header.section: unknown section %q", fc.Header.Section)
		}
		if p, err = p.TableHeaderPosition(section, fc.Header.Offset); err != nil {
			return p, err
		}
	}
	if len(fc.Header.Names) > 0 {
		if p, err = p.TableHeader(fc.Header.Names...); err != nil {
			return p, err
		}
	}
	if fc.Header.Ignore {
		p = p.WithoutTableHeader()
	}

	include, err := parseSections("sections.include", fc.Sections.Include)
	if err != nil {
		return p, err
	}
	exclude, err := parseSections("sections.exclude", fc.Sections.Exclude)
	if err != nil {
		return p, err
	}
	if p, err = p.IncludeSection(include...); err != nil {
		return p, err
	}
	if p, err = p.ExcludeSection(exclude...); err != nil {
		return p, err
	}

	if fc.Strict {
		p = p.FailOnDiagnostics()
	}
	return p, nil
}

func parseSections(field string, tags []string) ([]Section, error) {
	sections := make([]Section, 0, len(tags))
	for _, tag := range tags {
		s, ok := ParseSection(tag)
		if !ok {
			return nil, configError("%s: unknown section %q", field, tag)
		}
		sections = append(sections, s)
	}
	return sections, nil
}
