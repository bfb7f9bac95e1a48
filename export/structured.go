package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/htmltable/model"
)

var _ Formatter = (*JSON)(nil)

// JSON writes {"caption", "header", "records"} with keyed records as
// objects in header order.
type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (j *JSON) Name() string {
	return "json"
}

func (j *JSON) Format(t *model.Table, w io.Writer) error {
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

var _ Formatter = (*YAML)(nil)

// YAML writes the same document as JSON. Key order is kept and null values
// are written as null.
type YAML struct{}

func NewYAML() *YAML {
	return &YAML{}
}

func (y *YAML) Name() string {
	return "yaml"
}

func (y *YAML) Format(t *model.Table, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tableNode(t)); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

func tableNode(t *model.Table) *yaml.Node {
	doc := mapping()

	caption := null()
	if c, ok := t.Caption(); ok {
		caption = str(c)
	}
	header := sequence()
	for _, h := range t.Header() {
		header.Content = append(header.Content, str(h))
	}
	records := sequence()
	for _, r := range t.Records() {
		records.Content = append(records.Content, recordNode(r))
	}

	doc.Content = append(doc.Content,
		str("caption"), caption,
		str("header"), header,
		str("records"), records,
	)
	return doc
}

func recordNode(r model.Record) *yaml.Node {
	if !r.IsKeyed() {
		n := sequence()
		n.Style = yaml.FlowStyle
		for i := 0; i < r.Len(); i++ {
			v, _ := r.At(i)
			n.Content = append(n.Content, str(v))
		}
		return n
	}

	n := mapping()
	for i, k := range r.Keys() {
		v := null()
		if s, ok := r.At(i); ok {
			v = str(s)
		}
		n.Content = append(n.Content, str(k), v)
	}
	return n
}

func mapping() *yaml.Node  { return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"} }
func sequence() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"} }
func null() *yaml.Node     { return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"} }
func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
