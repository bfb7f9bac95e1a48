package htmltable

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tsawler/htmltable/model"
)

const fruitTable = `<!DOCTYPE html>
<html><body>
<table id="fruit">` +
	`<caption>Fruit</caption>` +
	`<thead><tr><th>name</th><th>qty</th></tr></thead>` +
	`<tbody><tr><td>apple</td><td>3</td></tr><tr><td>pear</td></tr></tbody>` +
	`<tfoot><tr><td>total</td><td>3</td><td>extra</td></tr></tfoot>` +
	`</table>
</body></html>`

// values flattens records to their values; null values read as "<nil>".
func values(tbl *model.Table) [][]string {
	var out [][]string
	for _, r := range tbl.Records() {
		row := []string{}
		for i := 0; i < r.Len(); i++ {
			v, ok := r.At(i)
			if !ok {
				v = "<nil>"
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	return out
}

func TestParseHTML_DerivedHeader(t *testing.T) {
	tbl, err := New().ParseHTML(fruitTable)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "qty"}, tbl.Header())
	assert.Equal(t, [][]string{{"apple", "3"}, {"pear", "<nil>"}, {"total", "3"}}, values(tbl))

	r, _ := tbl.Record(0)
	assert.Equal(t, []string{"name", "qty"}, r.Keys())
	qty, ok := r.Get("qty")
	assert.True(t, ok)
	assert.Equal(t, "3", qty)

	caption, ok := tbl.Caption()
	assert.True(t, ok)
	assert.Equal(t, "Fruit", caption)
}

func TestParseHTML_HeaderRowNeverData(t *testing.T) {
	p := Must(New().IncludeSection(SectionHeader))

	tbl, err := p.ParseHTML(fruitTable)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "qty"}, tbl.Header())
	assert.Equal(t, 3, tbl.RowCount())
}

func TestParseHTML_WithoutTableHeader(t *testing.T) {
	tbl, err := New().WithoutTableHeader().ParseHTML(fruitTable)
	require.NoError(t, err)

	assert.Empty(t, tbl.Header())
	assert.Equal(t, [][]string{{"apple", "3"}, {"pear"}, {"total", "3", "extra"}}, values(tbl))
	for _, r := range tbl.Records() {
		assert.False(t, r.IsKeyed())
	}

	withHead := Must(New().WithoutTableHeader().IncludeSection(SectionHeader))
	tbl, err = withHead.ParseHTML(fruitTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, values(tbl)[0])
	assert.Equal(t, 4, tbl.RowCount())
}

func TestParseHTML_ExplicitHeader(t *testing.T) {
	src := `<table><tr><td>1</td><td>2</td><td>3</td></tr><tr><td>1</td></tr></table>`
	p := Must(New().TableHeader("a", "b"))

	tbl, err := p.ParseHTML(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tbl.Header())
	require.Equal(t, 2, tbl.RowCount())

	first, _ := tbl.Record(0)
	assert.True(t, first.Equal(model.Keyed([]string{"a", "b"}, []string{"1", "2"})))

	second, _ := tbl.Record(1)
	a, ok := second.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", a)
	_, ok = second.Get("b")
	assert.False(t, ok, "missing cell is null")
}

func TestParseHTML_ExplicitHeaderBeatsDerivation(t *testing.T) {
	p := Must(Must(New().TableHeader("x", "y")).IncludeSection(SectionHeader))

	tbl, err := p.ParseHTML(fruitTable)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, tbl.Header())
	assert.Equal(t, [][]string{{"name", "qty"}, {"apple", "3"}, {"pear", "<nil>"}, {"total", "3"}}, values(tbl))
}

func TestParseHTML_HeaderPosition(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		section Section
		offset  int
		header  []string
		want    [][]string
	}{
		{
			name:    "first bare row",
			src:     `<table><tr><td>h1</td><td>h2</td></tr><tr><td>1</td><td>2</td></tr></table>`,
			section: SectionRow,
			header:  []string{"h1", "h2"},
			want:    [][]string{{"1", "2"}},
		},
		{
			name:    "second body row",
			src:     `<table><tbody><tr><td>junk</td></tr><tr><td>h</td></tr><tr><td>v</td></tr></tbody></table>`,
			section: SectionBody,
			offset:  1,
			header:  []string{"h"},
			want:    [][]string{{"junk"}, {"v"}},
		},
		{
			name:    "no such row",
			src:     `<table><tr><td>1</td></tr></table>`,
			section: SectionFooter,
			header:  []string{},
			want:    [][]string{{"1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Must(New().TableHeaderPosition(tt.section, tt.offset))
			tbl, err := p.ParseHTML(tt.src)
			require.NoError(t, err)

			assert.Equal(t, tt.header, tbl.Header())
			assert.Equal(t, tt.want, values(tbl))
		})
	}
}

func TestParseHTML_EmptyHeaderRow(t *testing.T) {
	src := `<table><thead><tr></tr></thead><tbody><tr><td>1</td></tr></tbody></table>`

	tbl, err := Must(New().IncludeSection(SectionHeader)).ParseHTML(src)
	require.NoError(t, err)

	assert.Empty(t, tbl.Header())
	assert.Equal(t, [][]string{{}, {"1"}}, values(tbl), "an empty header row is not consumed")
}

func TestParseHTML_DuplicateDerivedHeader(t *testing.T) {
	src := `<table><thead><tr><th colspan="2">a</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>`

	_, err := New().ParseHTML(src)
	assert.ErrorIs(t, err, ErrDuplicateHeader)

	tbl, err := New().WithoutTableHeader().ParseHTML(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, values(tbl))
}

func TestParseHTML_Sections(t *testing.T) {
	src := `<table>` +
		`<thead><tr><td>h</td></tr></thead>` +
		`<tbody><tr><td>b</td></tr></tbody>` +
		`<tfoot><tr><td>f</td></tr></tfoot>` +
		`<tr><td>r</td></tr>` +
		`</table>`

	tests := []struct {
		name    string
		include []Section
		exclude []Section
		want    [][]string
	}{
		{"defaults", nil, nil, [][]string{{"b"}, {"f"}, {"r"}}},
		{"with header", []Section{SectionHeader}, nil, [][]string{{"h"}, {"b"}, {"f"}, {"r"}}},
		{"without footer", nil, []Section{SectionFooter}, [][]string{{"b"}, {"r"}}},
		{"without bare rows", nil, []Section{SectionRow}, [][]string{{"b"}, {"f"}}},
		{"nothing", nil, []Section{SectionBody, SectionFooter, SectionRow}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Must(Must(New().WithoutTableHeader().IncludeSection(tt.include...)).ExcludeSection(tt.exclude...))
			tbl, err := p.ParseHTML(src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values(tbl))
		})
	}
}

func TestParseHTML_RowspanStaysInSection(t *testing.T) {
	src := `<table>` +
		`<tbody><tr><td rowspan="3">a</td><td>b</td></tr></tbody>` +
		`<tbody><tr><td>c</td></tr></tbody>` +
		`</table>`

	tbl, err := New().ParseHTML(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, values(tbl))
}

func TestParseHTML_BareRowsShareCarryOver(t *testing.T) {
	src := `<table>` +
		`<tr><td rowspan="2">a</td><td>b</td></tr>` +
		`<tbody><tr><td>m</td></tr></tbody>` +
		`<tr><td>c</td></tr>` +
		`</table>`

	tbl, err := New().ParseHTML(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"m"}, {"a", "c"}}, values(tbl))
}

func TestParseHTML_ExcludedSectionDoesNotShiftColumns(t *testing.T) {
	src := `<table>` +
		`<thead><tr><td rowspan="5">x</td><td>h</td></tr></thead>` +
		`<tbody><tr><td>1</td><td>2</td></tr></tbody>` +
		`</table>`

	tbl, err := New().WithoutTableHeader().ParseHTML(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, values(tbl))
}

func TestParseHTML_Caption(t *testing.T) {
	plain := `<table><tr><td>1</td></tr></table>`

	tbl, err := New().WithCaption("Fallback").ParseHTML(fruitTable)
	require.NoError(t, err)
	caption, _ := tbl.Caption()
	assert.Equal(t, "Fruit", caption, "the table's own caption wins")

	tbl, err = New().WithCaption("Fallback").ParseHTML(plain)
	require.NoError(t, err)
	caption, ok := tbl.Caption()
	assert.True(t, ok)
	assert.Equal(t, "Fallback", caption)

	tbl, err = New().ParseHTML(plain)
	require.NoError(t, err)
	_, ok = tbl.Caption()
	assert.False(t, ok)
}

func TestParseHTML_Locator(t *testing.T) {
	src := `<div><p>intro</p>` +
		`<table id="first"><tr><td>1</td></tr></table>` +
		`<table id="second"><tr><td>2</td></tr></table>` +
		`</div>`

	tests := []struct {
		name    string
		p       Parser
		want    string
		wantErr error
	}{
		{"default", New(), "1", nil},
		{"position", Must(New().TablePosition(1)), "2", nil},
		{"id", Must(New().TableID("second")), "2", nil},
		{"expression", Must(New().TableExpression(`//table[@id="first"]`)), "1", nil},
		{"position out of range", Must(New().TablePosition(2)), "", ErrTableNotFound},
		{"unknown id", Must(New().TableID("third")), "", ErrTableNotFound},
		{"not a table", Must(New().TableExpression("//p")), "", ErrNotATable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := tt.p.ParseHTML(src)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrLocator)
				assert.Nil(t, tbl)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, [][]string{{tt.want}}, values(tbl))
		})
	}
}

func TestParseHTML_Diagnostics(t *testing.T) {
	src := `<table><tr><td>a</td></tr></table></span><bogus>x</bogus>`

	tbl, err := New().ParseHTML(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}}, values(tbl))

	_, err = New().FailOnDiagnostics().ParseHTML(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiagnostics)

	var diagErr *DiagnosticsError
	require.True(t, errors.As(err, &diagErr))
	assert.Len(t, diagErr.Diagnostics, 2)

	_, err = New().FailOnDiagnostics().ParseHTML(`<table><tr><td>a</td></tr></table>`)
	assert.NoError(t, err)
}

func TestParseHTML_Transform(t *testing.T) {
	upper := func(r model.Record) (model.Record, error) {
		vals := r.Values()
		for i := range vals {
			vals[i] = strings.ToUpper(vals[i])
		}
		return model.Positional(vals...), nil
	}

	tbl, err := New().WithoutTableHeader().WithTransform(upper).ParseHTML(fruitTable)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"APPLE", "3"}, {"PEAR"}, {"TOTAL", "3", "EXTRA"}}, values(tbl))

	addKey := func(r model.Record) (model.Record, error) {
		return r.Set("source", "fruit"), nil
	}
	tbl, err = New().WithTransform(addKey).ParseHTML(fruitTable)
	require.NoError(t, err)
	r, _ := tbl.Record(1)
	assert.Equal(t, []string{"name", "qty", "source"}, r.Keys())
}

func TestParseHTML_TransformErrorAbortsExtraction(t *testing.T) {
	errRejected := errors.New("rejected")
	rejectPear := func(r model.Record) (model.Record, error) {
		if name, _ := r.Get("name"); name == "pear" {
			return r, errRejected
		}
		return r, nil
	}

	tbl, err := New().WithTransform(rejectPear).ParseHTML(fruitTable)
	assert.Nil(t, tbl)
	assert.ErrorIs(t, err, errRejected)

	var terr *TransformError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, 1, terr.Row)
}

func TestParseHTML_Deterministic(t *testing.T) {
	p := Must(New().IncludeSection(SectionHeader))

	a, err := p.ParseHTML(fruitTable)
	require.NoError(t, err)
	b, err := p.ParseHTML(fruitTable)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestParseHTML_ConcurrentUse(t *testing.T) {
	p := Must(New().IncludeSection(SectionHeader))
	want, err := p.ParseHTML(fruitTable)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*model.Table, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.ParseHTML(fruitTable)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.True(t, want.Equal(got))
	}
}

func TestParseBytes_Charset(t *testing.T) {
	src := []byte(`<meta charset="iso-8859-1"><table><tr><td>caf` + "\xe9" + `</td></tr></table>`)

	tbl, err := New().ParseBytes(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"café"}}, values(tbl))
}

func TestParseReader(t *testing.T) {
	tbl, err := New().ParseReader(context.Background(), strings.NewReader(fruitTable))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount())

	_, err = New().ParseReader(context.Background(), iotest.ErrReader(errors.New("disk on fire")))
	assert.ErrorIs(t, err, ErrStream)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().ParseReader(ctx, strings.NewReader(fruitTable))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "fruit.html")
	require.NoError(t, os.WriteFile(good, []byte(fruitTable), 0o600))

	tbl, err := Must(New().TableID("fruit")).ParseFile(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, tbl.Header())

	_, err = New().ParseFile(context.Background(), filepath.Join(dir, "missing.html"))
	assert.ErrorIs(t, err, ErrStream)

	pdf := filepath.Join(dir, "report.html")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7\n%%EOF"), 0o600))
	_, err = New().ParseFile(context.Background(), pdf)
	assert.ErrorIs(t, err, ErrStream)
}

func TestParseNode_DoesNotModifyTree(t *testing.T) {
	root, err := html.Parse(strings.NewReader(fruitTable))
	require.NoError(t, err)

	var before bytes.Buffer
	require.NoError(t, html.Render(&before, root))

	tbl, err := Must(New().IncludeSection(SectionHeader)).ParseNode(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, tbl.Header())
	assert.Equal(t, 3, tbl.RowCount())

	var after bytes.Buffer
	require.NoError(t, html.Render(&after, root))
	assert.Equal(t, before.String(), after.String())
}

func TestParseNode_TableElement(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<table><tr><td>only</td></tr></table><table><tr><td>other</td></tr></table>`))
	require.NoError(t, err)

	var second *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			second = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	require.NotNil(t, second)

	tbl, err := New().ParseNode(second)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"other"}}, values(tbl))

	_, err = New().ParseNode(nil)
	assert.ErrorIs(t, err, ErrLocator)
}

func TestParseHTML_NoHeaderContainer(t *testing.T) {
	src := `<table><tbody><tr><td>1</td><td>2</td></tr></tbody></table>`

	tbl, err := New().ParseHTML(src)
	require.NoError(t, err)

	assert.Empty(t, tbl.Header())
	assert.Equal(t, [][]string{{"1", "2"}}, values(tbl))
	r, _ := tbl.Record(0)
	assert.False(t, r.IsKeyed())
}
