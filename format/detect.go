// Package format sniffs input so that files which are clearly not markup are
// rejected before parsing.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a detected input format.
type Format int

const (
	// Unknown indicates text without a recognisable signature. HTML
	// fragments such as a bare <table> fall in this category.
	Unknown Format = iota
	// HTML indicates an HTML document.
	HTML
	// XHTML indicates an XML document with an <html> root.
	XHTML
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// XLSX indicates a Microsoft Excel (.xlsx) document.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) document.
	PPTX
	// Archive indicates any other ZIP archive.
	Archive
	// Binary indicates content containing NUL bytes.
	Binary
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case XHTML:
		return "XHTML"
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case Archive:
		return "ZIP"
	case Binary:
		return "binary"
	default:
		return "Unknown"
	}
}

// IsMarkup reports whether content of this format can be handed to the HTML
// parser. Unknown counts as markup.
func (f Format) IsMarkup() bool {
	switch f {
	case Unknown, HTML, XHTML:
		return true
	}
	return false
}

// Detect determines the format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return HTML
	case ".xhtml", ".xht":
		return XHTML
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".zip":
		return Archive
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine the format. ZIP
// archives report Archive; use DetectFromReader to tell office formats apart.
func DetectFromMagic(data []byte) Format {
	if len(data) > 512 {
		data = data[:512]
	}
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return Archive
	case bytes.IndexByte(data, 0) >= 0:
		return Binary
	}
	return detectMarkup(data)
}

// detectMarkup checks if the data looks like an HTML or XHTML document.
func detectMarkup(data []byte) Format {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	upper := strings.ToUpper(string(data))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"), strings.HasPrefix(upper, "<HTML"):
		return HTML
	case strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML"):
		return XHTML
	}
	return Unknown
}

// DetectFromReader inspects the content to determine the format, opening
// ZIP archives to tell DOCX, XLSX, PPTX and ODT apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	f := DetectFromMagic(magic)
	if f != Archive {
		return f, nil
	}
	return detectZIPFormat(r, size)
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX, XLSX, PPTX, ODT, etc.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := rc.Read(data)
		rc.Close()
		if strings.Contains(string(data[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}

	return Archive, nil
}
