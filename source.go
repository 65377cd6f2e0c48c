package slidepdf

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Kind classifies an input file by what the converter does with it.
type Kind int

const (
	KindUnsupported Kind = iota
	KindHTML
	KindImage
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	}
	return "unsupported"
}

// DetectKind classifies path by its extension.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".html", ".htm":
		return KindHTML
	case ".txt", ".text":
		return KindText
	}
	if _, err := formatOf(path); err == nil {
		return KindImage
	}
	return KindUnsupported
}

// LoadSource reads an HTML deck from disk and returns it as UTF-8 text.
// Only .html and .htm files are accepted.
func LoadSource(path string) (string, error) {
	if DetectKind(path) != KindHTML {
		return "", fmt.Errorf("%w: %s is not an HTML file", ErrUnsupportedFormat, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("slidepdf: %w", err)
	}
	return DecodeSource(data)
}

// DecodeSource converts raw HTML bytes to UTF-8, honoring a byte order mark
// or a <meta charset> declaration. Undeclared input is read as UTF-8 when
// valid and as windows-1252 otherwise, as browsers do.
func DecodeSource(data []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return "", fmt.Errorf("slidepdf: detecting charset: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("slidepdf: decoding source: %w", err)
	}
	return string(out), nil
}

// fileURL returns the file:// URL of an absolute path.
func fileURL(abs string) string {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// withBaseURL makes relative URLs in doc resolve against base by inserting a
// <base> element at the start of <head>. A document that already declares a
// base is returned unchanged.
func withBaseURL(doc, base string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return doc
	}
	if findFirst(root, atom.Base) != nil {
		return doc
	}
	head := findFirst(root, atom.Head)
	if head == nil {
		return doc
	}
	head.InsertBefore(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Base,
		Data:     "base",
		Attr:     []html.Attribute{{Key: "href", Val: base}},
	}, head.FirstChild)
	return render(root)
}
