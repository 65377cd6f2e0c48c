package slidepdf

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default slide conventions.
const (
	DefaultMarkerClass = "slide"
	DefaultActiveClass = "active"
)

// Slide is one page of a deck together with a self-contained HTML document
// that renders it on its own.
type Slide struct {
	// Index is the zero-based position of the slide in document order.
	Index int
	// Title is the text of the slide's first h1, else its first h2,
	// else "Slide N".
	Title string
	// Standalone is a complete HTML document containing the slide, every
	// stylesheet of the deck and the override rules.
	Standalone string
}

// SlideExtractor splits a multi-slide HTML deck into standalone documents.
//
// The zero value is ready to use and recognizes elements with class "slide".
// A SlideExtractor holds no state between calls and may be shared.
type SlideExtractor struct {
	// MarkerClass identifies slide elements. Defaults to "slide".
	MarkerClass string

	// ActiveClass is added to every extracted slide so that deck styles
	// which hide inactive slides still show it. Defaults to "active".
	ActiveClass string

	// Overrides replaces [DefaultOverrides] when non-nil.
	Overrides *Overrides
}

// Extract splits source with the default conventions.
// See [SlideExtractor.Extract].
func Extract(source string) []Slide {
	var e SlideExtractor
	return e.Extract(source)
}

// Extract parses source permissively and returns one Slide per marker
// element, in document order. A deck without markers yields an empty,
// non-nil slice. Extract never fails: malformed markup is repaired the way
// a browser would repair it.
func (e *SlideExtractor) Extract(source string) []Slide {
	marker, active, overrides := e.settings()

	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		// Parse only fails on reader errors, which a strings.Reader never returns.
		return []Slide{}
	}

	styles := collectStyles(doc)
	css := overrides.CSS(marker)

	var markers []*html.Node
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, marker) {
			markers = append(markers, n)
		}
	})

	slides := make([]Slide, 0, len(markers))
	for i, n := range markers {
		slides = append(slides, Slide{
			Index:      i,
			Title:      slideTitle(n, i),
			Standalone: standalone(n, i, styles, css, active),
		})
	}
	return slides
}

func (e *SlideExtractor) settings() (marker, active string, overrides Overrides) {
	marker, active, overrides = DefaultMarkerClass, DefaultActiveClass, DefaultOverrides()
	if e == nil {
		return
	}
	if e.MarkerClass != "" {
		marker = e.MarkerClass
	}
	if e.ActiveClass != "" {
		active = e.ActiveClass
	}
	if e.Overrides != nil {
		overrides = *e.Overrides
	}
	return
}

// slideTitle uses the first h1, or the first h2 when there is no h1. A chosen
// heading without text yields the positional title.
func slideTitle(n *html.Node, index int) string {
	h := findFirst(n, atom.H1)
	if h == nil {
		h = findFirst(n, atom.H2)
	}
	if h != nil {
		if t := strings.TrimSpace(textContent(h)); t != "" {
			return t
		}
	}
	return "Slide " + strconv.Itoa(index+1)
}

// standalone builds the self-contained document for one slide.
func standalone(n *html.Node, index int, styles []string, css, active string) string {
	clone := cloneNode(n)
	addClass(clone, active)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="UTF-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	b.WriteString("<title>Slide " + strconv.Itoa(index+1) + "</title>\n")
	for _, s := range styles {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString("<style>\n")
	b.WriteString(css)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(render(clone))
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// collectStyles renders every <style> and <link rel="stylesheet"> element of
// doc in document order.
func collectStyles(doc *html.Node) []string {
	var out []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Style:
			out = append(out, render(n))
		case atom.Link:
			if hasToken(attr(n, "rel"), "stylesheet") {
				out = append(out, render(n))
			}
		}
	})
	return out
}

func render(n *html.Node) string {
	var b strings.Builder
	// Writes to a strings.Builder cannot fail and parsed trees contain no
	// ErrorNodes, so Render has nothing to report.
	_ = html.Render(&b, n)
	return b.String()
}

// walk visits n and its descendants in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// cloneNode deep-copies n. The copy has no parent or siblings.
func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// classList splits a class attribute on ASCII whitespace only.
func classList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return true
		}
		return false
	})
}

// hasToken reports whether the space-separated list contains tok,
// ignoring ASCII case as HTML does for rel values.
func hasToken(list, tok string) bool {
	for _, t := range classList(list) {
		if strings.EqualFold(t, tok) {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			if strings.TrimSpace(a.Val) == "" {
				n.Attr[i].Val = class
			} else {
				n.Attr[i].Val = a.Val + " " + class
			}
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
