package slidepdf

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const sampleDeck = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="deck.css">
  <style>.slide { display: none; } .slide.active { display: block; }</style>
</head>
<body>
  <div class="stars"></div>
  <section class="slide active"><h1> Intro </h1><p>Welcome</p></section>
  <section class="slide"><h2>Details</h2><video src="demo.mp4"></video></section>
  <section class="slide"><p>Closing words</p></section>
  <nav class="navigation"><button>Next</button></nav>
  <style>.slide p { color: red; }</style>
</body>
</html>`

func TestExtract_NoMarkers(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"<p>plain page</p>",
		`<div class="slides"><div class="slideshow">not a slide</div></div>`,
		"<<<>>> not even markup",
	}
	for _, in := range inputs {
		got := Extract(in)
		if got == nil {
			t.Errorf("Extract(%q) = nil, want empty slice", in)
		}
		if len(got) != 0 {
			t.Errorf("Extract(%q) returned %d slides, want 0", in, len(got))
		}
	}
}

func TestExtract_CountAndOrder(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString(`<div class="slide"><p>body</p></div>`)
	}
	slides := Extract(b.String())
	if len(slides) != 7 {
		t.Fatalf("got %d slides, want 7", len(slides))
	}
	for i, s := range slides {
		if s.Index != i {
			t.Errorf("slides[%d].Index = %d", i, s.Index)
		}
	}
}

func TestExtract_TitleScenario(t *testing.T) {
	slides := Extract(sampleDeck)
	want := []string{"Intro", "Details", "Slide 3"}
	if len(slides) != len(want) {
		t.Fatalf("got %d slides, want %d", len(slides), len(want))
	}
	for i, w := range want {
		if slides[i].Title != w {
			t.Errorf("slides[%d].Title = %q, want %q", i, slides[i].Title, w)
		}
	}
}

func TestSlideTitle_Priority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"h1 wins over earlier h2", `<div class="slide"><h2>Second</h2><h1>First</h1></div>`, "First"},
		{"only h2", `<div class="slide"><h3>x</h3><h2>  Sub  </h2></div>`, "Sub"},
		{"nested markup", `<div class="slide"><h1>Intro <em>now</em></h1></div>`, "Intro now"},
		{"nested heading", `<div class="slide"><div><div><h1>Deep</h1></div></div></div>`, "Deep"},
		{"empty h1 does not fall through to h2", `<div class="slide"><h1>  </h1><h2>Sub</h2></div>`, "Slide 1"},
		{"empty h2 only", `<div class="slide"><h2></h2></div>`, "Slide 1"},
		{"neither", `<div class="slide"><p>text</p></div>`, "Slide 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slides := Extract(tt.html)
			if len(slides) != 1 {
				t.Fatalf("got %d slides, want 1", len(slides))
			}
			if slides[0].Title != tt.want {
				t.Errorf("Title = %q, want %q", slides[0].Title, tt.want)
			}
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	a := Extract(sampleDeck)
	b := Extract(sampleDeck)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two extractions of the same deck differ")
	}
}

func TestExtract_MalformedMarkup(t *testing.T) {
	src := `<div class="slide"><h1>Open</h1><p>unclosed<div class="slide"><h2>Inner</h2>`
	slides := Extract(src)
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	if slides[0].Title != "Open" {
		t.Errorf("outer title = %q, want Open", slides[0].Title)
	}
	if slides[1].Title != "Inner" {
		t.Errorf("inner title = %q, want Inner", slides[1].Title)
	}
}

func TestStandalone_SharedStylesheet(t *testing.T) {
	slides := Extract(sampleDeck)
	link := `<link rel="stylesheet" href="deck.css"/>`
	for _, s := range slides {
		if strings.Count(s.Standalone, link) != 1 {
			t.Errorf("slide %d: want exactly one %s, got document:\n%s", s.Index, link, s.Standalone)
		}
	}
}

func TestStandalone_StylesInDocumentOrder(t *testing.T) {
	doc := Extract(sampleDeck)[0].Standalone
	order := []string{
		`href="deck.css"`,
		`.slide.active { display: block; }`,
		`.slide p { color: red; }`,
		`.navigation`,
	}
	last := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		if i < 0 {
			t.Fatalf("standalone document is missing %q", s)
		}
		if i <= last {
			t.Errorf("%q appears out of order", s)
		}
		last = i
	}
}

func TestStandalone_Shell(t *testing.T) {
	doc := Extract(sampleDeck)[1].Standalone
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<meta charset="UTF-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		"<title>Slide 2</title>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestStandalone_OverrideBlock(t *testing.T) {
	doc := Extract(sampleDeck)[1].Standalone
	for _, want := range []string{
		".stars, .little-prince, .navigation, .slide-counter, .school-logo { display: none !important; }",
		".slide { display: block !important; width: 100%;",
		`video::before { content: "Video";`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("override block is missing %q", want)
		}
	}
}

func TestStandalone_ContainsOnlyItsSlide(t *testing.T) {
	slides := Extract(sampleDeck)
	doc := slides[1].Standalone
	if !strings.Contains(doc, `<video src="demo.mp4"></video>`) {
		t.Error("slide content was not copied")
	}
	if strings.Contains(doc, "Welcome") || strings.Contains(doc, "Closing words") {
		t.Error("standalone document leaks other slides")
	}
	if strings.Contains(doc, "<button>") {
		t.Error("standalone document copies navigation markup")
	}
}

func TestStandalone_ActiveClass(t *testing.T) {
	slides := Extract(sampleDeck)
	if !strings.Contains(slides[0].Standalone, `class="slide active"`) {
		t.Errorf("already-active slide changed: %s", slides[0].Standalone)
	}
	if strings.Contains(slides[0].Standalone, "active active") {
		t.Error("active class duplicated")
	}
	if !strings.Contains(slides[2].Standalone, `<section class="slide active">`) {
		t.Errorf("inactive slide was not activated: %s", slides[2].Standalone)
	}
}

func TestStandalone_Reparses(t *testing.T) {
	for _, s := range Extract(sampleDeck) {
		doc, err := html.Parse(strings.NewReader(s.Standalone))
		if err != nil {
			t.Fatalf("slide %d: %v", s.Index, err)
		}
		if findFirst(doc, atom.Body) == nil {
			t.Fatalf("slide %d: standalone has no body", s.Index)
		}
		again := Extract(s.Standalone)
		if len(again) != 1 {
			t.Fatalf("slide %d: standalone holds %d slides, want 1", s.Index, len(again))
		}
		if again[0].Title != s.Title {
			t.Errorf("slide %d: reparsed title %q, want %q", s.Index, again[0].Title, s.Title)
		}
	}
}

func TestCloneNode_Independent(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(sampleDeck))
	if err != nil {
		t.Fatal(err)
	}
	section := findFirst(doc, atom.Section)
	before := render(section)
	clone := cloneNode(section)
	if render(clone) != before {
		t.Fatalf("clone renders differently:\n%s\n%s", render(clone), before)
	}
	addClass(clone, "marker")
	clone.FirstChild.Data = "changed"
	if render(section) != before {
		t.Fatal("cloneNode shares state with its source")
	}
	if clone.Parent != nil || clone.NextSibling != nil {
		t.Error("clone is still attached to a tree")
	}
}

func TestSlideExtractor_Custom(t *testing.T) {
	e := &SlideExtractor{
		MarkerClass: "page",
		ActiveClass: "current",
		Overrides: &Overrides{
			HiddenClasses:    []string{"logo"},
			VideoPlaceholder: `Clip "one"`,
		},
	}
	slides := e.Extract(`<div class="page"><h1>A</h1></div><div class="slide"><h1>B</h1></div>`)
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	doc := slides[0].Standalone
	for _, want := range []string{
		`class="page current"`,
		".page { display: block !important;",
		".logo { display: none !important; }",
		`content: "Clip \"one\"";`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q in:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, ".navigation") {
		t.Error("custom table still hides default classes")
	}
	if strings.Contains(doc, "body {") {
		t.Error("empty BodyStyle should not emit a body rule")
	}
}

func TestHasToken(t *testing.T) {
	if !hasToken("alternate StyleSheet", "stylesheet") {
		t.Error("rel token match should ignore case")
	}
	if hasToken("preload", "stylesheet") {
		t.Error("preload is not a stylesheet")
	}
}

func TestHasClass_ASCIIWhitespace(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{"slide", true},
		{"intro\tslide\nwide", true},
		{"a\fslide\r", true},
		{"slide\u00a0x", false},
		{"slides", false},
	}
	for _, tt := range tests {
		n := &html.Node{Type: html.ElementNode, Data: "div", Attr: []html.Attribute{{Key: "class", Val: tt.class}}}
		if got := hasClass(n, "slide"); got != tt.want {
			t.Errorf("hasClass(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
	if n := len(Extract("<div class=\"slide\u00a0x\"><h1>A</h1></div>")); n != 0 {
		t.Errorf("non-breaking space split the class list: %d slides", n)
	}
}

func TestCSSIdent(t *testing.T) {
	tests := []struct{ in, want string }{
		{"slide-counter", "slide-counter"},
		{"a.b", `a\.b`},
		{"2col", `\32 col`},
		{"-1x", `-\31 x`},
		{"x</style>", `x\3c \/style\3e `},
		{"été", "été"},
	}
	for _, tt := range tests {
		if got := cssIdent(tt.in); got != tt.want {
			t.Errorf("cssIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestOverrides_CSSEscapesClasses(t *testing.T) {
	o := Overrides{HiddenClasses: []string{"a.b", "x</style><script>"}}
	css := o.CSS("my slide")
	if strings.Contains(css, "</") {
		t.Errorf("override block can close its <style> element:\n%s", css)
	}
	for _, want := range []string{`.my\ slide {`, `.a\.b, .x\3c `} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q:\n%s", want, css)
		}
	}
}

func TestCSSString(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Video", `"Video"`},
		{`a"b`, `"a\"b"`},
		{`back\slash`, `"back\\slash"`},
		{"</style>", `"\3c /style>"`},
	}
	for _, tt := range tests {
		if got := cssString(tt.in); got != tt.want {
			t.Errorf("cssString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
