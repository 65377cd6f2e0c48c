package slidepdf

import (
	"fmt"
	"strings"
)

// Overrides is the table of presentation-mode rules neutralized when a slide
// is rendered on its own. Decks differ in how they decorate and navigate
// between slides, so the table is data rather than code.
type Overrides struct {
	// BodyStyle is the declaration block applied to <body>.
	BodyStyle string

	// HiddenClasses lists classes of decorative or navigational elements
	// that are never rendered.
	HiddenClasses []string

	// VideoPlaceholder is the text shown in place of <video> elements.
	VideoPlaceholder string
}

// DefaultOverrides returns the override table used when none is configured.
func DefaultOverrides() Overrides {
	return Overrides{
		BodyStyle:        "margin: 0; padding: 20px; font-family: Arial, sans-serif;",
		HiddenClasses:    []string{"stars", "little-prince", "navigation", "slide-counter", "school-logo"},
		VideoPlaceholder: "Video",
	}
}

// CSS returns the override stylesheet for slides marked with markerClass.
// The output depends only on the table and markerClass.
func (o Overrides) CSS(markerClass string) string {
	var b strings.Builder
	if o.BodyStyle != "" {
		b.WriteString("body { ")
		b.WriteString(o.BodyStyle)
		b.WriteString(" }\n")
	}
	b.WriteString(".")
	b.WriteString(cssIdent(markerClass))
	b.WriteString(" { display: block !important; width: 100%; max-width: none; height: auto; }\n")

	if len(o.HiddenClasses) > 0 {
		sel := make([]string, 0, len(o.HiddenClasses))
		for _, c := range o.HiddenClasses {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			sel = append(sel, "."+cssIdent(c))
		}
		if len(sel) > 0 {
			b.WriteString(strings.Join(sel, ", "))
			b.WriteString(" { display: none !important; }\n")
		}
	}

	b.WriteString("video { background: #333; display: flex; align-items: center; justify-content: center; }\n")
	b.WriteString("video::before { content: ")
	b.WriteString(cssString(o.VideoPlaceholder))
	b.WriteString("; color: white; font-size: 24px; }\n")
	return b.String()
}

// cssString quotes s as a CSS string literal that is also safe inside a
// <style> element.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '<':
			b.WriteString(`\3c `)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// cssIdent escapes s for use as a class selector. Markup-significant
// characters and controls are written as hex escapes so the result is also
// safe inside a <style> element.
func cssIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r >= 0x80:
			b.WriteRune(r)
		case r == '-':
			if i == 0 && len(s) == 1 {
				b.WriteString(`\-`)
			} else {
				b.WriteRune(r)
			}
		case r >= '0' && r <= '9':
			if i == 0 || (i == 1 && s[0] == '-') {
				fmt.Fprintf(&b, `\%x `, r)
			} else {
				b.WriteRune(r)
			}
		case r < 0x20, r == 0x7f, r == '<', r == '>', r == '&':
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
