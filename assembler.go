package slidepdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

// Text layout for plain-text pages, in points and millimetres.
const (
	textFont       = "Helvetica"
	textFontSize   = 11.0
	textLineHeight = 5.0
)

// placement is where a bitmap lands on a page, in millimetres.
type placement struct {
	X, Y, W, H float64
	// ClipH is the visible height. It is smaller than H when the scaled
	// image runs past the bottom margin.
	ClipH float64
}

func (p placement) clipped() bool {
	return p.ClipH < p.H
}

// fit scales an imgW x imgH bitmap to the printable width of a pageW x pageH
// page with margin on every side, keeping its aspect ratio.
func fit(imgW, imgH, pageW, pageH, margin float64) placement {
	w := pageW - 2*margin
	h := imgH * w / imgW
	avail := pageH - 2*margin
	clip := h
	if clip > avail {
		clip = avail
	}
	return placement{X: margin, Y: margin, W: w, H: h, ClipH: clip}
}

// Assembler composes bitmaps and text into a paginated PDF.
//
// The document starts with one open page. The first piece of content goes
// on that page and every later piece starts a new one.
// An Assembler is not safe for concurrent use.
type Assembler struct {
	cfg      PageConfig
	pdf      *gofpdf.Fpdf
	fresh    bool
	images   int
	finished bool
}

// NewAssembler creates an empty document. If pg is nil, [DefaultPageConfig]
// values are used.
func NewAssembler(pg *PageConfig) (*Assembler, error) {
	if err := pg.Validate(); err != nil {
		return nil, err
	}
	cfg := pg.resolved()

	orientation := "P"
	if cfg.Orientation == Landscape {
		orientation = "L"
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: cfg.Size.Width, Ht: cfg.Size.Height},
	})
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	pdf.SetTitle(cfg.Title, true)
	pdf.SetAuthor(cfg.Author, true)
	pdf.SetSubject(cfg.Subject, true)
	pdf.SetCreator(cfg.Creator, true)
	if !cfg.CreationDate.IsZero() {
		pdf.SetCreationDate(cfg.CreationDate)
	}
	pdf.AddPage()

	a := &Assembler{cfg: cfg, pdf: pdf, fresh: true}
	if err := a.err("creating document"); err != nil {
		return nil, err
	}
	return a, nil
}

// AddImage places an image on its own page. JPEG data is embedded as is;
// other formats are converted to lossless PNG first.
func (a *Assembler) AddImage(data []byte) error {
	if a.finished {
		return ErrFinished
	}
	format, _, _, err := DecodeConfig(data)
	if err != nil {
		return err
	}
	if format != JPEG {
		data, format, err = normalize(data, true, 0)
		if err != nil {
			return err
		}
	}
	return a.place(data, format)
}

// AddBitmap places a rendered page. The bitmap is re-encoded according to
// the Lossless and JPEGQuality settings of the page configuration.
func (a *Assembler) AddBitmap(data []byte) error {
	if a.finished {
		return ErrFinished
	}
	data, format, err := normalize(data, a.cfg.Lossless, a.cfg.JPEGQuality)
	if err != nil {
		return err
	}
	return a.place(data, format)
}

func (a *Assembler) place(data []byte, format Format) error {
	_, w, h, err := DecodeConfig(data)
	if err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return fmt.Errorf("slidepdf: image has no pixels")
	}

	name := fmt.Sprintf("img%d", a.images)
	a.images++
	opts := gofpdf.ImageOptions{ImageType: string(format)}
	a.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := a.err("embedding image"); err != nil {
		return err
	}

	a.nextPage()
	pw, ph := a.pdf.GetPageSize()
	p := fit(float64(w), float64(h), pw, ph, a.cfg.Margin)
	if p.clipped() {
		a.pdf.ClipRect(p.X, p.Y, p.W, p.ClipH, false)
		a.pdf.ImageOptions(name, p.X, p.Y, p.W, p.H, false, opts, 0, "")
		a.pdf.ClipEnd()
	} else {
		a.pdf.ImageOptions(name, p.X, p.Y, p.W, p.H, false, opts, 0, "")
	}
	return a.err("placing image")
}

// AddText starts a new page and writes text wrapped to the printable width,
// continuing onto further pages as needed. Characters outside
// Windows-1252 are replaced with '?'.
func (a *Assembler) AddText(text string) error {
	if a.finished {
		return ErrFinished
	}
	a.nextPage()
	a.pdf.SetFont(textFont, "", textFontSize)
	a.pdf.SetXY(a.cfg.Margin, a.cfg.Margin)
	a.pdf.MultiCell(0, textLineHeight, toWinAnsi(text), "", "L", false)
	return a.err("writing text")
}

// PageCount returns the number of pages that hold content.
func (a *Assembler) PageCount() int {
	if a.fresh {
		return a.pdf.PageCount() - 1
	}
	return a.pdf.PageCount()
}

// Finish closes the document and returns it. The Assembler cannot be used
// afterwards.
func (a *Assembler) Finish() (*Result, error) {
	if a.finished {
		return nil, ErrFinished
	}
	if a.fresh {
		return nil, ErrEmptyDocument
	}
	a.finished = true

	var buf bytes.Buffer
	if err := a.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("slidepdf: writing pdf: %w", err)
	}
	return &Result{data: buf.Bytes()}, nil
}

func (a *Assembler) nextPage() {
	if a.fresh {
		a.fresh = false
		return
	}
	a.pdf.AddPage()
}

// err reports the sticky gofpdf error, if any.
func (a *Assembler) err(step string) error {
	if a.pdf.Ok() {
		return nil
	}
	return fmt.Errorf("slidepdf: %s: %w", step, a.pdf.Error())
}

// toWinAnsi converts UTF-8 text to the Windows-1252 bytes expected by the
// PDF core fonts.
func toWinAnsi(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteByte('\n')
			continue
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}
