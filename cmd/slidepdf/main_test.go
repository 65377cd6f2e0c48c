package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	slidepdf "github.com/porticus-lab/slidepdf"
)

const deck = `<!DOCTYPE html>
<html><head><style>.slide{display:none}</style></head>
<body>
<div class="slide"><h1>Intro</h1></div>
<div class="slide"><h2>Details</h2></div>
<div class="slide"><p>no heading</p></div>
</body></html>`

// execute runs the CLI with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SLIDEPDF_CONFIG", "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: 80, B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSlides_List(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.html", []byte(deck))

	out, err := execute(t, "slides", path)
	if err != nil {
		t.Fatalf("slides: %v", err)
	}
	for _, want := range []string{"  1  Intro", "  2  Details", "  3  Slide 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlides_RangeAndJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.html", []byte(deck))

	out, err := execute(t, "slides", "--json", "-p", "2-3", path)
	if err != nil {
		t.Fatalf("slides: %v", err)
	}
	var entries []struct {
		Slide int    `json:"slide"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(entries) != 2 || entries[0].Slide != 2 || entries[0].Title != "Details" || entries[1].Slide != 3 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSlides_Dump(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deck.html", []byte(deck))
	dump := filepath.Join(dir, "dump")

	if _, err := execute(t, "slides", "--dump", dump, path); err != nil {
		t.Fatalf("slides: %v", err)
	}
	for i, title := range []string{"Intro", "Details"} {
		b, err := os.ReadFile(filepath.Join(dump, []string{"slide-001.html", "slide-002.html"}[i]))
		if err != nil {
			t.Fatalf("read dump: %v", err)
		}
		if !strings.Contains(string(b), title) {
			t.Errorf("dump %d does not contain %q", i+1, title)
		}
		if !strings.HasPrefix(string(b), "<!DOCTYPE html>") {
			t.Errorf("dump %d is not a standalone document", i+1)
		}
	}
}

func TestSlides_NoSlides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plain.html", []byte("<p>nothing here</p>"))
	if _, err := execute(t, "slides", path); err == nil || !strings.Contains(err.Error(), "no slides") {
		t.Errorf("err = %v, want no slides", err)
	}
}

func TestConvert_ImageAndText(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "photo.png", pngBytes(t, 40, 30))
	txt := writeFile(t, dir, "notes.txt", []byte("first line\nsecond line\n"))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "convert", "-o", outDir, img, txt)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, name := range []string{"photo.pdf", "notes.pdf"} {
		p := filepath.Join(outDir, name)
		if !strings.Contains(out, p) {
			t.Errorf("output does not list %s:\n%s", p, out)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(b, []byte("%PDF-")) {
			t.Errorf("%s is not a PDF", name)
		}
	}
}

func TestConvert_Merge(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "photo.png", pngBytes(t, 40, 30))
	txt := writeFile(t, dir, "notes.txt", []byte("hello"))
	merged := filepath.Join(dir, "all.pdf")

	if _, err := execute(t, "convert", "--merge", merged, img, txt); err != nil {
		t.Fatalf("convert: %v", err)
	}
	b, err := os.ReadFile(merged)
	if err != nil {
		t.Fatalf("read merged: %v", err)
	}
	n, err := slidepdf.NewResult(b).PageCount()
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 2 {
		t.Errorf("merged pages = %d, want 2", n)
	}
}

func TestConvert_SameStemKeepsBothOutputs(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "a.png", pngBytes(t, 40, 30))
	txt := writeFile(t, dir, "a.txt", []byte("first\nsecond"))

	out, err := execute(t, "convert", img, txt)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	first, second := filepath.Join(dir, "a.pdf"), filepath.Join(dir, "a-2.pdf")
	if want := first + "\n" + second + "\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	for _, p := range []string{first, second} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}

func TestConvert_SameNameInOutDir(t *testing.T) {
	dir := t.TempDir()
	one := writeFile(t, mkdir(t, dir, "one"), "notes.txt", []byte("one"))
	two := writeFile(t, mkdir(t, dir, "two"), "notes.txt", []byte("two"))
	outDir := filepath.Join(dir, "out")

	if _, err := execute(t, "convert", "-o", outDir, one, two); err != nil {
		t.Fatalf("convert: %v", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("out dir has %d files, want 2", len(entries))
	}
}

func TestConvert_MergeIntoDirectoryUsesTitle(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", []byte("hello"))
	outDir := mkdir(t, dir, "merged")

	if _, err := execute(t, "convert", "--title", "Quarterly Review", "--merge", outDir, txt); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "quarterly_review.pdf")); err != nil {
		t.Errorf("merged file not named after the title: %v", err)
	}
}

func TestClaim(t *testing.T) {
	taken := map[string]bool{}
	for _, want := range []string{"x/a.pdf", "x/a-2.pdf", "x/a-3.pdf"} {
		if got := claim(taken, "x/a.pdf"); got != want {
			t.Errorf("claim = %q, want %q", got, want)
		}
	}
	if got := claim(taken, "x/b.pdf"); got != "x/b.pdf" {
		t.Errorf("claim(b) = %q", got)
	}
}

func TestConvert_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "report.docx", []byte("PK"))
	txt := writeFile(t, dir, "notes.txt", []byte("hello"))

	_, err := execute(t, "convert", bad, txt)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("err = %v, want partial failure", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.pdf")); err != nil {
		t.Errorf("text file was not converted: %v", err)
	}
}

func TestConvert_InvalidPageFlags(t *testing.T) {
	txt := writeFile(t, t.TempDir(), "notes.txt", []byte("hello"))
	if _, err := execute(t, "convert", "--format", "b5", txt); err == nil {
		t.Error("expected error for unknown page format")
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", []byte("hello"))
	if _, err := execute(t, "convert", txt); err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, err := execute(t, "info", filepath.Join(dir, "notes.pdf"))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Pages:   1", "Page 1: 595 x 842 pt"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", []byte("hello"))
	cfg := writeFile(t, dir, "slidepdf.yaml", []byte("page:\n  format: letter\n"))
	pdf := filepath.Join(dir, "notes.pdf")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"file applies", []string{"convert", "--config", cfg, txt}, "612 x 792 pt"},
		{"flag wins", []string{"convert", "--config", cfg, "--format", "a5", txt}, "420 x 595 pt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err != nil {
				t.Fatalf("convert: %v", err)
			}
			out, err := execute(t, "info", pdf)
			if err != nil {
				t.Fatalf("info: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("info output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestTranscode(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "photo.png", pngBytes(t, 40, 30))

	out, err := execute(t, "transcode", "--to", "bmp", img)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}
	bmpPath := filepath.Join(dir, "photo.bmp")
	if !strings.Contains(out, bmpPath) {
		t.Errorf("output does not list %s:\n%s", bmpPath, out)
	}
	b, err := os.ReadFile(bmpPath)
	if err != nil {
		t.Fatalf("read bmp: %v", err)
	}
	format, w, h, err := slidepdf.DecodeConfig(b)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != slidepdf.BMP || w != 40 || h != 30 {
		t.Errorf("got %s %dx%d, want bmp 40x30", format, w, h)
	}
}

func TestTranscode_RefusesOverwrite(t *testing.T) {
	img := writeFile(t, t.TempDir(), "photo.png", pngBytes(t, 4, 4))
	if _, err := execute(t, "transcode", "--to", "png", img); err == nil {
		t.Error("expected error when output equals input")
	}
}
