package slidepdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is a raster image format.
type Format string

// Supported image formats. WebP can be read but not written.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
)

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tif"
	}
	return "." + string(f)
}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: image format %q", ErrUnsupportedFormat, name)
}

// formatOf returns the image format implied by a file name.
func formatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// TranscodeOptions controls image encoding.
type TranscodeOptions struct {
	// Quality applies to JPEG output, 1 to 100. Defaults to 92.
	Quality int
	// Background is painted under transparent pixels when the target
	// format has no alpha channel. Defaults to white.
	Background color.Color
}

func (o TranscodeOptions) quality() int {
	if o.Quality <= 0 || o.Quality > 100 {
		return 92
	}
	return o.Quality
}

// Transcode decodes data in any supported format and re-encodes it as to.
func Transcode(data []byte, to Format, opts TranscodeOptions) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("slidepdf: decoding image: %w", err)
	}
	return encodeImage(img, to, opts)
}

// DecodeConfig reports the format and pixel size of an encoded image
// without decoding it fully.
func DecodeConfig(data []byte) (Format, int, int, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("slidepdf: decoding image: %w", err)
	}
	f, err := ParseFormat(name)
	if err != nil {
		return "", 0, 0, err
	}
	return f, cfg.Width, cfg.Height, nil
}

func encodeImage(img image.Image, to Format, opts TranscodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch to {
	case PNG:
		err = png.Encode(&buf, img)
	case JPEG:
		err = jpeg.Encode(&buf, flatten(img, opts.Background), &jpeg.Options{Quality: opts.quality()})
	case GIF:
		err = gif.Encode(&buf, img, nil)
	case BMP:
		err = bmp.Encode(&buf, img)
	case TIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, to)
	}
	if err != nil {
		return nil, fmt.Errorf("slidepdf: encoding %s: %w", to, err)
	}
	return buf.Bytes(), nil
}

// flatten composites img over an opaque background.
func flatten(img image.Image, bg color.Color) *image.RGBA {
	if bg == nil {
		bg = color.White
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// normalize returns an 8-bit, non-interlaced encoding of data that PDF
// writers can embed directly.
func normalize(data []byte, lossless bool, quality int) ([]byte, Format, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("slidepdf: decoding image: %w", err)
	}
	if !lossless {
		out, err := encodeImage(img, JPEG, TranscodeOptions{Quality: quality})
		return out, JPEG, err
	}
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	out, err := encodeImage(nrgba, PNG, TranscodeOptions{})
	return out, PNG, err
}
