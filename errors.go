package slidepdf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Renderer].
	ErrClosed = errors.New("slidepdf: renderer is closed")

	// ErrNoSlides is returned when a deck contains no slide markers.
	// [Extract] itself never fails; the conversion helpers surface the
	// empty result as this error before any rendering happens.
	ErrNoSlides = errors.New("slidepdf: no slides found")

	// ErrUnsupportedFormat is returned for inputs or outputs the library
	// cannot handle, such as DOCX documents or WebP encoding.
	ErrUnsupportedFormat = errors.New("slidepdf: unsupported format")

	// ErrInvalidConfig is returned when a [PageConfig] cannot produce a page,
	// for example when the margins leave no printable area.
	ErrInvalidConfig = errors.New("slidepdf: invalid page configuration")

	// ErrEmptyDocument is returned by [Assembler.Finish] when nothing was added.
	ErrEmptyDocument = errors.New("slidepdf: document has no pages")

	// ErrFinished is returned when adding content to a finished [Assembler].
	ErrFinished = errors.New("slidepdf: assembler is finished")

	// ErrInvalidRange is returned for a malformed or out of bounds slide range.
	ErrInvalidRange = errors.New("slidepdf: invalid slide range")

	// ErrNoRenderer is returned when an HTML conversion is requested from a
	// [Converter] that was created without a [PageRenderer].
	ErrNoRenderer = errors.New("slidepdf: no page renderer configured")
)

// ItemError records the failure of one item in a batch conversion.
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("slidepdf: converting %s: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
