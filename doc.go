// Package slidepdf turns HTML slide decks into PDF documents, one page per
// slide, using headless Chrome (Chrome DevTools Protocol) to rasterize each
// slide.
//
// # Slides
//
// A deck is an HTML document whose slides are elements carrying the "slide"
// class. [Extract] splits it into standalone documents that each render a
// single slide with the deck's styles:
//
//	for _, s := range slidepdf.Extract(source) {
//	    fmt.Println(s.Index, s.Title)
//	    // s.Standalone is a complete HTML document
//	}
//
// Use a [SlideExtractor] for decks with other conventions:
//
//	ext := &slidepdf.SlideExtractor{MarkerClass: "page", ActiveClass: "current"}
//	slides := ext.Extract(source)
//
// # Decks to PDF
//
// For one-off conversions use the package-level helpers:
//
//	res, err := slidepdf.ConvertSlides(ctx, source, nil)
//	res, err  = slidepdf.ConvertFile(ctx, "deck.html", nil)
//
// For repeated conversions create a [Renderer], which reuses the browser
// process, and a [Converter] around it:
//
//	r, err := slidepdf.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	c := slidepdf.NewConverter(r, slidepdf.WithLogger(logger))
//	res, err := c.ConvertSlides(ctx, source, nil)
//	results  := c.ConvertBatch(ctx, []string{"a.html", "photo.png", "notes.txt"}, nil)
//
// Use [PageConfig] to control paper size, orientation, margins and quality:
//
//	page := &slidepdf.PageConfig{
//	    Size:        slidepdf.A4,
//	    Orientation: slidepdf.Landscape,
//	    Margin:      10, // millimeters
//	    Quality:     2,  // device scale factor
//	}
//
// A [Result] gives access to the generated PDF:
//
//	res.Bytes()                       // []byte
//	res.PageCount()                   // number of pages
//	res.WriteToFile("out.pdf", 0o644) // write to disk
//
// Several results can be combined with [Merge].
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	r, err := slidepdf.NewRenderer(slidepdf.WithAutoDownload())
//
// # Images
//
// [Transcode] converts between PNG, JPEG, GIF, BMP and TIFF, and reads WebP:
//
//	out, err := slidepdf.Transcode(data, slidepdf.JPEG, slidepdf.TranscodeOptions{})
package slidepdf
