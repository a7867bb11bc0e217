// Package pdfgen assembles HTML documents and renders them to PDF using
// headless Chrome.
//
// # Quick Start
//
// Build a document, create a generator, render, and close when done:
//
//	doc, err := pdfgen.NewFromHTML(pdfgen.HTMLString("<h1>Hello</h1>"),
//	    pdfgen.WithStylesheets(pdfgen.InlineCSS("h1 { color: navy; }")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen, err := pdfgen.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	if err := gen.RenderToFile(ctx, doc, "hello.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Documents
//
// A Document is HTML content plus stylesheet descriptors and a page style.
// NewFromHTML takes literal HTML or a file (see HTMLString, HTMLFile and
// AutoHTML). NewFromTemplate renders a template directory or a single
// template file with data:
//
//	doc, err := pdfgen.NewFromTemplate("templates/invoice",
//	    pdfgen.Map(map[string]any{"customer": "ACME"}),
//	    pdfgen.WithIgnoreTemplates("partials/header.html"),
//	    pdfgen.WithDataMapping(pdfgen.DataMapping{
//	        "cover.html": pdfgen.Record(cover),
//	    }),
//	)
//
// In a directory every regular file is a template, rendered in sorted
// order and concatenated. Templates can include each other by their path
// relative to the directory. Ignored templates are not rendered on their
// own but stay includable. Templates use Go template syntax with the
// sprig function library. Files ending in .html, .htm, .xhtml or .xml are
// escaped contextually; other files, and a single template file, are not.
// WithMarkdown(true) converts Markdown templates (.md) to HTML after
// rendering.
//
// # Page Setup
//
// The page style compiles into an @page rule injected before every other
// stylesheet:
//
//	pdfgen.WithPage(pdfgen.PageSettings(pdfgen.PageConfig{
//	    Size:        "letter",
//	    Orientation: pdfgen.OrientationLandscape,
//	    Margin:      pdfgen.BoxMargin(10, 20, 10, 20),
//	    MarginUnit:  "mm",
//	}))
//
// Empty Size and Orientation fields take DefaultPageSize and
// DefaultOrientation. RawPageCSS replaces the compiled rule with
// caller-provided CSS.
//
// # Parallel Processing
//
// A Generator owns one browser and is not safe for concurrent use. For
// batches, use GeneratorPool:
//
//	pool, err := pdfgen.NewGeneratorPool(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	gen := pool.Acquire()
//	defer pool.Release(gen)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package pdfgen
