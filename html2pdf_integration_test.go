//go:build integration

package pdfgen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	if len(data) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(data))
	}
}

func assertValidPDFFile(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF file: %v", err)
	}
	assertValidPDF(t, data)
}

// TestRodConverter_ToPDF_Integration drives a real browser through the converter.
// Rod downloads Chromium on first run if none is found.
func TestRodConverter_ToPDF_Integration(t *testing.T) {
	t.Parallel()

	converter := newRodConverter(testTimeout)
	defer converter.Close()

	tests := []struct {
		name string
		html string
		opts *pdfOptions
	}{
		{
			name: "full document",
			html: "<!DOCTYPE html><html><head><title>T</title></head><body><h1>Hello</h1></body></html>",
		},
		{
			name: "fragment",
			html: "<p>just a fragment</p>",
		},
		{
			name: "landscape",
			html: "<p>wide</p>",
			opts: &pdfOptions{Landscape: true},
		},
	}

	// Subtests share one browser and run sequentially.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := converter.ToPDF(context.Background(), tt.html, tt.opts, &buf); err != nil {
				t.Fatalf("ToPDF() error = %v", err)
			}
			assertValidPDF(t, buf.Bytes())
		})
	}
}

// TestGenerator_Integration renders documents end to end through the pool.
func TestGenerator_Integration(t *testing.T) {
	t.Parallel()

	t.Run("html document to bytes", func(t *testing.T) {
		t.Parallel()

		doc, err := NewFromHTML(HTMLString("<h1>Report</h1><p>Body</p>"),
			WithStylesheets(BuiltinStyle(DefaultStyle), InlineCSS("h1 { color: navy; }")))
		if err != nil {
			t.Fatalf("NewFromHTML() error = %v", err)
		}

		data, err := acquireGenerator(t).RenderToBytes(context.Background(), doc)
		if err != nil {
			t.Fatalf("RenderToBytes() error = %v", err)
		}
		assertValidPDF(t, data)
	})

	t.Run("template directory to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "01-cover.html"), "<h1>{{.title}}</h1>")
		writeTestFile(t, filepath.Join(dir, "02-body.md"), "## {{.title | upper}}\n\n- one\n- two\n")

		doc, err := NewFromTemplate(dir, Map(map[string]any{"title": "Quarterly"}),
			WithPage(PageSettings(PageConfig{Size: "letter", Orientation: OrientationLandscape, Margin: UniformMargin(10), MarginUnit: "mm"})))
		if err != nil {
			t.Fatalf("NewFromTemplate() error = %v", err)
		}

		out := filepath.Join(t.TempDir(), "out.pdf")
		if err := acquireGenerator(t).RenderToFile(context.Background(), doc, out); err != nil {
			t.Fatalf("RenderToFile() error = %v", err)
		}
		assertValidPDFFile(t, out)
	})

	t.Run("relative stylesheet resolved against base URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "style.css"), "p { color: green; }")

		gen, err := NewGenerator(WithBaseURL(dir), WithTimeout(testTimeout))
		if err != nil {
			t.Fatalf("NewGenerator() error = %v", err)
		}
		defer gen.Close()

		doc, err := NewFromHTML(HTMLString(`<html><head><link rel="stylesheet" href="style.css"></head><body><p>x</p></body></html>`))
		if err != nil {
			t.Fatalf("NewFromHTML() error = %v", err)
		}

		data, err := gen.RenderToBytes(context.Background(), doc)
		if err != nil {
			t.Fatalf("RenderToBytes() error = %v", err)
		}
		assertValidPDF(t, data)
	})
}

// TestRodRenderer_EnsureBrowser_CI tests browser launch with the CI variable set.
func TestRodRenderer_EnsureBrowser_CI(t *testing.T) {
	t.Setenv("CI", "true")

	renderer := newRodRenderer(testTimeout)
	defer renderer.Close()

	if err := renderer.ensureBrowser(); err != nil {
		t.Fatalf("ensureBrowser() with CI=true error = %v", err)
	}
	if renderer.browser == nil {
		t.Error("browser should not be nil after ensureBrowser()")
	}
}

// TestRodRenderer_RenderFromFile_ContextDeadlineExceeded tests early exit on expired deadline.
func TestRodRenderer_RenderFromFile_ContextDeadlineExceeded(t *testing.T) {
	t.Parallel()

	renderer := newRodRenderer(testTimeout)
	defer renderer.Close()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	var buf bytes.Buffer
	err := renderer.RenderFromFile(ctx, "/tmp/nonexistent.html", nil, &buf)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
