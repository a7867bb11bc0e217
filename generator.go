package pdfgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen/internal/fileutil"
	"github.com/alnah/go-pdfgen/internal/pipeline"
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// DefaultBaseURL resolves relative URLs in documents against the
// filesystem root.
const DefaultBaseURL = "/"

// Generator renders Documents to PDF with headless Chrome.
// Create with NewGenerator, render as many documents as needed, and Close
// when done. A Generator owns one browser and is not safe for concurrent
// use; see GeneratorPool.
type Generator struct {
	cfg       generatorConfig
	styles    StyleLoader
	baseHref  string
	logger    *zap.Logger
	converter pdfConverter
}

type generatorConfig struct {
	timeout     time.Duration
	baseURL     string
	assetPath   string
	styleLoader StyleLoader
	logger      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout sets the page load timeout used when the render context has
// no deadline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdfgen: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithBaseURL sets the base for relative URLs in documents: a directory
// path or an absolute URL. Empty disables the injected <base> element.
func WithBaseURL(u string) Option {
	return func(g *Generator) {
		g.cfg.baseURL = u
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.cfg.logger = l
		}
	}
}

// WithAssetPath loads BuiltinStyle names from path/styles before the
// embedded styles.
func WithAssetPath(path string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = path
	}
}

// WithStyleLoader replaces the loader used for BuiltinStyle descriptors.
// It takes precedence over WithAssetPath.
func WithStyleLoader(l StyleLoader) Option {
	return func(g *Generator) {
		g.cfg.styleLoader = l
	}
}

// NewGenerator creates a Generator. The browser is started on first render.
// Returns ErrInvalidAssetPath or ErrInvalidBaseURL for bad options.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			timeout: defaultTimeout,
			baseURL: DefaultBaseURL,
			logger:  zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.cfg.logger.Named("pdfgen")

	switch {
	case g.cfg.styleLoader != nil:
		g.styles = publicStyleLoader{loader: g.cfg.styleLoader}
	default:
		loader, err := NewStyleLoader(g.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		g.styles = loader
	}

	href, err := pipeline.BaseHref(g.cfg.baseURL)
	if err != nil {
		return nil, wrapError(ErrInvalidBaseURL, err)
	}
	g.baseHref = href

	// Create PDF converter if not injected (e.g., by tests)
	if g.converter == nil {
		g.converter = newRodConverter(g.cfg.timeout)
	}
	return g, nil
}

// ResolveStylesheets returns the CSS texts a render of doc would inject:
// the compiled page rule first, then every stylesheet descriptor in order.
// File read errors are returned as produced by the os package.
func (g *Generator) ResolveStylesheets(doc *Document) ([]string, error) {
	if err := doc.page.Validate(); err != nil {
		return nil, err
	}

	resolver := &pipeline.StylesheetResolver{Styles: g.styles, Logger: g.logger}
	resources, err := resolver.Resolve(styleSpecs(doc.stylesheets))
	if err != nil {
		return nil, err
	}

	sheets := make([]string, 0, len(resources)+1)
	sheets = append(sheets, buildPageCSS(doc.page))
	for _, r := range resources {
		sheets = append(sheets, r.CSS)
	}
	return sheets, nil
}

// RenderToBytes renders doc and returns the PDF. An empty or non-PDF
// result from the browser fails with ErrPDFGeneration.
func (g *Generator) RenderToBytes(ctx context.Context, doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.render(ctx, doc, &buf); err != nil {
		return nil, err
	}
	if err := checkPDF(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderToFile renders doc into path. The PDF is streamed into a temporary
// file in the same directory and renamed over path on success, so path
// never holds a partial document.
func (g *Generator) RenderToFile(ctx context.Context, doc *Document, path string) error {
	return fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		head := &headWriter{w: w}
		if err := g.render(ctx, doc, head); err != nil {
			return err
		}
		return checkPDF(head.head)
	})
}

// Close releases resources (headless Chrome browser).
func (g *Generator) Close() error {
	if g.converter != nil {
		return g.converter.Close()
	}
	return nil
}

// render resolves stylesheets, builds the browser document and streams the
// PDF into w.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (g *Generator) render(ctx context.Context, doc *Document, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if doc == nil {
		return errors.New("pdfgen: nil document")
	}

	log := g.logger.With(zap.String("render_id", newRenderID()), zap.Stringer("kind", doc.kind))
	start := time.Now()

	sheets, err := g.ResolveStylesheets(doc)
	if err != nil {
		return err
	}
	html := pipeline.PrepareHTML(doc.content, g.baseHref, sheets)
	opts := &pdfOptions{Landscape: doc.page.Config().IsLandscape()}

	log.Debug("rendering",
		zap.Int("stylesheets", len(sheets)),
		zap.Int("bytes", len(html)))

	if err := g.converter.ToPDF(ctx, html, opts, w); err != nil {
		log.Debug("render failed", zap.Error(err))
		return err
	}

	log.Debug("rendered", zap.Duration("duration", time.Since(start)))
	return nil
}

// checkPDF rejects empty output and anything that is not a PDF.
func checkPDF(head []byte) error {
	if len(head) == 0 {
		return fmt.Errorf("%w: browser returned no data", ErrPDFGeneration)
	}
	if !filetype.Is(head, "pdf") {
		return fmt.Errorf("%w: output is not a PDF", ErrPDFGeneration)
	}
	return nil
}

// headWriter forwards writes and keeps the first bytes for type sniffing.
type headWriter struct {
	w    io.Writer
	head []byte
}

const sniffLen = 262 // filetype reads at most this many bytes

func (h *headWriter) Write(p []byte) (int, error) {
	if missing := sniffLen - len(h.head); missing > 0 {
		h.head = append(h.head, p[:min(missing, len(p))]...)
	}
	return h.w.Write(p)
}

func newRenderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
