package pdfgen

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen/internal/engine"
	"github.com/alnah/go-pdfgen/internal/pipeline"
)

// SourceKind records which factory built a Document.
type SourceKind int

const (
	SourceHTML SourceKind = iota
	SourceTemplate
)

// String returns "html" or "template".
func (k SourceKind) String() string {
	if k == SourceTemplate {
		return "template"
	}
	return "html"
}

// Document is assembled HTML plus the stylesheets and page style to render
// it with. Content is fixed at construction; stylesheets are resolved each
// time the document is rendered.
type Document struct {
	content     string
	kind        SourceKind
	stylesheets []Stylesheet
	page        *PageStyle
	templates   []string
}

// Content returns the assembled HTML.
func (d *Document) Content() string {
	return d.content
}

// Kind returns the factory that built the document.
func (d *Document) Kind() SourceKind {
	return d.kind
}

// Stylesheets returns a copy of the stylesheet descriptors, in order.
func (d *Document) Stylesheets() []Stylesheet {
	return append([]Stylesheet(nil), d.stylesheets...)
}

// Page returns the page style. Nil means DefaultPageConfig.
func (d *Document) Page() *PageStyle {
	return d.page
}

// Templates returns the identifiers that contributed to a template
// document, in render order. It is empty for HTML documents.
func (d *Document) Templates() []string {
	return append([]string(nil), d.templates...)
}

// DocumentOption configures NewFromHTML and NewFromTemplate. Template-only
// options are ignored by NewFromHTML.
type DocumentOption func(*documentConfig)

type documentConfig struct {
	stylesheets    []Stylesheet
	page           *PageStyle
	templateName   string
	ignore         []string
	mapping        DataMapping
	engine         engine.Engine
	markdown       bool
	logger         *zap.Logger
	requireContent bool
}

// WithStylesheets appends stylesheet descriptors, in order.
func WithStylesheets(sheets ...Stylesheet) DocumentOption {
	return func(c *documentConfig) {
		c.stylesheets = append(c.stylesheets, sheets...)
	}
}

// WithPage sets the page style. Nil keeps the defaults.
func WithPage(style *PageStyle) DocumentOption {
	return func(c *documentConfig) {
		c.page = style
	}
}

// WithTemplateName renders only this identifier from a template directory.
// For a single template file it selects the DataMapping entry.
func WithTemplateName(name string) DocumentOption {
	return func(c *documentConfig) {
		c.templateName = name
	}
}

// WithIgnoreTemplates skips identifiers of a template directory. Ignored
// templates can still be included by other templates.
func WithIgnoreTemplates(names ...string) DocumentOption {
	return func(c *documentConfig) {
		c.ignore = append(c.ignore, names...)
	}
}

// WithDataMapping sets per-template data overrides.
func WithDataMapping(m DataMapping) DocumentOption {
	return func(c *documentConfig) {
		c.mapping = m
	}
}

// WithEngine replaces the template engine (default: html/template with
// sprig functions).
func WithEngine(e engine.Engine) DocumentOption {
	return func(c *documentConfig) {
		c.engine = e
	}
}

// WithMarkdown converts the output of Markdown templates (.md, .markdown)
// in a template directory to HTML. Off by default: Markdown templates are
// concatenated as rendered, like every other template.
func WithMarkdown(enabled bool) DocumentOption {
	return func(c *documentConfig) {
		c.markdown = enabled
	}
}

// WithDocumentLogger sets the logger used during construction.
func WithDocumentLogger(l *zap.Logger) DocumentOption {
	return func(c *documentConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequireContent makes construction fail with ErrEmptyDocument when
// the assembled content is empty.
func WithRequireContent(require bool) DocumentOption {
	return func(c *documentConfig) {
		c.requireContent = require
	}
}

func newDocumentConfig(opts []DocumentOption) *documentConfig {
	c := &documentConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("pdfgen")
	return c
}

// NewFromHTML builds a document from literal HTML or an HTML file.
// The only possible errors are read failures of an existing file.
func NewFromHTML(src Source, opts ...DocumentOption) (*Document, error) {
	cfg := newDocumentConfig(opts)

	content, err := src.read()
	if err != nil {
		return nil, err
	}
	if content == "" && cfg.requireContent {
		return nil, ErrEmptyDocument
	}

	cfg.logger.Debug("document assembled",
		zap.Stringer("kind", SourceHTML),
		zap.Int("bytes", len(content)))

	return &Document{
		content:     content,
		kind:        SourceHTML,
		stylesheets: cfg.stylesheets,
		page:        cfg.page,
	}, nil
}

// NewFromTemplate renders a template directory or a single template file
// with data. In a directory every regular file is a template, rendered in
// sorted order and concatenated (see WithMarkdown for Markdown templates).
// A single file is compiled on its own: it cannot include other templates.
func NewFromTemplate(source string, data Data, opts ...DocumentOption) (*Document, error) {
	cfg := newDocumentConfig(opts)
	if cfg.engine == nil {
		cfg.engine = engine.NewHTMLEngine()
	}

	global, err := data.Canonicalize()
	if err != nil {
		return nil, err
	}
	mapping, err := cfg.mapping.canonicalize()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	assembler := &pipeline.TemplateAssembler{
		Engine: cfg.engine,
		Logger: cfg.logger,
	}
	if cfg.markdown {
		assembler.Markdown = pipeline.NewGoldmarkConverter()
	}
	asm, err := assembler.Assemble(pipeline.TemplateRequest{
		Source:   source,
		Name:     cfg.templateName,
		Ignore:   cfg.ignore,
		Bindings: pipeline.Bindings{Global: global, Mapping: mapping},
	})
	if err != nil {
		return nil, convertTemplateError(err)
	}

	if asm.Content == "" {
		if cfg.requireContent {
			return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
		}
		cfg.logger.Warn("template source produced no content", zap.String("source", source))
	}

	cfg.logger.Debug("document assembled",
		zap.Stringer("kind", SourceTemplate),
		zap.String("source", source),
		zap.Int("templates", len(asm.Rendered)),
		zap.Int("bytes", len(asm.Content)),
		zap.Duration("duration", time.Since(start)))

	return &Document{
		content:     asm.Content,
		kind:        SourceTemplate,
		stylesheets: cfg.stylesheets,
		page:        cfg.page,
		templates:   asm.Rendered,
	}, nil
}

// convertTemplateError maps pipeline and engine errors to public sentinels.
// The original error text is kept.
func convertTemplateError(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrSourceNotFound):
		return wrapError(ErrTemplateSourceNotFound, err)
	case errors.Is(err, engine.ErrNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, engine.ErrParse),
		errors.Is(err, engine.ErrExecute),
		errors.Is(err, pipeline.ErrHTMLConversion):
		return wrapError(ErrTemplateRender, err)
	default:
		return err
	}
}
