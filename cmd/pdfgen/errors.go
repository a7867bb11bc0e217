package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-pdfgen"
	"github.com/alnah/go-pdfgen/internal/config"
	"github.com/alnah/go-pdfgen/internal/datafile"
	"github.com/alnah/go-pdfgen/internal/engine"
	"github.com/alnah/go-pdfgen/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrGeneratorInit      = errors.New("failed to initialize generator")
)

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. An empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// hintContext carries what hint selection needs to know about the command.
type hintContext struct {
	configName     string
	assetPath      string
	templateSource string
}

// annotate attaches the hint matching err, if any.
func annotate(err error, hc hintContext) error {
	return withHint(err, hintFor(err, hc))
}

func hintFor(err error, hc hintContext) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, pdfgen.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, pdfgen.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(hc.configName))
	case errors.Is(err, pdfgen.ErrStyleNotFound):
		styles, _ := pdfgen.ListStyles(hc.assetPath)
		return hints.ForStyleNotFound(styles)
	case errors.Is(err, pdfgen.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(templateNames(hc.templateSource))
	case errors.Is(err, pdfgen.ErrTemplateSourceNotFound):
		return hints.ForTemplateSource()
	case errors.Is(err, datafile.ErrUnsupportedFormat):
		return hints.ForDataFormat()
	case errors.Is(err, pdfgen.ErrEmptyDocument):
		return hints.ForEmptyDocument()
	case errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}

// configSearchPaths mirrors the lookup of config.LoadConfig for a bare name.
func configSearchPaths(name string) []string {
	if name == "" {
		return nil
	}
	paths := []string{name + ".yaml", name + ".yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "go-pdfgen", name+".yaml"),
			filepath.Join(dir, "go-pdfgen", name+".yml"))
	}
	return paths
}

// templateNames lists the identifiers of a template directory, or nil.
func templateNames(source string) []string {
	if source == "" {
		return nil
	}
	set, err := engine.NewHTMLEngine().ParseDir(source)
	if err != nil {
		return nil
	}
	return set.Names()
}

// usageError reports a command-line mistake.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
