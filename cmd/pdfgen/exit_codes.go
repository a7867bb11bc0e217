package main

import (
	"errors"
	"os"

	"github.com/alnah/go-pdfgen"
	"github.com/alnah/go-pdfgen/internal/config"
	"github.com/alnah/go-pdfgen/internal/datafile"
	"github.com/alnah/go-pdfgen/internal/dateutil"
)

// Exit codes for the pdfgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, templates or data
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, pdfgen.ErrBrowserConnect) ||
		errors.Is(err, pdfgen.ErrPageCreate) ||
		errors.Is(err, pdfgen.ErrPageLoad) ||
		errors.Is(err, pdfgen.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, datafile.ErrUnsupportedFormat) ||
		errors.Is(err, datafile.ErrParse) ||
		errors.Is(err, datafile.ErrInvalidKey) ||
		errors.Is(err, datafile.ErrKeyConflict) ||
		errors.Is(err, datafile.ErrInvalidAssignment) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, pdfgen.ErrTemplateNotFound) ||
		errors.Is(err, pdfgen.ErrTemplateRender) ||
		errors.Is(err, pdfgen.ErrEmptyDocument) ||
		errors.Is(err, pdfgen.ErrInvalidData) ||
		errors.Is(err, pdfgen.ErrInvalidPageSize) ||
		errors.Is(err, pdfgen.ErrInvalidOrientation) ||
		errors.Is(err, pdfgen.ErrInvalidMargin) ||
		errors.Is(err, pdfgen.ErrStyleNotFound) ||
		errors.Is(err, pdfgen.ErrInvalidAssetPath) ||
		errors.Is(err, pdfgen.ErrInvalidBaseURL) {
		return ExitUsage
	}

	return ExitGeneral
}
