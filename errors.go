package pdfgen

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for library operations.
var (
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Template errors.
	ErrTemplateSourceNotFound = fmt.Errorf("template source not found: %w", fs.ErrNotExist)
	ErrTemplateNotFound       = errors.New("template not found")
	ErrTemplateRender         = errors.New("template rendering failed")
	ErrEmptyDocument          = errors.New("document has no content")

	// Data binding errors.
	ErrInvalidData = errors.New("invalid template data")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidBaseURL   = errors.New("invalid base URL")
)
