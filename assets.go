package pdfgen

import (
	"errors"

	"github.com/alnah/go-pdfgen/internal/assets"
)

// DefaultStyle is the name of the built-in CSS style.
const DefaultStyle = assets.DefaultStyleName

// StyleLoader loads named CSS styles for BuiltinStyle descriptors.
// Implementations may load from filesystem, embedded assets, a database, etc.
//
// The library provides NewStyleLoader() for filesystem-based loading with
// fallback to embedded styles. Implement this interface for custom backends.
type StyleLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)
}

// NewStyleLoader creates a StyleLoader for the given base path.
// If basePath is empty, only the embedded styles are available.
// If basePath is set, basePath/styles/{name}.css takes precedence over the
// embedded style of the same name.
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewStyleLoader(basePath string) (StyleLoader, error) {
	resolver, err := assets.NewStyleResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &styleLoaderAdapter{resolver: resolver}, nil
}

// ListStyles returns the names of the embedded styles and, when basePath is
// set, the custom ones, sorted.
func ListStyles(basePath string) ([]string, error) {
	resolver, err := assets.NewStyleResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	names, err := resolver.ListStyles()
	if err != nil {
		return nil, convertAssetError(err)
	}
	return names, nil
}

// styleLoaderAdapter wraps the internal StyleResolver to return public errors.
type styleLoaderAdapter struct {
	resolver *assets.StyleResolver
}

func (a *styleLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// publicStyleLoader maps errors of a caller-supplied loader that does not
// already use the public sentinels.
type publicStyleLoader struct {
	loader StyleLoader
}

func (p publicStyleLoader) LoadStyle(name string) (string, error) {
	css, err := p.loader.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return css, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrStyleNotFound), errors.Is(err, ErrInvalidAssetPath):
		return err
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err) // Invalid name means not found
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &publicError{sentinel: sentinel, original: original}
}

type publicError struct {
	sentinel error
	original error
}

func (e *publicError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *publicError) Unwrap() error {
	return e.sentinel
}
