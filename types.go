package pdfgen

import (
	"fmt"
	"strings"
)

// Page defaults.
const (
	DefaultPageSize    = "A4"
	DefaultOrientation = OrientationPortrait
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin is a page margin: one value for every side, or four values in CSS
// order (top, right, bottom, left). The zero Margin is UniformMargin(0).
type Margin struct {
	sides [4]int
	box   bool
}

// UniformMargin applies m to every side.
func UniformMargin(m int) Margin {
	return Margin{sides: [4]int{m, m, m, m}}
}

// BoxMargin sets each side individually.
func BoxMargin(top, right, bottom, left int) Margin {
	return Margin{sides: [4]int{top, right, bottom, left}, box: true}
}

// Sides returns top, right, bottom and left.
func (m Margin) Sides() [4]int {
	return m.sides
}

// IsUniform reports whether the margin was built with UniformMargin.
// BoxMargin(5, 5, 5, 5) is not uniform, but it is Equal to UniformMargin(5).
func (m Margin) IsUniform() bool {
	return !m.box
}

// Equal reports whether both margins produce the same four sides.
func (m Margin) Equal(other Margin) bool {
	return m.sides == other.sides
}

// String returns the CSS value without units: "10" or "10 20 10 20".
func (m Margin) String() string {
	if !m.box {
		return fmt.Sprintf("%d", m.sides[0])
	}
	return fmt.Sprintf("%d %d %d %d", m.sides[0], m.sides[1], m.sides[2], m.sides[3])
}

// PageConfig is the structured form of a page rule.
type PageConfig struct {
	Size        string // CSS page size, e.g. "A4", "letter", "210mm 297mm"
	Margin      Margin
	Orientation string // "portrait", "landscape" or any other CSS keyword
	MarginUnit  string // appended to non-zero margin values (default: none)
}

// DefaultPageConfig returns size A4, margin 0, portrait.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:        DefaultPageSize,
		Margin:      UniformMargin(0),
		Orientation: DefaultOrientation,
	}
}

// withDefaults fills an empty size or orientation.
func (p PageConfig) withDefaults() PageConfig {
	if p.Size == "" {
		p.Size = DefaultPageSize
	}
	if p.Orientation == "" {
		p.Orientation = DefaultOrientation
	}
	return p
}

// Validate checks that page settings are valid. It does not apply
// defaults: PageSettings does that.
func (p PageConfig) Validate() error {
	if strings.TrimSpace(p.Size) == "" {
		return fmt.Errorf("%w: size cannot be empty", ErrInvalidPageSize)
	}
	if strings.ContainsAny(p.Size, ";{}") {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	for _, side := range p.Margin.sides {
		if side < 0 {
			return fmt.Errorf("%w: %s (must not be negative)", ErrInvalidMargin, p.Margin)
		}
	}
	for _, r := range p.MarginUnit {
		if (r < 'a' || r > 'z') && r != '%' {
			return fmt.Errorf("%w: unit %q", ErrInvalidMargin, p.MarginUnit)
		}
	}
	return nil
}

// IsLandscape reports whether the orientation is landscape.
func (p PageConfig) IsLandscape() bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

// isValidOrientation accepts any non-blank value that cannot escape the
// orientation declaration.
func isValidOrientation(orientation string) bool {
	if strings.TrimSpace(orientation) == "" {
		return false
	}
	return !strings.ContainsAny(orientation, ";{}\n")
}

// PageStyle is either a structured PageConfig or a raw CSS override.
// Build one with PageSettings or RawPageCSS; a nil *PageStyle means
// DefaultPageConfig.
type PageStyle struct {
	config PageConfig
	raw    string
	isRaw  bool
}

// PageSettings wraps a structured page configuration. An empty Size or
// Orientation takes DefaultPageSize or DefaultOrientation.
func PageSettings(cfg PageConfig) *PageStyle {
	return &PageStyle{config: cfg.withDefaults()}
}

// RawPageCSS replaces the generated page rule with css, verbatim.
func RawPageCSS(css string) *PageStyle {
	return &PageStyle{raw: css, isRaw: true}
}

// Raw returns the override and true when the style is a raw override.
func (s *PageStyle) Raw() (string, bool) {
	if s == nil {
		return "", false
	}
	return s.raw, s.isRaw
}

// Config returns the structured configuration. For a raw override or a
// nil style it returns DefaultPageConfig.
func (s *PageStyle) Config() PageConfig {
	if s == nil || s.isRaw {
		return DefaultPageConfig()
	}
	return s.config
}

// Validate checks the structured configuration. Raw overrides are opaque
// and always valid.
func (s *PageStyle) Validate() error {
	if s == nil || s.isRaw {
		return nil
	}
	return s.config.Validate()
}
