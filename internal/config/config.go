package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfgen/internal/fileutil"
	"github.com/alnah/go-pdfgen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPageSizeLength    = 32   // "A4", "letter", "210mm 297mm"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxMarginUnitLength  = 4    // "mm", "in", "px"
	MaxRawCSSLength      = 4096 // full @page rule
	MaxPathLength        = 4096 // PATH_MAX on Linux
	MaxURLLength         = 2048 // Browser limit
	MaxNameLength        = 255  // template identifier or style name
	MaxWorkers           = 32
)

// Config holds all configuration for document generation.
type Config struct {
	Page        PageConfig      `yaml:"page"`
	Stylesheets []string        `yaml:"stylesheets"`
	Templates   TemplatesConfig `yaml:"templates"`
	Data        DataConfig      `yaml:"data"`
	Render      RenderConfig    `yaml:"render"`
	Assets      AssetsConfig    `yaml:"assets"`
	Output      OutputConfig    `yaml:"output"`
}

// PageConfig defines the @page rule. RawCSS replaces the structured fields.
type PageConfig struct {
	Size        string `yaml:"size"`        // CSS page size (default: "A4")
	Orientation string `yaml:"orientation"` // "portrait", "landscape", ... (default: "portrait")
	Margin      Margin `yaml:"margin"`      // scalar or [top, right, bottom, left]
	MarginUnit  string `yaml:"marginUnit"`  // appended to non-zero margins (default: none)
	RawCSS      string `yaml:"rawCSS"`      // verbatim page CSS
}

// Margin is either one value or four (top, right, bottom, left).
type Margin []int

// UnmarshalYAML accepts a scalar or a list.
func (m *Margin) UnmarshalYAML(unmarshal func(any) error) error {
	var scalar int
	if err := unmarshal(&scalar); err == nil {
		*m = Margin{scalar}
		return nil
	}
	var sides []int
	if err := unmarshal(&sides); err != nil {
		return fmt.Errorf("margin: want a number or a list of four numbers: %w", err)
	}
	*m = Margin(sides)
	return nil
}

// TemplatesConfig defines template discovery options.
type TemplatesConfig struct {
	Name           string   `yaml:"name"`           // render only this identifier
	Ignore         []string `yaml:"ignore"`         // identifiers to skip
	NaturalOrder   bool     `yaml:"naturalOrder"`   // "page2" before "page10"
	RequireContent bool     `yaml:"requireContent"` // fail when nothing is rendered
	Markdown       bool     `yaml:"markdown"`       // convert .md templates to HTML
}

// DataConfig defines data bindings loaded from files.
type DataConfig struct {
	File    string            `yaml:"file"`    // global record (.yaml, .yml, .json, .toml)
	Mapping map[string]string `yaml:"mapping"` // identifier -> data file
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s" (default: 30s)
	BaseURL string `yaml:"baseURL"` // base for relative URLs (default: "/")
	Workers int    `yaml:"workers"` // batch parallelism (0 = auto)
}

// AssetsConfig defines style loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded styles
	Style    string `yaml:"style"`    // built-in style applied first (empty = none)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.validatePage(); err != nil {
		return err
	}

	for i, sheet := range c.Stylesheets {
		if err := validateFieldLength(fmt.Sprintf("stylesheets[%d]", i), sheet, MaxRawCSSLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("templates.name", c.Templates.Name, MaxNameLength); err != nil {
		return err
	}
	for i, name := range c.Templates.Ignore {
		if err := validateFieldLength(fmt.Sprintf("templates.ignore[%d]", i), name, MaxNameLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("data.file", c.Data.File, MaxPathLength); err != nil {
		return err
	}
	for id, path := range c.Data.Mapping {
		if err := validateFieldLength("data.mapping."+id, path, MaxPathLength); err != nil {
			return err
		}
	}

	if _, err := c.RenderTimeout(); err != nil {
		return err
	}
	if err := validateFieldLength("render.baseURL", c.Render.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.style", c.Assets.Style, MaxNameLength); err != nil {
		return err
	}
	return validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength)
}

func (c *Config) validatePage() error {
	p := c.Page
	if err := validateFieldLength("page.size", p.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", p.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.marginUnit", p.MarginUnit, MaxMarginUnitLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.rawCSS", p.RawCSS, MaxRawCSSLength); err != nil {
		return err
	}

	if p.RawCSS != "" && (p.Size != "" || p.Orientation != "" || len(p.Margin) > 0) {
		return fmt.Errorf("%w: page.rawCSS cannot be combined with size, orientation or margin", ErrInvalidValue)
	}
	if strings.ContainsAny(p.Orientation, ";{}\n") {
		return fmt.Errorf("%w: page.orientation %q", ErrInvalidValue, p.Orientation)
	}
	switch len(p.Margin) {
	case 0, 1, 4:
	default:
		return fmt.Errorf("%w: page.margin needs 1 or 4 values, got %d", ErrInvalidValue, len(p.Margin))
	}
	for _, v := range p.Margin {
		if v < 0 {
			return fmt.Errorf("%w: page.margin must not be negative, got %d", ErrInvalidValue, v)
		}
	}
	return nil
}

// RenderTimeout parses render.timeout. Zero means "use the default".
func (c *Config) RenderTimeout() (time.Duration, error) {
	if c.Render.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: library defaults apply to
// every empty field.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-pdfgen/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-pdfgen", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
