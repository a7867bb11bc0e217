package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-pdfgen/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // PDFGEN_CONFIG: config file name or path
	Style      string        // PDFGEN_STYLE: built-in style name
	Timeout    time.Duration // PDFGEN_TIMEOUT: render timeout
	OutputDir  string        // PDFGEN_OUTPUT_DIR: default output directory
	AssetPath  string        // PDFGEN_ASSET_PATH: custom style directory
	BaseURL    string        // PDFGEN_BASE_URL: base for relative URLs
	PageSize   string        // PDFGEN_PAGE_SIZE: CSS page size
	Workers    int           // PDFGEN_WORKERS: parallel workers
}

// knownEnvVars lists valid PDFGEN_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFGEN_CONFIG":     true,
	"PDFGEN_STYLE":      true,
	"PDFGEN_TIMEOUT":    true,
	"PDFGEN_OUTPUT_DIR": true,
	"PDFGEN_ASSET_PATH": true,
	"PDFGEN_BASE_URL":   true,
	"PDFGEN_PAGE_SIZE":  true,
	"PDFGEN_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("PDFGEN_CONFIG"),
		Style:      os.Getenv("PDFGEN_STYLE"),
		OutputDir:  os.Getenv("PDFGEN_OUTPUT_DIR"),
		AssetPath:  os.Getenv("PDFGEN_ASSET_PATH"),
		BaseURL:    os.Getenv("PDFGEN_BASE_URL"),
		PageSize:   os.Getenv("PDFGEN_PAGE_SIZE"),
	}

	if timeout := os.Getenv("PDFGEN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("PDFGEN_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for unrecognized PDFGEN_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PDFGEN_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig fills empty config values from the environment.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Assets.Style == "" {
		cfg.Assets.Style = env.Style
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.BaseURL != "" && cfg.Render.BaseURL == "" {
		cfg.Render.BaseURL = env.BaseURL
	}
	if env.Timeout > 0 && cfg.Render.Timeout == "" {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 && cfg.Render.Workers == 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.PageSize != "" && cfg.Page.Size == "" && cfg.Page.RawCSS == "" {
		cfg.Page.Size = env.PageSize
	}
}
