package main

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen"
	"github.com/alnah/go-pdfgen/internal/config"
)

// loadConfig loads the named config (flag first, then PDFGEN_CONFIG) and
// fills empty values from the environment.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, string, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, name, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	applyEnvConfig(env, cfg)
	return cfg, name, nil
}

// mergeRenderFlags merges output and browser flags into cfg. CLI wins.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.timeout != "" {
		cfg.Render.Timeout = f.timeout
	}
	if f.baseURL != "" {
		cfg.Render.BaseURL = f.baseURL
	}
	if f.workers != 0 {
		cfg.Render.Workers = f.workers
	}
}

// mergeStyleFlags merges stylesheet flags into cfg. --css entries are
// appended after the config's stylesheets.
func mergeStyleFlags(f *styleFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Assets.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	cfg.Stylesheets = append(cfg.Stylesheets, f.css...)
}

// mergePageFlags merges page flags into cfg. --page-css replaces every
// structured page value, and any structured flag clears a raw rule.
func mergePageFlags(f *pageFlags, cfg *config.Config) error {
	if f.rawCSS != "" {
		cfg.Page = config.PageConfig{RawCSS: f.rawCSS}
		return nil
	}

	structured := f.size != "" || f.orientation != "" || f.margin != "" || f.marginUnit != ""
	if structured && cfg.Page.RawCSS != "" {
		cfg.Page.RawCSS = ""
	}
	if f.size != "" {
		cfg.Page.Size = f.size
	}
	if f.orientation != "" {
		cfg.Page.Orientation = f.orientation
	}
	if f.marginUnit != "" {
		cfg.Page.MarginUnit = f.marginUnit
	}
	if f.margin != "" {
		m, err := parseMargin(f.margin)
		if err != nil {
			return err
		}
		cfg.Page.Margin = m
	}
	return nil
}

// parseMargin accepts "10" or "10,20,10,20".
func parseMargin(s string) (config.Margin, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 4 {
		return nil, usageError("--margin needs 1 or 4 comma-separated values, got %q", s)
	}
	m := make(config.Margin, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, usageError("--margin value %q is not an integer", p)
		}
		m[i] = v
	}
	return m, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > pdfgen.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, pdfgen.MaxPoolSize)
	}
	return nil
}

// buildPage converts the page section. Nil means library defaults.
func buildPage(p config.PageConfig) *pdfgen.PageStyle {
	if p.RawCSS != "" {
		return pdfgen.RawPageCSS(p.RawCSS)
	}
	if p.Size == "" && p.Orientation == "" && len(p.Margin) == 0 && p.MarginUnit == "" {
		return nil
	}

	pc := pdfgen.DefaultPageConfig()
	if p.Size != "" {
		pc.Size = p.Size
	}
	if p.Orientation != "" {
		pc.Orientation = strings.ToLower(p.Orientation)
	}
	switch len(p.Margin) {
	case 1:
		pc.Margin = pdfgen.UniformMargin(p.Margin[0])
	case 4:
		pc.Margin = pdfgen.BoxMargin(p.Margin[0], p.Margin[1], p.Margin[2], p.Margin[3])
	}
	pc.MarginUnit = p.MarginUnit
	return pdfgen.PageSettings(pc)
}

// buildStylesheets returns the built-in style (if any) followed by the
// configured stylesheets, classified when rendered.
func buildStylesheets(cfg *config.Config) []pdfgen.Stylesheet {
	var sheets []pdfgen.Stylesheet
	if cfg.Assets.Style != "" {
		sheets = append(sheets, pdfgen.BuiltinStyle(cfg.Assets.Style))
	}
	return append(sheets, pdfgen.Stylesheets(cfg.Stylesheets...)...)
}

// buildGeneratorOptions converts the render and assets sections.
func buildGeneratorOptions(cfg *config.Config, logger *zap.Logger) ([]pdfgen.Option, error) {
	opts := []pdfgen.Option{pdfgen.WithLogger(logger)}

	timeout, err := cfg.RenderTimeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, pdfgen.WithTimeout(timeout))
	}
	if cfg.Render.BaseURL != "" {
		opts = append(opts, pdfgen.WithBaseURL(cfg.Render.BaseURL))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, pdfgen.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts, nil
}

// resolveConfig runs the shared configuration chain of the render commands:
// config file, then environment, then flags. The result is validated.
func resolveConfig(common *commonFlags, render *renderFlags, style *styleFlags, page *pageFlags, env *Environment) (*config.Config, string, error) {
	warnUnknownEnvVars(env.Stderr)

	cfg, name, err := loadConfig(common.config, loadEnvConfig())
	if err != nil {
		return nil, name, err
	}

	mergeRenderFlags(render, cfg)
	mergeStyleFlags(style, cfg)
	if err := mergePageFlags(page, cfg); err != nil {
		return nil, name, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, name, err
	}
	if err := validateWorkers(cfg.Render.Workers); err != nil {
		return nil, name, err
	}
	return cfg, name, nil
}

// outputTarget returns the -o flag, falling back to output.defaultDir.
func outputTarget(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
