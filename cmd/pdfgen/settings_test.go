package main

// Notes:
// - loadConfig reads PDFGEN_* variables through loadEnvConfig; tests here
//   pass an envConfig value instead so they can run in parallel.
// - buildGeneratorOptions is only checked for its error path: options are
//   opaque functions.

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen"
	"github.com/alnah/go-pdfgen/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseMargin - --margin values
// ---------------------------------------------------------------------------

func TestParseMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    config.Margin
		wantErr bool
	}{
		{input: "10", want: config.Margin{10}},
		{input: "10,20,10,20", want: config.Margin{10, 20, 10, 20}},
		{input: " 1, 2 ,3,4 ", want: config.Margin{1, 2, 3, 4}},
		{input: "0", want: config.Margin{0}},
		{input: "1,2", wantErr: true},
		{input: "1,2,3", wantErr: true},
		{input: "ten", wantErr: true},
		{input: "1.5", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := parseMargin(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("parseMargin(%q) error = %v, want ErrUsage", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMargin(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseMargin(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPage - Config page section to PageStyle
// ---------------------------------------------------------------------------

func TestBuildPage(t *testing.T) {
	t.Parallel()

	t.Run("empty section keeps library defaults", func(t *testing.T) {
		t.Parallel()

		if got := buildPage(config.PageConfig{}); got != nil {
			t.Errorf("buildPage() = %+v, want nil", got)
		}
	})

	t.Run("raw css", func(t *testing.T) {
		t.Parallel()

		got := buildPage(config.PageConfig{RawCSS: "@page { size: A5; }"})
		raw, ok := got.Raw()
		if !ok || raw != "@page { size: A5; }" {
			t.Errorf("Raw() = %q, %v; want the override", raw, ok)
		}
	})

	tests := []struct {
		name string
		page config.PageConfig
		want pdfgen.PageConfig
	}{
		{
			name: "size only",
			page: config.PageConfig{Size: "letter"},
			want: pdfgen.PageConfig{Size: "letter", Orientation: "portrait", Margin: pdfgen.UniformMargin(0)},
		},
		{
			name: "uniform margin with unit",
			page: config.PageConfig{Margin: config.Margin{15}, MarginUnit: "mm"},
			want: pdfgen.PageConfig{Size: "A4", Orientation: "portrait", Margin: pdfgen.UniformMargin(15), MarginUnit: "mm"},
		},
		{
			name: "box margin and landscape",
			page: config.PageConfig{Orientation: "Landscape", Margin: config.Margin{10, 20, 10, 20}},
			want: pdfgen.PageConfig{Size: "A4", Orientation: "landscape", Margin: pdfgen.BoxMargin(10, 20, 10, 20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPage(tt.page).Config()
			if got.Size != tt.want.Size || got.Orientation != tt.want.Orientation || got.MarginUnit != tt.want.MarginUnit {
				t.Errorf("Config() = %+v, want %+v", got, tt.want)
			}
			if got.Margin.String() != tt.want.Margin.String() {
				t.Errorf("Margin = %s, want %s", got.Margin, tt.want.Margin)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags over config values
// ---------------------------------------------------------------------------

func TestMergePageFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   config.PageConfig
		flags pageFlags
		want  config.PageConfig
	}{
		{
			name:  "flags override config",
			cfg:   config.PageConfig{Size: "A4", Orientation: "portrait"},
			flags: pageFlags{size: "letter", margin: "5"},
			want:  config.PageConfig{Size: "letter", Orientation: "portrait", Margin: config.Margin{5}},
		},
		{
			name:  "raw flag replaces structured config",
			cfg:   config.PageConfig{Size: "A4", Margin: config.Margin{3}},
			flags: pageFlags{rawCSS: "@page { margin: 0; }"},
			want:  config.PageConfig{RawCSS: "@page { margin: 0; }"},
		},
		{
			name:  "structured flag clears raw config",
			cfg:   config.PageConfig{RawCSS: "@page {}"},
			flags: pageFlags{orientation: "landscape"},
			want:  config.PageConfig{Orientation: "landscape"},
		},
		{
			name:  "no flags keep config",
			cfg:   config.PageConfig{RawCSS: "@page {}"},
			flags: pageFlags{},
			want:  config.PageConfig{RawCSS: "@page {}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Page: tt.cfg}
			if err := mergePageFlags(&tt.flags, cfg); err != nil {
				t.Fatalf("mergePageFlags() error = %v", err)
			}
			if !reflect.DeepEqual(cfg.Page, tt.want) {
				t.Errorf("Page = %+v, want %+v", cfg.Page, tt.want)
			}
		})
	}
}

func TestMergeRenderAndStyleFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Stylesheets: []string{"base.css"},
		Render:      config.RenderConfig{Timeout: "10s", BaseURL: "/srv", Workers: 2},
		Assets:      config.AssetsConfig{Style: "minimal"},
	}
	mergeRenderFlags(&renderFlags{timeout: "1m", workers: 4}, cfg)
	mergeStyleFlags(&styleFlags{css: []string{"extra.css"}, style: "technical", assetPath: "./styles"}, cfg)

	want := &config.Config{
		Stylesheets: []string{"base.css", "extra.css"},
		Render:      config.RenderConfig{Timeout: "1m", BaseURL: "/srv", Workers: 4},
		Assets:      config.AssetsConfig{Style: "technical", BasePath: "./styles"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("merged config =\n%+v\nwant\n%+v", cfg, want)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config file and environment chain
// ---------------------------------------------------------------------------

func TestLoadConfig_EnvFillsEmptyValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := dir + "/c.yaml"
	writeTestFile(t, path, "assets:\n  style: minimal\n")

	cfg, name, err := loadConfig(path, &envConfig{Style: "technical", Timeout: 45 * time.Second})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if name != path {
		t.Errorf("name = %q, want %q", name, path)
	}
	if cfg.Assets.Style != "minimal" {
		t.Errorf("Assets.Style = %q, want config value to win over env", cfg.Assets.Style)
	}
	if cfg.Render.Timeout != "45s" {
		t.Errorf("Render.Timeout = %q, want env value", cfg.Render.Timeout)
	}
}

func TestLoadConfig_EnvNamesConfig(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/env.yaml"
	writeTestFile(t, path, "page:\n  size: A5\n")

	cfg, name, err := loadConfig("", &envConfig{ConfigPath: path})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if name != path || cfg.Page.Size != "A5" {
		t.Errorf("loadConfig() = %+v, %q; want page A5 from %s", cfg.Page, name, path)
	}
}

func TestLoadConfig_NoConfig(t *testing.T) {
	t.Parallel()

	cfg, name, err := loadConfig("", &envConfig{})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if name != "" || !reflect.DeepEqual(cfg, config.DefaultConfig()) {
		t.Errorf("loadConfig() = %+v, %q; want defaults", cfg, name)
	}
}

// ---------------------------------------------------------------------------
// TestBuilders - Stylesheets, workers and generator options
// ---------------------------------------------------------------------------

func TestBuildStylesheets(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Stylesheets: []string{"print.css", "h1 { color: red; }"},
		Assets:      config.AssetsConfig{Style: "technical"},
	}
	sheets := buildStylesheets(cfg)

	type desc struct{ kind, value string }
	got := make([]desc, len(sheets))
	for i, s := range sheets {
		got[i] = desc{s.Kind(), s.Value()}
	}
	want := []desc{
		{"builtin", "technical"},
		{"auto", "print.css"},
		{"auto", "h1 { color: red; }"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildStylesheets() = %v, want %v", got, want)
	}

	if got := buildStylesheets(&config.Config{}); len(got) != 0 {
		t.Errorf("buildStylesheets(empty) = %v, want none", got)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, pdfgen.MaxPoolSize} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{-1, pdfgen.MaxPoolSize + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestBuildGeneratorOptions(t *testing.T) {
	t.Parallel()

	opts, err := buildGeneratorOptions(&config.Config{
		Render: config.RenderConfig{Timeout: "45s", BaseURL: "/srv"},
		Assets: config.AssetsConfig{BasePath: "./styles"},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("buildGeneratorOptions() error = %v", err)
	}
	if len(opts) != 4 {
		t.Errorf("len(opts) = %d, want 4 (logger, timeout, base URL, asset path)", len(opts))
	}

	_, err = buildGeneratorOptions(&config.Config{Render: config.RenderConfig{Timeout: "soon"}}, zap.NewNop())
	if !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("buildGeneratorOptions() error = %v, want config.ErrInvalidValue", err)
	}
}

func TestOutputTarget(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Output: config.OutputConfig{DefaultDir: "out"}}
	if got := outputTarget("x.pdf", cfg); got != "x.pdf" {
		t.Errorf("outputTarget() = %q, want flag value", got)
	}
	if got := outputTarget("", cfg); got != "out" {
		t.Errorf("outputTarget() = %q, want config default dir", got)
	}
}
