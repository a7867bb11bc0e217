package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen"
	"github.com/alnah/go-pdfgen/internal/config"
	"github.com/alnah/go-pdfgen/internal/datafile"
	"github.com/alnah/go-pdfgen/internal/dateutil"
	"github.com/alnah/go-pdfgen/internal/engine"
)

// templateParams holds everything needed to assemble the document. Data
// files are read on every build so watch mode picks up their changes.
type templateParams struct {
	source    string
	dataFiles []string
	mapping   map[string]string // identifier -> data file
	sets      []string          // key=value, applied after the data files
	now       time.Time
	docOpts   []pdfgen.DocumentOption
}

// runTemplate renders a template directory or file into one PDF.
func runTemplate(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseTemplateFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: template needs a directory or file", ErrNoInput)
	}
	if len(positional) > 1 {
		return usageError("template takes one source, got %d", len(positional))
	}
	source := positional[0]

	cfg, cfgName, err := resolveConfig(&f.common, &f.render, &f.style, &f.page, env)
	hc := hintContext{configName: cfgName, templateSource: source}
	if err != nil {
		return annotate(err, hc)
	}
	hc.assetPath = cfg.Assets.BasePath
	mergeTemplateFlags(&f.template, cfg)

	mapping, err := mergeMapping(cfg.Data.Mapping, f.template.mapping)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common.quiet, f.common.verbose)
	defer func() { _ = logger.Sync() }()

	params := &templateParams{
		source:    source,
		dataFiles: dataFiles(cfg, f.template.data),
		mapping:   mapping,
		sets:      f.template.set,
		now:       env.Now(),
		docOpts:   buildTemplateOptions(cfg, logger),
	}
	// Fail on bad data before a browser is started.
	if _, _, err := params.bindings(); err != nil {
		return annotate(err, hc)
	}

	genOpts, err := buildGeneratorOptions(cfg, logger)
	if err != nil {
		return err
	}
	pool, err := env.NewPool(1, genOpts...)
	if err != nil {
		return annotate(err, hc)
	}
	defer closePool(pool, logger)

	output := resolveTemplateOutput(source, outputTarget(f.render.output, cfg), f.render.slug)
	job := renderJob{InputPath: source, OutputPath: output, build: params.build}

	render := func() error {
		results := renderBatch(ctx, pool, []renderJob{job})
		printResults(results, f.common.quiet, f.common.verbose, env.Stdout, env.Stderr)
		return annotate(resultsError(results), hc)
	}

	if !f.template.watch {
		return render()
	}

	if err := render(); err != nil {
		logger.Error("render failed", zap.Error(err))
	}
	return watchAndRender(ctx, params.watchPaths(cfg), render, logger)
}

// mergeTemplateFlags merges template flags into cfg. CLI wins; booleans
// can only be switched on.
func mergeTemplateFlags(f *templateFlags, cfg *config.Config) {
	if f.name != "" {
		cfg.Templates.Name = f.name
	}
	cfg.Templates.Ignore = append(cfg.Templates.Ignore, f.ignore...)
	if f.naturalOrder {
		cfg.Templates.NaturalOrder = true
	}
	if f.requireContent {
		cfg.Templates.RequireContent = true
	}
	if f.markdown {
		cfg.Templates.Markdown = true
	}
}

// dataFiles returns data.file followed by every --data flag.
func dataFiles(cfg *config.Config, flagFiles []string) []string {
	var files []string
	if cfg.Data.File != "" {
		files = append(files, cfg.Data.File)
	}
	return append(files, flagFiles...)
}

// mergeMapping combines data.mapping with "identifier=file" flags.
func mergeMapping(base map[string]string, assignments []string) (map[string]string, error) {
	merged := make(map[string]string, len(base)+len(assignments))
	for id, file := range base {
		merged[id] = file
	}
	for _, a := range assignments {
		id, file, err := datafile.ParseAssignment(a)
		if err != nil {
			return nil, usageError("--map: %v", err)
		}
		if file == "" {
			return nil, usageError("--map %s: missing data file", id)
		}
		merged[id] = file
	}
	return merged, nil
}

// buildTemplateOptions converts the page, stylesheet and templates sections.
func buildTemplateOptions(cfg *config.Config, logger *zap.Logger) []pdfgen.DocumentOption {
	opts := []pdfgen.DocumentOption{
		pdfgen.WithStylesheets(buildStylesheets(cfg)...),
		pdfgen.WithPage(buildPage(cfg.Page)),
		pdfgen.WithRequireContent(cfg.Templates.RequireContent),
		pdfgen.WithMarkdown(cfg.Templates.Markdown),
		pdfgen.WithDocumentLogger(logger),
	}
	if cfg.Templates.Name != "" {
		opts = append(opts, pdfgen.WithTemplateName(cfg.Templates.Name))
	}
	if len(cfg.Templates.Ignore) > 0 {
		opts = append(opts, pdfgen.WithIgnoreTemplates(cfg.Templates.Ignore...))
	}
	if cfg.Templates.NaturalOrder {
		opts = append(opts, pdfgen.WithEngine(engine.NewHTMLEngine(engine.WithNaturalOrder())))
	}
	return opts
}

// bindings loads the global record and the per-template overrides.
func (p *templateParams) bindings() (map[string]any, pdfgen.DataMapping, error) {
	global, err := datafile.LoadAll(p.dataFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("loading data: %w", err)
	}
	if err := applyAssignments(global, p.sets, p.now); err != nil {
		return nil, nil, err
	}

	var mapping pdfgen.DataMapping
	if len(p.mapping) > 0 {
		mapping = make(pdfgen.DataMapping, len(p.mapping))
		for id, file := range p.mapping {
			data, err := datafile.Load(file)
			if err != nil {
				return nil, nil, fmt.Errorf("loading data for %s: %w", id, err)
			}
			mapping[id] = pdfgen.Map(data)
		}
	}
	return global, mapping, nil
}

// build assembles the document from freshly loaded data.
func (p *templateParams) build() (*pdfgen.Document, error) {
	global, mapping, err := p.bindings()
	if err != nil {
		return nil, err
	}
	opts := p.docOpts
	if mapping != nil {
		opts = append(opts[:len(opts):len(opts)], pdfgen.WithDataMapping(mapping))
	}
	return pdfgen.NewFromTemplate(p.source, pdfgen.Map(global), opts...)
}

// watchPaths lists the files and directories whose changes trigger a
// re-render: the source, the data files and local stylesheets.
func (p *templateParams) watchPaths(cfg *config.Config) []string {
	paths := []string{p.source}
	paths = append(paths, p.dataFiles...)

	ids := make([]string, 0, len(p.mapping))
	for id := range p.mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		paths = append(paths, p.mapping[id])
	}

	for _, sheet := range cfg.Stylesheets {
		if _, err := os.Stat(sheet); err == nil {
			paths = append(paths, sheet)
		}
	}
	return paths
}

// applyAssignments stores every key=value pair in data. "auto" values are
// replaced by the date of now.
func applyAssignments(data map[string]any, assignments []string, now time.Time) error {
	for _, a := range assignments {
		key, value, err := datafile.ParseAssignment(a)
		if err != nil {
			return usageError("--set: %v", err)
		}
		resolved, err := dateutil.ResolveDate(value, now)
		if err != nil {
			return fmt.Errorf("--set %s: %w", key, err)
		}
		if err := datafile.Set(data, key, resolved); err != nil {
			return fmt.Errorf("--set %s: %w", key, err)
		}
	}
	return nil
}

// resolveTemplateOutput determines the PDF path of a template source.
// A directory "invoice/" becomes "invoice.pdf" next to it, a file
// "letter.html" becomes "letter.pdf".
func resolveTemplateOutput(source, output string, slugify bool) string {
	if isPDFPath(output) {
		return output
	}

	clean := filepath.Clean(source)
	name := filepath.Base(clean)
	if abs, err := filepath.Abs(clean); err == nil {
		name = filepath.Base(abs)
	}
	if info, err := os.Stat(clean); err != nil || !info.IsDir() {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name = outputBaseName(name, slugify)

	dir := output
	if dir == "" {
		dir = filepath.Dir(clean)
	}
	return filepath.Join(dir, name+".pdf")
}
