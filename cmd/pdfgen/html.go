package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen"
)

// ErrInvalidExtension is returned for an explicit input that is not HTML.
var ErrInvalidExtension = errors.New("file must have .html or .htm extension")

// FileToRender pairs an input with its PDF destination.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// runHTML renders HTML files, or every HTML file below directories.
func runHTML(ctx context.Context, args []string, env *Environment) error {
	f, inputs, err := parseHTMLFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: html needs at least one file or directory", ErrNoInput)
	}

	cfg, cfgName, err := resolveConfig(&f.common, &f.render, &f.style, &f.page, env)
	hc := hintContext{configName: cfgName}
	if err != nil {
		return annotate(err, hc)
	}
	hc.assetPath = cfg.Assets.BasePath

	files, err := discoverInputs(inputs, outputTarget(f.render.output, cfg), f.render.slug)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .html files found in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	logger := newLogger(env.Stderr, f.common.quiet, f.common.verbose)
	defer func() { _ = logger.Sync() }()

	genOpts, err := buildGeneratorOptions(cfg, logger)
	if err != nil {
		return err
	}
	docOpts := []pdfgen.DocumentOption{
		pdfgen.WithStylesheets(buildStylesheets(cfg)...),
		pdfgen.WithPage(buildPage(cfg.Page)),
		pdfgen.WithRequireContent(f.requireContent),
		pdfgen.WithDocumentLogger(logger),
	}

	jobs := make([]renderJob, len(files))
	for i, file := range files {
		input := file.InputPath
		jobs[i] = renderJob{
			InputPath:  input,
			OutputPath: file.OutputPath,
			build: func() (*pdfgen.Document, error) {
				doc, err := pdfgen.NewFromHTML(pdfgen.HTMLFile(input), docOpts...)
				if errors.Is(err, pdfgen.ErrEmptyDocument) {
					return nil, fmt.Errorf("%w: %s", err, input)
				}
				return doc, err
			},
		}
	}

	size := pdfgen.ResolvePoolSize(cfg.Render.Workers)
	if size > len(jobs) {
		size = len(jobs)
	}
	pool, err := env.NewPool(size, genOpts...)
	if err != nil {
		return annotate(err, hc)
	}
	defer closePool(pool, logger)

	logger.Debug("rendering html files", zap.Int("files", len(jobs)), zap.Int("workers", size))
	results := renderBatch(ctx, pool, jobs)
	printResults(results, f.common.quiet, f.common.verbose, env.Stdout, env.Stderr)
	return annotate(resultsError(results), hc)
}

// closePool releases browsers. A close failure does not change the result.
func closePool(pool Pool, logger *zap.Logger) {
	if err := pool.Close(); err != nil {
		logger.Warn("failed to close renderer pool", zap.Error(err))
	}
}

// discoverInputs expands every input and rejects an output file name shared
// by several documents.
func discoverInputs(inputs []string, output string, slugify bool) ([]FileToRender, error) {
	var files []FileToRender
	for _, input := range inputs {
		found, err := discoverFiles(input, output, slugify)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	if isPDFPath(output) && len(files) > 1 {
		return nil, usageError("-o %s names a single file but %d documents were found", output, len(files))
	}
	return files, nil
}

// discoverFiles finds all HTML files to render.
func discoverFiles(inputPath, outputDir string, slugify bool) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !isHTMLPath(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", slugify)
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isHTMLPath(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, slugify)
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the PDF output path for an input file.
// Directory structure below baseInputDir is mirrored in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, slugify bool) string {
	base := outputBaseName(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)), slugify)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if isPDFPath(outputDir) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// outputBaseName transliterates name to a URL-safe slug when asked.
func outputBaseName(name string, slugify bool) string {
	if !slugify {
		return name
	}
	if s := slug.Make(name); s != "" {
		return s
	}
	return name
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func isPDFPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
