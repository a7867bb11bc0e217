package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// StyleKind classifies a stylesheet descriptor.
type StyleKind int

const (
	// StyleAuto is classified at resolution time: an existing file is read,
	// an existing directory is expanded, anything else is inline CSS.
	StyleAuto StyleKind = iota
	StyleInline
	StyleFile
	StyleDir
	StyleBuiltin
)

func (k StyleKind) String() string {
	switch k {
	case StyleInline:
		return "inline"
	case StyleFile:
		return "file"
	case StyleDir:
		return "dir"
	case StyleBuiltin:
		return "builtin"
	default:
		return "auto"
	}
}

// StyleSpec is one stylesheet descriptor.
type StyleSpec struct {
	Kind  StyleKind
	Value string
}

// StyleResource is one resolved stylesheet.
type StyleResource struct {
	// Origin names where the CSS came from, for logs and diagnostics.
	Origin string
	CSS    string
}

// StyleLoader resolves named built-in styles.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// ErrNoStyleLoader indicates a builtin style was requested but the resolver
// has no loader.
var ErrNoStyleLoader = errors.New("no style loader configured")

// StylesheetResolver turns descriptors into CSS texts.
type StylesheetResolver struct {
	Styles StyleLoader
	Logger *zap.Logger
}

// Resolve expands specs in order. A directory contributes its *.css entries
// (non-recursive) sorted by name. Every resource is linted; lint findings
// are logged and never fail resolution. File system errors are returned
// unmodified.
func (r *StylesheetResolver) Resolve(specs []StyleSpec) ([]StyleResource, error) {
	log := r.logger()

	var out []StyleResource
	for i, spec := range specs {
		resources, err := r.resolveOne(i, spec)
		if err != nil {
			return nil, err
		}
		for _, res := range resources {
			for _, issue := range LintCSS(res.CSS) {
				log.Warn("stylesheet lint", zap.String("stylesheet", res.Origin), zap.Error(issue))
			}
			log.Debug("stylesheet resolved", zap.String("stylesheet", res.Origin), zap.Int("bytes", len(res.CSS)))
		}
		out = append(out, resources...)
	}
	return out, nil
}

func (r *StylesheetResolver) resolveOne(index int, spec StyleSpec) ([]StyleResource, error) {
	kind := spec.Kind
	if kind == StyleAuto {
		kind = classify(spec.Value)
	}

	switch kind {
	case StyleFile:
		content, err := os.ReadFile(spec.Value)
		if err != nil {
			return nil, err
		}
		return []StyleResource{{Origin: spec.Value, CSS: string(content)}}, nil

	case StyleDir:
		return readStyleDir(spec.Value)

	case StyleBuiltin:
		if r.Styles == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoStyleLoader, spec.Value)
		}
		content, err := r.Styles.LoadStyle(spec.Value)
		if err != nil {
			return nil, err
		}
		return []StyleResource{{Origin: "builtin:" + spec.Value, CSS: content}}, nil

	default:
		return []StyleResource{{Origin: fmt.Sprintf("inline[%d]", index), CSS: spec.Value}}, nil
	}
}

// classify decides how an auto descriptor is read.
func classify(value string) StyleKind {
	info, err := os.Stat(value)
	if err != nil {
		return StyleInline
	}
	if info.IsDir() {
		return StyleDir
	}
	if info.Mode().IsRegular() {
		return StyleFile
	}
	return StyleInline
}

// readStyleDir reads every non-directory entry of dir whose name ends in
// ".css". os.ReadDir returns entries sorted by file name.
func readStyleDir(dir string) ([]StyleResource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []StyleResource
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".css") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, StyleResource{Origin: path, CSS: string(content)})
	}
	return out, nil
}

func (r *StylesheetResolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// maxLintIssues caps the findings reported per stylesheet.
const maxLintIssues = 10

// LintCSS runs the tdewolff CSS parser over css and returns its grammar
// errors. The parser recovers from errors, so a stylesheet with findings is
// still handed to the browser.
func LintCSS(source string) []error {
	if strings.TrimSpace(source) == "" {
		return nil
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader([]byte(source))), false)

	var issues []error
	for len(issues) < maxLintIssues {
		gt, _, _ := parser.Next()
		if gt != css.ErrorGrammar {
			continue
		}
		err := parser.Err()
		if err == nil || errors.Is(err, io.EOF) {
			break
		}
		issues = append(issues, err)
	}
	return issues
}
