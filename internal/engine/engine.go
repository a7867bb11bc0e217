package engine

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	texttemplate "text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/maruel/natural"
)

// Sentinel errors for template operations.
var (
	// ErrNotFound indicates the identifier is not part of the set.
	ErrNotFound = errors.New("template not found")

	// ErrParse indicates a template could not be compiled.
	ErrParse = errors.New("template parse failed")

	// ErrExecute indicates a compiled template failed while rendering.
	ErrExecute = errors.New("template execution failed")
)

// Engine opens template sets and compiles ad-hoc templates.
type Engine interface {
	// ParseDir opens every file below root as one template set.
	ParseDir(root string) (Set, error)
	// ParseText compiles text as a standalone template named name.
	ParseText(name, text string) (Template, error)
}

// Set is a group of templates that can reference each other by identifier.
type Set interface {
	// Names returns the identifiers of the set in discovery order.
	Names() []string
	// Render executes the identified template against data.
	Render(name string, data map[string]any) (string, error)
}

// Template is a single compiled template.
type Template interface {
	Render(data map[string]any) (string, error)
}

// Option configures an HTMLEngine.
type Option func(*HTMLEngine)

// WithNaturalOrder orders identifiers so that embedded numbers compare by
// value ("page2.html" before "page10.html").
func WithNaturalOrder() Option {
	return func(e *HTMLEngine) {
		e.natural = true
	}
}

// WithFuncs adds functions to the template function map. Entries override
// the sprig functions of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *HTMLEngine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// HTMLEngine is the default Engine. Identifiers for which AutoEscapes is
// true render through html/template; everything else, and every standalone
// template, renders through text/template.
type HTMLEngine struct {
	funcs   template.FuncMap
	natural bool
}

// Compile-time interface check.
var _ Engine = (*HTMLEngine)(nil)

// NewHTMLEngine returns an engine with the sprig function map installed.
func NewHTMLEngine(opts ...Option) *HTMLEngine {
	e := &HTMLEngine{
		funcs: template.FuncMap(sprig.GenericFuncMap()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AutoEscapes reports whether an identifier is HTML or XML content and
// gets contextual escaping.
func AutoEscapes(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".xhtml", ".xml":
		return true
	}
	return false
}

// ParseDir walks root recursively and parses every file into one shared
// namespace. The namespace is built twice, escaped and plain, so that
// identifiers of either kind can include each other. A file that fails to
// parse does not fail the set: the error is reported when that identifier
// is rendered.
func (e *HTMLEngine) ParseDir(root string) (Set, error) {
	names, err := e.discover(root)
	if err != nil {
		return nil, err
	}

	set := &htmlSet{
		escaped:   template.New("").Funcs(e.funcs),
		plain:     texttemplate.New("").Funcs(texttemplate.FuncMap(e.funcs)),
		names:     names,
		parseErrs: make(map[string]error),
	}
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			return nil, err
		}
		if _, err := set.escaped.New(name).Parse(string(content)); err != nil {
			set.parseErrs[name] = fmt.Errorf("%w: %s: %v", ErrParse, name, err)
			continue
		}
		if _, err := set.plain.New(name).Parse(string(content)); err != nil {
			set.parseErrs[name] = fmt.Errorf("%w: %s: %v", ErrParse, name, err)
		}
	}
	return set, nil
}

// ParseText compiles text as a standalone template. It has no access to
// other templates and is never escaped.
func (e *HTMLEngine) ParseText(name, text string) (Template, error) {
	tmpl, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(e.funcs)).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, name, err)
	}
	return &textTemplate{tmpl: tmpl}, nil
}

// discover returns the slash-separated identifiers of all regular files
// below root, sorted. Symlinks to regular files are included; symlinked
// directories are not descended into.
func (e *HTMLEngine) discover(root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case d.Type().IsRegular():
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(p)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		default:
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.natural {
		sort.Sort(natural.StringSlice(names))
	} else {
		sort.Strings(names)
	}
	return names, nil
}

type htmlSet struct {
	escaped   *template.Template
	plain     *texttemplate.Template
	names     []string
	parseErrs map[string]error
}

func (s *htmlSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *htmlSet) Render(name string, data map[string]any) (string, error) {
	if err, ok := s.parseErrs[name]; ok {
		return "", err
	}
	if AutoEscapes(name) {
		if tmpl := s.escaped.Lookup(name); tmpl != nil {
			return execute(tmpl, name, data)
		}
	} else if tmpl := s.plain.Lookup(name); tmpl != nil {
		return execute(tmpl, name, data)
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

type textTemplate struct {
	tmpl *texttemplate.Template
}

func (t *textTemplate) Render(data map[string]any) (string, error) {
	return execute(t.tmpl, t.tmpl.Name(), data)
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(tmpl executor, name string, data map[string]any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExecute, name, err)
	}
	return buf.String(), nil
}
