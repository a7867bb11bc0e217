package pdfgen

import "github.com/alnah/go-pdfgen/internal/pipeline"

// Stylesheet describes one stylesheet source. Order matters: later sheets
// override earlier ones.
type Stylesheet struct {
	spec pipeline.StyleSpec
}

// InlineCSS uses css as stylesheet text, even when it looks like a path.
func InlineCSS(css string) Stylesheet {
	return Stylesheet{spec: pipeline.StyleSpec{Kind: pipeline.StyleInline, Value: css}}
}

// CSSFile reads one stylesheet file.
func CSSFile(path string) Stylesheet {
	return Stylesheet{spec: pipeline.StyleSpec{Kind: pipeline.StyleFile, Value: path}}
}

// CSSDir reads every *.css entry directly inside dir, sorted by name.
// Subdirectories are not visited.
func CSSDir(dir string) Stylesheet {
	return Stylesheet{spec: pipeline.StyleSpec{Kind: pipeline.StyleDir, Value: dir}}
}

// BuiltinStyle loads a named style from the generator's style loader
// ("default", "minimal", "technical", or a custom asset).
func BuiltinStyle(name string) Stylesheet {
	return Stylesheet{spec: pipeline.StyleSpec{Kind: pipeline.StyleBuiltin, Value: name}}
}

// AutoStylesheet is classified when the document is rendered: an existing
// file is read, an existing directory is expanded, anything else is CSS.
func AutoStylesheet(s string) Stylesheet {
	return Stylesheet{spec: pipeline.StyleSpec{Kind: pipeline.StyleAuto, Value: s}}
}

// Stylesheets wraps each value with AutoStylesheet.
func Stylesheets(values ...string) []Stylesheet {
	out := make([]Stylesheet, len(values))
	for i, v := range values {
		out[i] = AutoStylesheet(v)
	}
	return out
}

// Value returns the descriptor text: CSS, a path or a style name.
func (s Stylesheet) Value() string {
	return s.spec.Value
}

// Kind returns "auto", "inline", "file", "dir" or "builtin".
func (s Stylesheet) Kind() string {
	return s.spec.Kind.String()
}

func styleSpecs(sheets []Stylesheet) []pipeline.StyleSpec {
	specs := make([]pipeline.StyleSpec, len(sheets))
	for i, s := range sheets {
		specs[i] = s.spec
	}
	return specs
}
