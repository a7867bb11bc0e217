package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-pdfgen/internal/engine"
)

// ErrSourceNotFound indicates a template source is neither a regular file
// nor a directory.
var ErrSourceNotFound = fmt.Errorf("template source not found: %w", fs.ErrNotExist)

// TemplateRequest describes one from-template assembly.
type TemplateRequest struct {
	// Source is a directory (template set root) or a single template file.
	Source string
	// Name restricts a directory source to one identifier. For a file source
	// it only selects the data override.
	Name     string
	Ignore   []string
	Bindings Bindings
}

// Assembly is the result of rendering a template source.
type Assembly struct {
	Content string
	// Rendered lists the identifiers that contributed, in order.
	Rendered []string
	// Directory is true when Source was a template set root.
	Directory bool
}

// TemplateAssembler renders a template source into document content.
type TemplateAssembler struct {
	Engine   engine.Engine
	Markdown MarkdownConverter
	Logger   *zap.Logger
}

// Assemble renders req.Source. A directory renders every identifier (or
// only req.Name) that is not ignored, in discovery order, concatenated
// without separator. A file is compiled as one standalone template and
// rendered once.
func (a *TemplateAssembler) Assemble(req TemplateRequest) (Assembly, error) {
	info, err := os.Stat(req.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Assembly{}, fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source)
		}
		return Assembly{}, err
	}

	switch {
	case info.IsDir():
		return a.assembleDir(req)
	case info.Mode().IsRegular():
		return a.assembleFile(req)
	default:
		return Assembly{}, fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source)
	}
}

func (a *TemplateAssembler) assembleDir(req TemplateRequest) (Assembly, error) {
	log := a.logger().With(zap.String("source", req.Source))

	set, err := a.Engine.ParseDir(req.Source)
	if err != nil {
		return Assembly{}, err
	}

	names := set.Names()
	if req.Name != "" {
		names = []string{req.Name}
	}
	ignored := make(map[string]struct{}, len(req.Ignore))
	for _, name := range req.Ignore {
		ignored[filepath.ToSlash(name)] = struct{}{}
	}

	result := Assembly{Directory: true}
	var content strings.Builder
	for _, name := range names {
		if _, skip := ignored[name]; skip {
			log.Debug("template ignored", zap.String("template", name))
			continue
		}

		start := time.Now()
		out, err := set.Render(name, req.Bindings.For(name))
		if err != nil {
			return Assembly{}, err
		}
		if IsMarkdown(name) && a.Markdown != nil {
			if out, err = a.Markdown.ToFragment(out); err != nil {
				return Assembly{}, fmt.Errorf("%s: %w", name, err)
			}
		}
		content.WriteString(out)
		result.Rendered = append(result.Rendered, name)

		log.Debug("template rendered",
			zap.String("template", name),
			zap.Bool("override", req.Bindings.Overridden(name)),
			zap.Duration("duration", time.Since(start)))
	}

	result.Content = content.String()
	return result, nil
}

func (a *TemplateAssembler) assembleFile(req TemplateRequest) (Assembly, error) {
	text, err := os.ReadFile(req.Source)
	if err != nil {
		return Assembly{}, err
	}

	name := req.Name
	if name == "" {
		name = filepath.Base(req.Source)
	}
	tmpl, err := a.Engine.ParseText(name, string(text))
	if err != nil {
		return Assembly{}, err
	}
	out, err := tmpl.Render(req.Bindings.For(req.Name))
	if err != nil {
		return Assembly{}, err
	}

	a.logger().Debug("template rendered",
		zap.String("source", req.Source),
		zap.String("template", name),
		zap.Bool("override", req.Bindings.Overridden(req.Name)))

	return Assembly{Content: out, Rendered: []string{name}}, nil
}

func (a *TemplateAssembler) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
