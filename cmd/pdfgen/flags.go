package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds output and browser flags.
type renderFlags struct {
	output  string
	workers int
	timeout string
	baseURL string
	slug    bool
}

// styleFlags holds stylesheet flags.
type styleFlags struct {
	css       []string // files, directories or inline CSS, in order
	style     string   // built-in style applied first
	assetPath string   // custom style directory
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      string // "10" or "10,20,10,20"
	marginUnit  string
	rawCSS      string
}

// templateFlags holds template discovery and data flags.
type templateFlags struct {
	name           string
	ignore         []string
	data           []string // data files merged in order
	mapping        []string // identifier=file
	set            []string // key=value overrides
	naturalOrder   bool
	requireContent bool
	markdown       bool
	watch          bool
}

// htmlFlags holds all flags for the html command.
type htmlFlags struct {
	common         commonFlags
	render         renderFlags
	style          styleFlags
	page           pageFlags
	requireContent bool
}

// templateCmdFlags holds all flags for the template command.
type templateCmdFlags struct {
	common   commonFlags
	render   renderFlags
	style    styleFlags
	page     pageFlags
	template templateFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addRenderFlags adds output and browser flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.baseURL, "base-url", "", "base for relative URLs: directory or URL (default: /)")
	fs.BoolVar(&f.slug, "slug", false, "transliterate output file names")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringArrayVarP(&f.css, "css", "s", nil, "stylesheet file, directory or inline CSS (repeatable)")
	fs.StringVar(&f.style, "style", "", "built-in style applied before --css")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "CSS page size: A4, letter, \"210mm 297mm\"")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.margin, "margin", "", "margin: one value or top,right,bottom,left")
	fs.StringVar(&f.marginUnit, "margin-unit", "", "unit appended to non-zero margins (mm, in, px)")
	fs.StringVar(&f.rawCSS, "page-css", "", "raw @page CSS replacing the page flags")
}

// addTemplateFlags adds template and data flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVarP(&f.name, "name", "n", "", "render only this template identifier")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "template identifiers to skip (comma separated)")
	fs.StringArrayVarP(&f.data, "data", "d", nil, "data file (.yaml, .json, .toml), repeatable")
	fs.StringArrayVar(&f.mapping, "map", nil, "per-template data: identifier=file (repeatable)")
	fs.StringArrayVar(&f.set, "set", nil, "data override key=value; \"auto\" = today (repeatable)")
	fs.BoolVar(&f.naturalOrder, "natural-order", false, "order page2 before page10")
	fs.BoolVar(&f.requireContent, "require-content", false, "fail when nothing is rendered")
	fs.BoolVar(&f.markdown, "markdown", false, "convert .md templates to HTML after rendering")
	fs.BoolVar(&f.watch, "watch", false, "re-render when templates, data or styles change")
}

// newHTMLFlagSet registers the html command flags.
func newHTMLFlagSet(stderr io.Writer) (*flag.FlagSet, *htmlFlags) {
	fs := flag.NewFlagSet("html", flag.ContinueOnError)
	f := &htmlFlags{}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addStyleFlags(fs, &f.style)
	addPageFlags(fs, &f.page)
	fs.BoolVar(&f.requireContent, "require-content", false, "fail on empty HTML files")

	fs.SetOutput(stderr)
	fs.Usage = func() { printHTMLUsage(stderr) }
	return fs, f
}

// newTemplateFlagSet registers the template command flags.
func newTemplateFlagSet(stderr io.Writer) (*flag.FlagSet, *templateCmdFlags) {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	f := &templateCmdFlags{}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addStyleFlags(fs, &f.style)
	addPageFlags(fs, &f.page)
	addTemplateFlags(fs, &f.template)

	fs.SetOutput(stderr)
	fs.Usage = func() { printTemplateUsage(stderr) }
	return fs, f
}

// parseHTMLFlags parses html command flags and returns positional args.
func parseHTMLFlags(args []string, stderr io.Writer) (*htmlFlags, []string, error) {
	fs, f := newHTMLFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// parseTemplateFlags parses template command flags and returns positional args.
func parseTemplateFlags(args []string, stderr io.Writer) (*templateCmdFlags, []string, error) {
	fs, f := newTemplateFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// flagError keeps flag.ErrHelp recognisable and marks the rest as usage errors.
func flagError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return usageError("%v", err)
}
