package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgen <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  html        Render HTML files to PDF")
	fmt.Fprintln(w, "  template    Render a template directory or file with data to PDF")
	fmt.Fprintln(w, "  doctor      Check the browser and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfgen help <command>' for details on a specific command.")
}

// printSharedFlags prints the flag groups common to html and template.
func printSharedFlags(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (.pdf) or directory")
	fmt.Fprintln(w, "      --slug                Transliterate output names (\"Café Menü\" -> cafe-menu)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout per document (default 30s)")
	fmt.Fprintln(w, "      --base-url <s>        Base for relative URLs: directory or URL (default /)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling (applied in order: page rule, --style, --css):")
	fmt.Fprintln(w, "      --style <name>        Built-in style")
	fmt.Fprintln(w, "  -s, --css <s>             CSS file, directory of .css files or inline CSS (repeatable)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom style directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       CSS page size: A4, letter, \"210mm 297mm\" (default A4)")
	fmt.Fprintln(w, "      --orientation <s>     portrait, landscape")
	fmt.Fprintln(w, "      --margin <n[,n,n,n]>  One value or top,right,bottom,left (default 0)")
	fmt.Fprintln(w, "      --margin-unit <s>     Unit for non-zero margins: mm, in, px")
	fmt.Fprintln(w, "      --page-css <s>        Raw @page rule replacing the page flags")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printHTMLUsage prints usage for the html command.
func printHTMLUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgen html <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render HTML files to PDF. Directories are searched recursively for")
	fmt.Fprintln(w, ".html and .htm files; the tree is mirrored in the output directory.")
	fmt.Fprintln(w)
	printSharedFlags(w)
	fmt.Fprintln(w, "      --require-content     Fail on empty HTML files")
}

// printTemplateUsage prints usage for the template command.
func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgen template <dir|file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a template set into one PDF. In a directory every file is a")
	fmt.Fprintln(w, "template named by its relative path; templates are rendered in sorted")
	fmt.Fprintln(w, "order and concatenated.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Templates:")
	fmt.Fprintln(w, "  -n, --name <id>           Render only this template")
	fmt.Fprintln(w, "      --ignore <id,...>     Templates to skip (still usable as partials)")
	fmt.Fprintln(w, "      --natural-order       Order page2 before page10")
	fmt.Fprintln(w, "      --require-content     Fail when nothing is rendered")
	fmt.Fprintln(w, "      --markdown            Convert .md templates to HTML after rendering")
	fmt.Fprintln(w, "      --watch               Re-render when templates, data or styles change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Data:")
	fmt.Fprintln(w, "  -d, --data <file>         Data file: .yaml, .yml, .json, .toml (repeatable, merged)")
	fmt.Fprintln(w, "      --map <id=file>       Data replacing the global record for one template")
	fmt.Fprintln(w, "      --set <key=value>     Override a value; dotted keys create nested maps")
	fmt.Fprintln(w, "                            \"auto\" or \"auto:FORMAT\" = today's date")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w)
	printSharedFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgen doctor [--json] [--asset-path <dir>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome can be launched and list the available styles.")
	fmt.Fprintln(w, "Exits 1 when a blocking problem is found.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "html":
		printHTMLUsage(env.Stdout)
	case "template":
		printTemplateUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfgen version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfgen help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
