package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfgen"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long       string   // --output
	Short      string   // -o (empty if none)
	Type       flagType // completion type
	Desc       string   // help text
	Values     []string // for enum flags
	FileGlob   string   // for file flags, comma separated
	Repeatable bool     // may be given several times
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed argument values (completion shells)
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments, comma separated
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":   {Values: []string{"A4", "A3", "A5", "letter", "legal", "tabloid"}},
	"orientation": {Values: []string{"portrait", "landscape"}},
	"margin-unit": {Values: []string{"mm", "cm", "in", "px", "pt"}},

	"config": {FileGlob: "*.yaml,*.yml"},
	"css":    {FileGlob: "*.css"},
	"data":   {FileGlob: "*.yaml,*.yml,*.json,*.toml"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		case "stringArray", "stringSlice":
			fd.Repeatable = true
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}
		if f.Name == "style" {
			if styles, err := pdfgen.ListStyles(""); err == nil && len(styles) > 0 {
				fd.Type = flagEnum
				fd.Values = styles
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the command FlagSets.
func getCommands() []commandDef {
	htmlFS, _ := newHTMLFlagSet(io.Discard)
	templateFS, _ := newTemplateFlagSet(io.Discard)
	doctorFS, _ := newDoctorFlagSet(io.Discard)

	return []commandDef{
		{
			Name:        "html",
			Desc:        "Render HTML files to PDF",
			Flags:       extractFlagsFromFlagSet(htmlFS),
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{
			Name:       "template",
			Desc:       "Render a template directory or file to PDF",
			Flags:      extractFlagsFromFlagSet(templateFS),
			TakesFiles: true,
		},
		{
			Name:  "doctor",
			Desc:  "Check the browser and environment",
			Flags: extractFlagsFromFlagSet(doctorFS),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: []string{"html", "template", "doctor", "completion", "version"},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// scriptWriter accumulates the first write error.
type scriptWriter struct {
	w   io.Writer
	err error
}

func (s *scriptWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// bashGlob turns "*.yaml,*.yml" into the extglob "!*.@(yaml|yml)".
func bashGlob(globs string) string {
	var exts []string
	for _, g := range strings.Split(globs, ",") {
		exts = append(exts, strings.TrimPrefix(g, "*."))
	}
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	s := &scriptWriter{w: w}

	s.printf("# bash completion for pdfgen\n")
	s.printf("shopt -s extglob\n\n")
	s.printf("_pdfgen() {\n")
	s.printf("    local cur prev\n")
	s.printf("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	s.printf("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	s.printf("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	s.printf("        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", commandNames(cmds))
	s.printf("        return\n")
	s.printf("    fi\n\n")
	s.printf("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		s.printf("    %s)\n", c.Name)
		s.printf("        case \"$prev\" in\n")
		var names []string
		for _, f := range c.Flags {
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern = "-" + f.Short + "|" + pattern
			}
			names = append(names, "--"+f.Long)
			switch f.Type {
			case flagEnum:
				s.printf("        %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Values, " "))
			case flagFile:
				s.printf("        %s) COMPREPLY=($(compgen -f -X '%s' -- \"$cur\")); return ;;\n", pattern, bashGlob(f.FileGlob))
			case flagDir:
				s.printf("        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
			case flagString, flagInt:
				s.printf("        %s) return ;;\n", pattern)
			}
		}
		s.printf("        esac\n")
		if len(names) > 0 {
			s.printf("        if [[ \"$cur\" == -* ]]; then\n")
			s.printf("            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(names, " "))
			s.printf("            return\n")
			s.printf("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			s.printf("        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			s.printf("        COMPREPLY=($(compgen -f -X '%s' -- \"$cur\"))\n", bashGlob(c.FilePattern))
		case c.TakesFiles:
			s.printf("        COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		}
		s.printf("        ;;\n")
	}

	s.printf("    esac\n")
	s.printf("}\n\n")
	s.printf("complete -o filenames -F _pdfgen pdfgen\n")
	return s.err
}

// zshEscape escapes text for a single-quoted _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		globs := strings.ReplaceAll(f.FileGlob, ",", " ")
		return ":" + f.Long + ":_files -g \"" + globs + "\""
	case flagDir:
		return ":" + f.Long + ":_files -/"
	default:
		return ":" + f.Long + ": "
	}
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	s := &scriptWriter{w: w}

	s.printf("#compdef pdfgen\n\n")
	s.printf("_pdfgen() {\n")
	s.printf("    local -a commands\n")
	s.printf("    commands=(\n")
	for _, c := range cmds {
		s.printf("        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	s.printf("    )\n\n")
	s.printf("    if (( CURRENT == 2 )); then\n")
	s.printf("        _describe 'command' commands\n")
	s.printf("        return\n")
	s.printf("    fi\n\n")
	s.printf("    local cmd=$words[2]\n")
	s.printf("    shift words\n")
	s.printf("    (( CURRENT-- ))\n\n")
	s.printf("    case $cmd in\n")

	for _, c := range cmds {
		s.printf("    %s)\n", c.Name)
		s.printf("        _arguments -s \\\n")
		for _, f := range c.Flags {
			desc := "[" + zshEscape(f.Desc) + "]" + zshAction(f)
			switch {
			case f.Short != "" && f.Repeatable:
				s.printf("            '*'{-%s,--%s}'%s' \\\n", f.Short, f.Long, desc)
			case f.Short != "":
				s.printf("            '(-%s --%s)'{-%s,--%s}'%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc)
			case f.Repeatable:
				s.printf("            '*--%s%s' \\\n", f.Long, desc)
			default:
				s.printf("            '--%s%s' \\\n", f.Long, desc)
			}
		}
		switch {
		case len(c.Args) > 0:
			s.printf("            '1:argument:(%s)'\n", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			s.printf("            '*:file:_files -g \"%s\"'\n", strings.ReplaceAll(c.FilePattern, ",", " "))
		case c.TakesFiles:
			s.printf("            '*:file:_files'\n")
		default:
			s.printf("            && return 0\n")
		}
		s.printf("        ;;\n")
	}

	s.printf("    esac\n")
	s.printf("}\n\n")
	s.printf("compdef _pdfgen pdfgen\n")
	return s.err
}

// fishEscape escapes text for a single-quoted fish string.
func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	s := &scriptWriter{w: w}

	s.printf("# fish completion for pdfgen\n")
	s.printf("complete -c pdfgen -f\n")
	for _, c := range cmds {
		s.printf("complete -c pdfgen -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := "'__fish_seen_subcommand_from " + c.Name + "'"
		for _, f := range c.Flags {
			line := "complete -c pdfgen -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d '" + fishEscape(f.Desc) + "'"
			switch f.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			s.printf("%s\n", line)
		}
		switch {
		case len(c.Args) > 0:
			s.printf("complete -c pdfgen -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.TakesFiles:
			s.printf("complete -c pdfgen -n %s -F\n", cond)
		}
	}
	return s.err
}

// psEscape escapes text for a single-quoted PowerShell string.
func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	s := &scriptWriter{w: w}

	s.printf("# PowerShell completion for pdfgen\n")
	s.printf("Register-ArgumentCompleter -Native -CommandName pdfgen -ScriptBlock {\n")
	s.printf("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	s.printf("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		s.printf("        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	s.printf("    }\n")
	s.printf("    $flags = @{\n")
	for _, c := range cmds {
		var names []string
		for _, f := range c.Flags {
			names = append(names, "'--"+f.Long+"'")
			if f.Short != "" {
				names = append(names, "'-"+f.Short+"'")
			}
		}
		for _, a := range c.Args {
			names = append(names, "'"+a+"'")
		}
		s.printf("        '%s' = @(%s)\n", c.Name, strings.Join(names, ", "))
	}
	s.printf("    }\n\n")
	s.printf("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	s.printf("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	s.printf("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	s.printf("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	s.printf("        }\n")
	s.printf("        return\n")
	s.printf("    }\n\n")
	s.printf("    $cmd = $elements[1]\n")
	s.printf("    if ($flags.ContainsKey($cmd)) {\n")
	s.printf("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	s.printf("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	s.printf("        }\n")
	s.printf("    }\n")
	s.printf("}\n")
	return s.err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgen completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(pdfgen completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(pdfgen completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    pdfgen completion fish > ~/.config/fish/completions/pdfgen.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    pdfgen completion powershell | Out-String | Invoke-Expression")
}
