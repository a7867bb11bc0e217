package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfgen"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorReport holds all diagnostic information.
type doctorReport struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Browser  browserCheck `json:"browser"`
	Env      envCheck     `json:"environment"`
	Render   renderCheck  `json:"render"`
	Styles   []string     `json:"styles"`
	System   systemCheck  `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// browserCheck holds Chrome/Chromium detection results.
type browserCheck struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envCheck holds environment detection results.
type envCheck struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// renderCheck reports the parallelism batches would use.
type renderCheck struct {
	GOMAXPROCS  int `json:"gomaxprocs"`
	AutoWorkers int `json:"auto_workers"`
	MaxWorkers  int `json:"max_workers"`
}

// systemCheck holds system check results.
type systemCheck struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json      bool
	assetPath string
}

// newDoctorFlagSet registers the doctor command flags.
func newDoctorFlagSet(stderr io.Writer) (*flag.FlagSet, *doctorFlags) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory to list")
	fs.SetOutput(stderr)
	fs.Usage = func() { printDoctorUsage(stderr) }
	return fs, f
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = ready (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs, f := newDoctorFlagSet(env.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	report := runDoctor(f.assetPath)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(assetPath string) *doctorReport {
	report := &doctorReport{
		Status: statusReady,
		Env: envCheck{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
		Render: renderCheck{
			GOMAXPROCS:  runtime.GOMAXPROCS(0),
			AutoWorkers: pdfgen.ResolvePoolSize(0),
			MaxWorkers:  pdfgen.MaxPoolSize,
		},
	}

	checkBrowser(report)
	checkEnvironment(report)
	checkStyles(report, assetPath)
	checkSystem(report)

	switch {
	case len(report.Errors) > 0:
		report.Status = statusErrors
	case len(report.Warnings) > 0:
		report.Status = statusWarnings
	}
	return report
}

// checkBrowser detects the Chrome/Chromium installation rod would launch.
func checkBrowser(report *doctorReport) {
	path := report.Env.BrowserBin
	if path == "" {
		var found bool
		path, found = launcher.LookPath()
		if !found {
			report.Errors = append(report.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(path); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Chrome not found at %s", path))
		return
	}

	report.Browser.Found = true
	report.Browser.Path = path

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from rod lookup or ROD_BROWSER_BIN
	if err == nil {
		report.Browser.Version = strings.TrimSpace(string(out))
	} else {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	report.Browser.Sandbox = report.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(report *doctorReport) {
	report.Env.Container, report.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			report.Env.CI = true
			break
		}
	}

	if (report.Env.Container || report.Env.CI) && report.Env.NoSandbox != "1" {
		report.Warnings = append(report.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint names the detected signal.
func isContainer() (bool, string) {
	if os.Getenv("PDFGEN_CONTAINER") == "1" {
		return true, "PDFGEN_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkStyles lists the built-in styles (or those of assetPath).
func checkStyles(report *doctorReport, assetPath string) {
	styles, err := pdfgen.ListStyles(assetPath)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Cannot list styles: %v", err))
		return
	}
	report.Styles = styles
	if len(styles) == 0 {
		report.Warnings = append(report.Warnings, "No styles available")
	}
}

// checkSystem verifies the browser can exchange files through the temp dir.
func checkSystem(report *doctorReport) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "pdfgen-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	report.System.TempWritable = true
}

// printDoctorReport outputs human-readable diagnostic results.
func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "pdfgen doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Rendering")
	fmt.Fprintf(w, "  [OK] Workers: %d auto, %d max (GOMAXPROCS %d)\n",
		r.Render.AutoWorkers, r.Render.MaxWorkers, r.Render.GOMAXPROCS)
	if len(r.Styles) > 0 {
		fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.Styles, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
