package pdfgen

// Notes:
// - Embedded style contents are covered by internal/assets; these tests only
//   check the public adapter: fallback, override and error mapping.

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeCustomStyle(t *testing.T, base, name, css string) {
	t.Helper()
	dir := filepath.Join(base, "styles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".css"), []byte(css), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNewStyleLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader, err := NewStyleLoader("")
	if err != nil {
		t.Fatalf("NewStyleLoader(\"\") error = %v", err)
	}

	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		t.Errorf("LoadStyle(%q) error = %v", DefaultStyle, err)
	}
	if css == "" {
		t.Error("LoadStyle returned empty CSS for default style")
	}
}

func TestNewStyleLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewStyleLoader(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewStyleLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNewStyleLoader_CustomOverride(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	customCSS := "/* custom override */ body { color: red; }"
	writeCustomStyle(t, base, DefaultStyle, customCSS)

	loader, err := NewStyleLoader(base)
	if err != nil {
		t.Fatalf("NewStyleLoader(%q) error = %v", base, err)
	}

	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		t.Fatalf("LoadStyle error = %v", err)
	}
	if css != customCSS {
		t.Errorf("LoadStyle = %q, want custom CSS %q", css, customCSS)
	}

	// Styles missing from the custom dir fall back to embedded ones.
	if _, err := loader.LoadStyle("technical"); err != nil {
		t.Errorf("LoadStyle(technical) fallback error = %v", err)
	}
}

func TestStyleLoader_Errors(t *testing.T) {
	t.Parallel()

	loader, err := NewStyleLoader("")
	if err != nil {
		t.Fatalf("NewStyleLoader error = %v", err)
	}

	tests := []struct {
		name  string
		style string
	}{
		{name: "unknown style", style: "nonexistent-style"},
		{name: "invalid name maps to not found", style: "../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loader.LoadStyle(tt.style)
			if !errors.Is(err, ErrStyleNotFound) {
				t.Errorf("LoadStyle(%q) error = %v, want ErrStyleNotFound", tt.style, err)
			}
		})
	}
}

func TestStyleLoader_ErrorKeepsMessage(t *testing.T) {
	t.Parallel()

	loader, err := NewStyleLoader("")
	if err != nil {
		t.Fatalf("NewStyleLoader error = %v", err)
	}

	_, err = loader.LoadStyle("custom-style")
	if err == nil || !strings.Contains(err.Error(), "custom-style") {
		t.Errorf("error %v should name the style", err)
	}
}

func TestListStyles(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeCustomStyle(t, base, "brand", "body{}")

	embedded, err := ListStyles("")
	if err != nil {
		t.Fatalf("ListStyles(\"\") error = %v", err)
	}
	if !reflect.DeepEqual(embedded, []string{"default", "minimal", "technical"}) {
		t.Errorf("ListStyles(\"\") = %v", embedded)
	}

	all, err := ListStyles(base)
	if err != nil {
		t.Fatalf("ListStyles(base) error = %v", err)
	}
	if !reflect.DeepEqual(all, []string{"brand", "default", "minimal", "technical"}) {
		t.Errorf("ListStyles(base) = %v", all)
	}
}

// ---------------------------------------------------------------------------
// TestWrapError - Public sentinel wrapping
// ---------------------------------------------------------------------------

func TestWrapError(t *testing.T) {
	t.Parallel()

	original := errors.New("original error message")
	sentinel := errors.New("sentinel")

	wrapped := wrapError(sentinel, original)

	if wrapped.Error() != original.Error() {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), original.Error())
	}
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is(wrapped, sentinel) should be true")
	}
	if errors.Is(wrapped, original) {
		t.Error("errors.Is(wrapped, original) should be false")
	}
}

func TestConvertAssetError(t *testing.T) {
	t.Parallel()

	if convertAssetError(nil) != nil {
		t.Error("convertAssetError(nil) should be nil")
	}

	// Errors that already carry a public sentinel pass through unchanged.
	public := wrapError(ErrStyleNotFound, errors.New("x"))
	if got := convertAssetError(public); got != public {
		t.Errorf("convertAssetError(public) = %v, want the same error", got)
	}

	other := errors.New("disk on fire")
	if got := convertAssetError(other); got != other {
		t.Errorf("convertAssetError(other) = %v, want the same error", got)
	}
}
