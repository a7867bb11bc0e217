// Package datafile loads template data from YAML, JSON and TOML files and
// applies key=value overrides.
package datafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/alnah/go-pdfgen/internal/yamlutil"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported data file format")
	ErrParse             = errors.New("failed to parse data file")
	ErrInvalidKey        = errors.New("invalid data key")
	ErrKeyConflict       = errors.New("data key conflicts with a non-mapping value")
	ErrInvalidAssignment = errors.New("invalid assignment, want key=value")
)

// Format identifies a data file syntax.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatTOML
)

// FormatOf returns the format implied by the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// Load reads a data file into a map. An empty file yields an empty map.
// Read errors are returned unwrapped so callers can test fs.ErrNotExist.
func Load(path string) (map[string]any, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- data path is user-provided
	if err != nil {
		return nil, err
	}

	data, err := Decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Decode parses raw bytes in the given format.
func Decode(raw []byte, format Format) (map[string]any, error) {
	data := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}

	var err error
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a YAML subset; goccy/go-yaml reads both.
		err = yamlutil.Unmarshal(raw, &data)
	case FormatTOML:
		err = toml.Unmarshal(raw, &data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if data == nil {
		// "null" or "~" documents
		data = map[string]any{}
	}
	return data, nil
}

// LoadAll loads every path in order and merges the results. Later files
// win on conflicting keys; nested mappings are merged key by key.
func LoadAll(paths []string) (map[string]any, error) {
	merged := map[string]any{}
	for _, p := range paths {
		data, err := Load(p)
		if err != nil {
			return nil, err
		}
		Merge(merged, data)
	}
	return merged, nil
}

// Merge copies src into dst. When both sides hold a mapping under the same
// key the mappings are merged recursively; otherwise src replaces dst.
func Merge(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			Merge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

// ParseAssignment splits "key=value" at the first '='.
func ParseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidAssignment, s)
	}
	return key, value, nil
}

// Set stores value under a dotted key, creating intermediate mappings.
// "client.address.city" writes data["client"]["address"]["city"].
func Set(data map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	node := data
	for i, p := range parts[:len(parts)-1] {
		next, exists := node[p]
		if !exists {
			child := map[string]any{}
			node[p] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrKeyConflict, strings.Join(parts[:i+1], "."))
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
	return nil
}
