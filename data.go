package pdfgen

import (
	"fmt"

	"github.com/alnah/go-pdfgen/internal/yamlutil"
)

// Data is the binding passed to a template: either a map or a record
// (struct or pointer to struct). The zero Data binds an empty map.
type Data struct {
	m      map[string]any
	record any
	isRec  bool
}

// Map binds a map as-is.
func Map(m map[string]any) Data {
	return Data{m: m}
}

// Record binds a struct. Fields are keyed by their yaml tag, then their
// json tag, then the lower-cased field name.
func Record(v any) Data {
	return Data{record: v, isRec: true}
}

// DataMapping overrides the global binding per template identifier.
// An entry replaces the global binding entirely for that identifier.
type DataMapping map[string]Data

// Canonicalize returns the binding as a map. A map binding is returned
// without copying; a record is converted through the YAML codec.
func (d Data) Canonicalize() (map[string]any, error) {
	if !d.isRec {
		if d.m == nil {
			return map[string]any{}, nil
		}
		return d.m, nil
	}
	if d.record == nil {
		return map[string]any{}, nil
	}
	if m, ok := d.record.(map[string]any); ok {
		return m, nil
	}

	var out map[string]any
	if err := yamlutil.Convert(d.record, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if out == nil {
		// A nil pointer record encodes as null.
		out = map[string]any{}
	}
	return out, nil
}

// canonicalize converts every entry of the mapping.
func (dm DataMapping) canonicalize() (map[string]map[string]any, error) {
	if len(dm) == 0 {
		return nil, nil
	}
	out := make(map[string]map[string]any, len(dm))
	for id, d := range dm {
		m, err := d.Canonicalize()
		if err != nil {
			return nil, fmt.Errorf("data mapping %q: %w", id, err)
		}
		out[id] = m
	}
	return out, nil
}
