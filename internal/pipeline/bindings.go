package pipeline

// Bindings holds the canonical data used to render a template set: one
// global record plus per-identifier overrides.
type Bindings struct {
	Global  map[string]any
	Mapping map[string]map[string]any
}

// For returns the data for identifier id. An override strictly replaces the
// global record; there is no merging. An empty id never matches an override.
func (b Bindings) For(id string) map[string]any {
	if id != "" {
		if data, ok := b.Mapping[id]; ok {
			return nonNil(data)
		}
	}
	return nonNil(b.Global)
}

// Overridden reports whether id has its own data.
func (b Bindings) Overridden(id string) bool {
	if id == "" {
		return false
	}
	_, ok := b.Mapping[id]
	return ok
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
