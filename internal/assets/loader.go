package assets

// StyleLoader loads named CSS styles.
type StyleLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// ListStyles returns the available style names, sorted.
	ListStyles() ([]string, error)
}

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"
