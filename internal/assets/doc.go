// Package assets provides the named CSS styles used by documents.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - styles compiled into the binary
//	    ├── FilesystemLoader  - styles from {basePath}/styles/{name}.css
//	    └── StyleResolver     - custom-first lookup with embedded fallback
//
// StyleResolver is what the generator uses: a style present in the custom
// directory overrides the embedded one of the same name, anything else falls
// back to the embedded set.
//
// # Security
//
// Style names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
