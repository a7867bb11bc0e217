// Package engine renders text templates on behalf of the document pipeline.
//
// The pipeline only needs three things from a template engine: open a set of
// templates rooted at a directory, list the identifiers in that set in a
// stable order, and render one identifier (or one ad-hoc template) against a
// canonical data map. Engine, Set and Template capture exactly that.
//
// # Identifiers
//
// An identifier is the slash-separated path of a file relative to the set's
// root, for example "partials/header.html". Every regular file below the
// root, and every symlink to one, is part of the set, so templates can
// include each other by identifier:
//
//	{{template "partials/header.html" .}}
//
// # Default Engine
//
// HTMLEngine installs the slim-sprig function map. HTML and XML identifiers
// (see AutoEscapes) render through html/template with contextual escaping;
// other identifiers and standalone templates render through text/template
// unescaped. Identifiers are ordered lexically; WithNaturalOrder switches to
// natural ordering ("page2" before "page10").
package engine
