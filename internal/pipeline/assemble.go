package pipeline

// PrepareHTML builds the document handed to the browser: content with a
// <base href> (when baseHref is set and the document has none) and one
// <style> block per stylesheet, in order. Nothing else in content changes.
func PrepareHTML(content, baseHref string, sheets []string) string {
	return InjectStylesheets(InjectBase(content, baseHref), sheets)
}
