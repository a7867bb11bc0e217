// Package pipeline implements the document assembly stages.
//
// The stages run in this order for a from-template document:
//   - TemplateAssembler discovers and renders templates (directory or single
//     file) with per-template data from Bindings
//   - GoldmarkConverter turns rendered Markdown templates into HTML fragments
//
// and at render time, for every document:
//   - StylesheetResolver expands stylesheet descriptors into ordered CSS texts
//     and lints them with the tdewolff CSS parser
//   - PrepareHTML injects the base URL and the <style> blocks
//
// PDF generation is handled separately by the root pdfgen package using
// headless Chrome (go-rod). Nothing in this package talks to the browser.
package pipeline
