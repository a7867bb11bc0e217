package pdfgen

import (
	"strconv"
	"strings"
)

// buildPageCSS compiles a page style into the @page block placed before
// every other stylesheet. A raw override is returned verbatim.
func buildPageCSS(style *PageStyle) string {
	if raw, ok := style.Raw(); ok {
		return raw
	}
	cfg := style.Config()

	var buf strings.Builder
	buf.WriteString("@page {\n")
	buf.WriteString("    size: " + cfg.Size + ";\n")
	buf.WriteString("    margin: " + formatMargin(cfg.Margin, cfg.MarginUnit) + ";\n")
	buf.WriteString("    orientation: " + cfg.Orientation + ";\n")
	buf.WriteString("}")
	return buf.String()
}

// formatMargin renders one value for a uniform margin and four otherwise.
// Zero stays unitless.
func formatMargin(m Margin, unit string) string {
	if m.IsUniform() {
		return formatLength(m.sides[0], unit)
	}
	parts := make([]string, len(m.sides))
	for i, v := range m.sides {
		parts[i] = formatLength(v, unit)
	}
	return strings.Join(parts, " ")
}

func formatLength(v int, unit string) string {
	if v == 0 || unit == "" {
		return strconv.Itoa(v)
	}
	return strconv.Itoa(v) + unit
}
