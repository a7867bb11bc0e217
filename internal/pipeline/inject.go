package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-pdfgen/internal/fileutil"
)

// anchors records byte offsets in a document where elements can be inserted
// without reserializing it. A value of -1 means the landmark is absent.
type anchors struct {
	headOpenEnd int // just after <head ...>
	headClose   int // at </head>
	bodyOpenEnd int // just after <body ...>
	htmlOpenEnd int // just after <html ...>
	doctypeEnd  int // just after <!DOCTYPE ...>
	hasBase     bool
}

// locate scans the document with the x/net/html tokenizer. Markup inside
// comments, scripts and raw text never counts as a landmark.
func locate(content string) anchors {
	a := anchors{headOpenEnd: -1, headClose: -1, bodyOpenEnd: -1, htmlOpenEnd: -1, doctypeEnd: -1}

	z := html.NewTokenizer(strings.NewReader(content))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return a
		}
		offset += len(z.Raw())

		switch tt {
		case html.DoctypeToken:
			if a.doctypeEnd < 0 {
				a.doctypeEnd = offset
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html:
				if a.htmlOpenEnd < 0 {
					a.htmlOpenEnd = offset
				}
			case atom.Head:
				if a.headOpenEnd < 0 {
					a.headOpenEnd = offset
				}
			case atom.Base:
				a.hasBase = true
			case atom.Body:
				if a.bodyOpenEnd < 0 {
					a.bodyOpenEnd = offset
				}
				return a
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Head && a.headClose < 0 {
				a.headClose = offset - len(z.Raw())
				return a
			}
		}
	}
}

// headStart is where elements that must precede the rest of the head go.
// Falls back to after <html>, then after the doctype, then the very start,
// so that nothing is ever placed before a doctype.
func (a anchors) headStart() int {
	switch {
	case a.headOpenEnd >= 0:
		return a.headOpenEnd
	case a.htmlOpenEnd >= 0:
		return a.htmlOpenEnd
	case a.doctypeEnd >= 0:
		return a.doctypeEnd
	default:
		return 0
	}
}

// styleBlock renders stylesheets as consecutive <style> elements, in order.
func styleBlock(sheets []string) string {
	var b strings.Builder
	for _, css := range sheets {
		if css == "" {
			continue
		}
		b.WriteString("<style>")
		b.WriteString(sanitizeCSS(css))
		b.WriteString("</style>")
	}
	return b.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// InjectStylesheets inserts one <style> block per stylesheet into the
// document, preserving order. Tries </head> first, then just after <body>,
// then the start of the head.
func InjectStylesheets(content string, sheets []string) string {
	block := styleBlock(sheets)
	if block == "" {
		return content
	}

	a := locate(content)
	pos := a.headStart()
	switch {
	case a.headClose >= 0:
		pos = a.headClose
	case a.bodyOpenEnd >= 0:
		pos = a.bodyOpenEnd
	}
	return content[:pos] + block + content[pos:]
}

// InjectBase inserts <base href> at the start of the head so that relative
// URLs in the document resolve against href. A document that already
// declares its own base is left untouched.
func InjectBase(content, href string) string {
	if href == "" {
		return content
	}
	a := locate(content)
	if a.hasBase {
		return content
	}
	pos := a.headStart()
	return content[:pos] + `<base href="` + html.EscapeString(href) + `">` + content[pos:]
}

// ErrInvalidBaseURL indicates the base URL could not be turned into a URL the
// browser accepts.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// BaseHref converts a base URL setting into an absolute href. URLs are kept
// as-is; filesystem paths become file:// directory URLs ("/" gives
// "file:///").
func BaseHref(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}
	if fileutil.IsURL(baseURL) {
		if _, err := url.Parse(baseURL); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
		}
		return baseURL, nil
	}

	abs, err := filepath.Abs(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	href := pathToFileURL(abs)
	if !strings.HasSuffix(href, "/") {
		href += "/"
	}
	return href, nil
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths need a leading slash: file:///C:/dir
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
