package pdfgen

import (
	"os"

	"github.com/alnah/go-pdfgen/internal/fileutil"
)

type sourceKind int

const (
	sourceAuto sourceKind = iota
	sourceString
	sourceFile
)

// Source is the HTML input of NewFromHTML.
type Source struct {
	kind  sourceKind
	value string
}

// HTMLString uses s as the document content.
func HTMLString(s string) Source {
	return Source{kind: sourceString, value: s}
}

// HTMLFile reads the document from path. The file must exist.
func HTMLFile(path string) Source {
	return Source{kind: sourceFile, value: path}
}

// AutoHTML reads s as a file when it names an existing regular file and
// uses s verbatim otherwise. A path that does not exist is not an error.
func AutoHTML(s string) Source {
	return Source{kind: sourceAuto, value: s}
}

// read returns the HTML content. File errors come back as produced by os.
func (s Source) read() (string, error) {
	switch s.kind {
	case sourceString:
		return s.value, nil
	case sourceFile:
		return readFile(s.value)
	default:
		if s.value == "" || !fileutil.FileExists(s.value) {
			return s.value, nil
		}
		return readFile(s.value)
	}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", err
	}
	return string(data), nil
}
