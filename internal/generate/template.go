// Package generate runs the per-row notice generation pipeline: spreadsheet
// record in, sanitized docx file out, everything bundled into one zip archive.
package generate

import (
	"fmt"
	"os"

	"github.com/knakagawa/harigami/docx"
)

// Template is the read-only source of the notice template. Every generated
// document re-parses the source so each row starts from a pristine template.
type Template struct {
	path string
	data []byte
}

// TemplateFromFile loads the template at path into memory. A missing or
// unreadable template aborts the whole run before any row is processed.
func TemplateFromFile(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("template %s: %w", path, err)
	}
	t := Template{path: path, data: data}
	if err := t.validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

// TemplateFromBytes wraps an uploaded template held in memory.
func TemplateFromBytes(data []byte) (Template, error) {
	t := Template{data: data}
	if err := t.validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

func (t Template) validate() error {
	doc, err := docx.OpenBytes(t.data)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	return doc.Close()
}

// Open parses a fresh document from the template source.
func (t Template) Open() (*docx.Document, error) {
	return docx.OpenBytes(t.data)
}
