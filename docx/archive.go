package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

const (
	// DocumentPart is the relative path of the main body inside the docx archive.
	DocumentPart = "word/document.xml"
)

var (
	// headerPartRegex matches all header parts inside the docx archive.
	headerPartRegex = regexp.MustCompile(`word/header[0-9]*\.xml`)
	// footerPartRegex matches all footer parts inside the docx archive.
	footerPartRegex = regexp.MustCompile(`word/footer[0-9]*\.xml`)
)

// Document is an opened docx archive. A docx file is a zip of XML parts; only the
// parts carrying visible text (the body, headers and footers) are parsed and may be
// modified, everything else is copied through verbatim on save.
type Document struct {
	path    string
	zipFile *zip.ReadCloser // nil when opened from bytes
	files   []*zip.File

	// modifiable parts, keyed by part name
	parts map[string][]byte
	// part names in processing order: body first, then headers, then footers
	partNames []string
	// parsed paragraph tree per part
	paragraphs map[string][]*Paragraph
}

// Open opens and parses the docx file at path.
func Open(path string) (*Document, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open docx archive %s: %w", path, err)
	}
	doc, err := newDocument(rc.File, path)
	if err != nil {
		rc.Close()
		return nil, err
	}
	doc.zipFile = rc
	return doc, nil
}

// OpenBytes parses a docx archive from an in-memory byte slice.
// The slice is only read, never written, so the same template bytes can be opened
// once per generated document to start each run from a pristine template.
func OpenBytes(b []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("unable to open docx archive: %w", err)
	}
	return newDocument(zr.File, "")
}

func newDocument(files []*zip.File, path string) (*Document, error) {
	doc := &Document{
		path:       path,
		files:      files,
		parts:      make(map[string][]byte),
		paragraphs: make(map[string][]*Paragraph),
	}

	var headers, footers []string
	for _, file := range files {
		switch {
		case file.Name == DocumentPart:
			data, err := readZipFile(file)
			if err != nil {
				return nil, err
			}
			doc.parts[DocumentPart] = data
		case headerPartRegex.MatchString(file.Name):
			data, err := readZipFile(file)
			if err != nil {
				return nil, err
			}
			doc.parts[file.Name] = data
			headers = append(headers, file.Name)
		case footerPartRegex.MatchString(file.Name):
			data, err := readZipFile(file)
			if err != nil {
				return nil, err
			}
			doc.parts[file.Name] = data
			footers = append(footers, file.Name)
		}
	}

	if _, exists := doc.parts[DocumentPart]; !exists {
		return nil, fmt.Errorf("invalid docx archive, %s is missing", DocumentPart)
	}

	// fixed part order keeps replacement deterministic
	sort.Strings(headers)
	sort.Strings(footers)
	doc.partNames = append([]string{DocumentPart}, headers...)
	doc.partNames = append(doc.partNames, footers...)

	for _, name := range doc.partNames {
		paragraphs, err := parseParagraphs(doc.parts[name])
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		doc.paragraphs[name] = paragraphs
	}

	return doc, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", file.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file.Name, err)
	}
	return data, nil
}

// Part returns the current bytes of the given part, or nil if the part is unknown.
func (d *Document) Part(name string) []byte {
	return d.parts[name]
}

// PartNames returns the modifiable part names in processing order.
func (d *Document) PartNames() []string {
	return d.partNames
}

// Paragraphs returns the parsed paragraphs of the given part.
func (d *Document) Paragraphs(part string) []*Paragraph {
	return d.paragraphs[part]
}

// Plaintext returns the visible text of the given part bytes with all tags stripped.
func Plaintext(data []byte) string {
	var sb strings.Builder
	tokenizer := html.NewTokenizer(bytes.NewReader(data))
	for {
		tok := tokenizer.Next()
		if tok == html.ErrorToken {
			break
		}
		if tok == html.TextToken {
			sb.Write(tokenizer.Text())
		}
	}
	return sb.String()
}

// WriteToFile writes the document to a new file.
// The target may not be the original archive, which is still open for reading.
func (d *Document) WriteToFile(path string) error {
	if path == d.path && path != "" {
		return fmt.Errorf("cannot write into the original docx archive %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to ensure path directories: %w", err)
	}
	target, err := os.Create(path)
	if err != nil {
		return err
	}
	defer target.Close()
	return d.Write(target)
}

// Write assembles a new docx archive from the modified parts plus all remaining
// files of the original archive.
func (d *Document) Write(writer io.Writer) error {
	zipWriter := zip.NewWriter(writer)
	defer zipWriter.Close()

	for _, file := range d.files {
		fw, err := zipWriter.Create(file.Name)
		if err != nil {
			return fmt.Errorf("unable to create %s in archive: %w", file.Name, err)
		}

		if part, modified := d.parts[file.Name]; modified {
			if _, err := fw.Write(part); err != nil {
				return fmt.Errorf("unable to write part %s: %w", file.Name, err)
			}
			continue
		}

		// untouched files are copied from the original archive
		data, err := readZipFile(file)
		if err != nil {
			return err
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("unable to write %s: %w", file.Name, err)
		}
	}
	return nil
}

// Close releases the underlying file handle, if the document was opened from a path.
func (d *Document) Close() error {
	if d.zipFile != nil {
		return d.zipFile.Close()
	}
	return nil
}
