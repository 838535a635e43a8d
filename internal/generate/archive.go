package generate

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultArchiveName is the fixed download name of the result bundle.
const DefaultArchiveName = "generated_word_documents.zip"

// Archive writes all generated documents of the report into one zip archive.
// Entries carry the base filename only, no directory component.
func Archive(w io.Writer, report *Report) error {
	zw := zip.NewWriter(w)

	for _, path := range report.Paths() {
		entry, err := zw.Create(filepath.Base(path))
		if err != nil {
			return fmt.Errorf("archive entry %s: %w", filepath.Base(path), err)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("archive read %s: %w", path, err)
		}
		if _, err := io.Copy(entry, f); err != nil {
			f.Close()
			return fmt.Errorf("archive write %s: %w", path, err)
		}
		f.Close()
	}
	return zw.Close()
}

// Cleanup deletes the generated documents. No document outlives the generation
// run once the archive has been written.
func Cleanup(report *Report) {
	for _, path := range report.Paths() {
		os.Remove(path)
	}
}
