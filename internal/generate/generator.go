package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/knakagawa/harigami/docx"
	"github.com/knakagawa/harigami/internal/workorder"
)

// Progress is invoked once per processed row with the number of rows handled so
// far and the total row count.
type Progress func(done, total int)

// RowResult is the outcome of one work-order row: either a generated document
// path or a skip reason. Row-level failures are contained here and never abort
// the batch.
type RowResult struct {
	Row  int
	Name string
	Path string
	Err  error
}

// Generated reports whether the row produced a document.
func (r RowResult) Generated() bool {
	return r.Err == nil
}

// Report accumulates the outcome of one generation run.
type Report struct {
	Total   int
	Results []RowResult
}

// Generated returns the number of rows which produced a document.
func (r *Report) Generated() int {
	n := 0
	for _, res := range r.Results {
		if res.Generated() {
			n++
		}
	}
	return n
}

// Paths returns the generated document paths in row order.
func (r *Report) Paths() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Generated() {
			paths = append(paths, res.Path)
		}
	}
	return paths
}

// Generator turns work-order records into notice documents, one row at a time.
type Generator struct {
	Template  Template
	OutputDir string
	Table     []docx.Placeholder
	Progress  Progress
	Logger    *slog.Logger
}

// New returns a Generator using the default placeholder table.
func New(template Template, outputDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		Template:  template,
		OutputDir: outputDir,
		Table:     docx.DefaultPlaceholders,
		Logger:    logger,
	}
}

// Run processes all records sequentially and returns the per-row report.
// Documents are written into OutputDir; they belong to this run only and are
// expected to be removed via Cleanup once archived.
func (g *Generator) Run(records []workorder.Record) (*Report, error) {
	report := &Report{Total: len(records)}

	if doc, err := g.Template.Open(); err == nil {
		if !doc.ContainsTokens(g.Table) {
			g.Logger.Warn("template contains no known placeholder tokens")
		}
		doc.Close()
	}

	// one filename per document even when sanitizing collides
	seen := make(map[string]int)

	for i, rec := range records {
		if g.Progress != nil {
			g.Progress(i+1, report.Total)
		}
		result := g.generateRow(rec, seen)
		if result.Err != nil {
			g.Logger.Warn("row skipped", "row", rec.Row, "reason", result.Err)
		}
		report.Results = append(report.Results, result)
	}

	g.Logger.Info("generation finished", "generated", report.Generated(), "total", report.Total)
	return report, nil
}

func (g *Generator) generateRow(rec workorder.Record, seen map[string]int) RowResult {
	result := RowResult{Row: rec.Row, Name: rec.Name}

	if !rec.Valid() {
		result.Err = rec.Err
		return result
	}

	doc, err := g.Template.Open()
	if err != nil {
		result.Err = fmt.Errorf("open template: %w", err)
		return result
	}
	defer doc.Close()

	if err := doc.ReplaceAll(g.Table, rec.Replacements()); err != nil {
		result.Err = fmt.Errorf("substitute: %w", err)
		return result
	}

	base := SafeBaseName(rec.Name)
	seen[base]++
	if n := seen[base]; n > 1 {
		base = fmt.Sprintf("%s_%d", base, n)
	}

	path := filepath.Join(g.OutputDir, base+".docx")
	if err := doc.WriteToFile(path); err != nil {
		result.Err = fmt.Errorf("save document: %w", err)
		return result
	}

	result.Path = path
	return result
}
