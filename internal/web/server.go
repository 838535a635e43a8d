// Package web serves the upload form and runs generation for uploaded
// workbooks. One generation per request, fully synchronous.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/knakagawa/harigami/internal/config"
	"github.com/knakagawa/harigami/internal/generate"
	"github.com/knakagawa/harigami/internal/workorder"
)

const maxUploadBytes = 32 << 20

// Server handles the upload UI.
type Server struct {
	cfg    config.Config
	logger *slog.Logger
	pages  *template.Template
}

// New returns a Server for the given configuration.
func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		pages:  template.Must(template.New("pages").Parse(pageTemplates)),
	}
}

// Handler returns the HTTP handler of the upload UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", map[string]any{
		"SheetName":    s.cfg.SheetName,
		"TemplatePath": s.cfg.TemplatePath,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderError(w, http.StatusBadRequest, fmt.Sprintf("アップロードを読み込めません: %v", err))
		return
	}

	workbookBytes, err := formFileBytes(r, "workbook")
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Excelファイルを選択してください")
		return
	}

	tmpl, err := s.templateSource(r)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, fmt.Sprintf("テンプレートを読み込めません: %v", err))
		return
	}

	wb, err := workorder.OpenReader(bytes.NewReader(workbookBytes))
	if err != nil {
		s.renderError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Excelファイルを読み込めません: %v", err))
		return
	}
	defer wb.Close()

	records, err := wb.Records(s.cfg.SheetName)
	if err != nil {
		s.renderError(w, http.StatusUnprocessableEntity, fmt.Sprintf("作業指示書を読み込めません: %v", err))
		return
	}

	workDir, err := os.MkdirTemp("", "harigami-")
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, fmt.Sprintf("作業ディレクトリを作成できません: %v", err))
		return
	}
	defer os.RemoveAll(workDir)

	gen := generate.New(tmpl, workDir, s.logger)
	gen.Progress = func(done, total int) {
		s.logger.Debug("processing row", "done", done, "total", total)
	}

	report, err := gen.Run(records)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, fmt.Sprintf("文書生成に失敗しました: %v", err))
		return
	}
	defer generate.Cleanup(report)

	if report.Generated() == 0 {
		s.renderError(w, http.StatusUnprocessableEntity, "文書の生成に失敗したか、対象データがありません")
		return
	}

	s.logger.Info("request complete", "generated", report.Generated(), "total", report.Total)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.ArchiveName))
	if err := generate.Archive(w, report); err != nil {
		// headers are out, all that is left is logging
		s.logger.Error("writing archive", "err", err)
	}
}

// templateSource prefers an uploaded template file over the configured default.
func (s *Server) templateSource(r *http.Request) (generate.Template, error) {
	data, err := formFileBytes(r, "template")
	if err == nil {
		return generate.TemplateFromBytes(data)
	}
	return generate.TemplateFromFile(s.cfg.TemplatePath)
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, page, data); err != nil {
		s.logger.Error("rendering page", "page", page, "err", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	s.render(w, status, "error", map[string]any{"Message": message})
}
