// Package ui hosts the minimal file-picker front-end: a local web page
// where the operator drops delimited exports and gets the converted
// workbook back as a download. It is a thin adapter over the same
// pipeline the CLI uses.
package ui

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"netconvert/adapters/excel"
	"netconvert/internal/config"
	"netconvert/internal/pipeline"
)

const maxUploadBytes = 64 << 20 // 64MB across all files in one request

// Server is the picker web server.
type Server struct {
	router    chi.Router
	converter *pipeline.Converter
	writer    *excel.Writer
	tmpl      *template.Template
	addr      string
}

// NewServer wires the picker around the shared conversion pipeline.
func NewServer(cfg config.Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		converter: pipeline.NewConverter(cfg),
		writer:    excel.NewWriter(excel.DefaultWriterConfig()),
		tmpl:      template.Must(template.New("picker").Parse(pickerPage)),
		addr:      cfg.ListenAddr,
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Get("/", s.handleIndex)
	s.router.Post("/convert", s.handleConvert)

	return s
}

// Router exposes the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the picker UI.
func (s *Server) ListenAndServe() error {
	log.Printf("[UI] picker listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

type pageData struct {
	Error string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, pageData{})
}

// handleConvert accepts one or more uploaded exports, runs the pipeline,
// and streams the workbook back as an attachment. Files that fail to
// parse are skipped; the run only errors when nothing converted.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderError(w, http.StatusBadRequest, "upload too large or malformed form")
		return
	}

	var inputs []pipeline.Input
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				s.renderError(w, http.StatusBadRequest, fmt.Sprintf("open upload %s: %v", header.Filename, err))
				return
			}
			raw, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				s.renderError(w, http.StatusBadRequest, fmt.Sprintf("read upload %s: %v", header.Filename, err))
				return
			}
			inputs = append(inputs, pipeline.Input{Name: header.Filename, Text: string(raw)})
		}
	}

	report, err := s.converter.ConvertInputs(inputs)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "no files selected")
		return
	}
	if len(report.Sheets) == 0 {
		s.renderError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("none of the %d file(s) could be parsed", len(report.Skipped)))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="converted.xlsx"`)
	if err := s.writer.WriteTo(report.Sheets, w); err != nil {
		log.Printf("[UI] run %s: workbook write failed: %v", report.RunID, err)
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("[UI] template render failed: %v", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	// Headers must be in place before the status line goes out.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, pageData{Error: msg}); err != nil {
		log.Printf("[UI] template render failed: %v", err)
	}
}

const pickerPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Network Data Converter</title>
<style>
body { font-family: sans-serif; max-width: 560px; margin: 3rem auto; }
fieldset { border: 1px solid #ccc; padding: 1.5rem; }
.error { color: #b00020; margin-bottom: 1rem; }
button { margin-top: 1rem; padding: 0.5rem 1.5rem; }
</style>
</head>
<body>
<h1>Network Data Converter</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/convert" enctype="multipart/form-data">
<fieldset>
<legend>Delimited exports (.txt / .csv)</legend>
<input type="file" name="files" multiple required>
<br>
<button type="submit">Convert to XLSX</button>
</fieldset>
</form>
</body>
</html>
`
