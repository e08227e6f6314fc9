package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/charts"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/report"
)

// ErrorBody is the payload of every JSON error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// DashboardResponse is the payload of /api/dashboard.
type DashboardResponse struct {
	*analyzer.Dashboard
	Charts map[string]charts.Figure `json:"charts"`
	Active []string                 `json:"active_filters"`
}

// HealthResponse is the payload of /health.
type HealthResponse struct {
	Status   string    `json:"status"`
	Records  int       `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Version  string    `json:"version,omitempty"`
}

// writeJSON writes a JSON response with the given status. The body is encoded
// before the status is sent, so an encoding failure still yields a 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal","message":"failed to encode response"}}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError writes a standardized JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: RequestID(r.Context()),
	}})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Tool:     s.config.Tool,
		Version:  s.config.Version,
		Source:   s.dataset.Source(),
		Sections: sections,
		Exports:  report.Exports,
	})
	if err != nil {
		slog.Error("Failed to render page", "error", err)
		http.Error(w, "page rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	criteria, err := portfolio.ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_criteria", err.Error())
		return
	}

	timer := s.metrics.StartRecompute()
	full := s.dataset.Records()
	filtered := portfolio.Filter(full, criteria)
	d := analyzer.Analyze(filtered, full, analyzer.AnalyzerConfig{TableRows: s.config.TableRows})
	d.Criteria = criteria
	resp := DashboardResponse{
		Dashboard: d,
		Charts:    charts.BuildAll(filtered),
		Active:    criteria.Describe(),
	}
	timer.Stop()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.filterOptions())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(mux.Vars(r)["format"])
	if err != nil || !slices.Contains(report.Exports, format) {
		writeError(w, r, http.StatusBadRequest, "unsupported_format",
			fmt.Sprintf("unsupported export format %q (use xlsx, html or pdf)", mux.Vars(r)["format"]))
		return
	}
	criteria, err := portfolio.ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_criteria", err.Error())
		return
	}

	now := s.now()
	full := s.dataset.Records()
	data := report.Data{
		Tool:      s.config.Tool,
		Version:   s.config.Version,
		Generated: now,
		Source:    s.dataset.Source(),
		Criteria:  criteria,
		Records:   portfolio.Filter(full, criteria),
		Full:      full,
		TableRows: s.config.TableRows,
	}

	var buf bytes.Buffer
	reporter, err := s.newReporter(format, &buf)
	if err == nil {
		err = generate(reporter, data)
	}
	s.metrics.RecordExport(string(format), err)
	if err != nil {
		slog.Error("Export failed", "format", format, "request_id", RequestID(r.Context()), "error", err)
		writeExportError(w, err)
		return
	}

	slog.Debug("Export generated", "format", format, "records", len(data.Records), "bytes", buf.Len())
	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("Content-Disposition", attachment(report.FileName(format, now)))
	_, _ = w.Write(buf.Bytes())
}

// generate runs the reporter, turning a panic in a rendering library into an error.
func generate(reporter report.Reporter, data report.Data) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("report generation panicked: %v", p)
		}
	}()
	return reporter.Generate(data)
}

// writeExportError sends the failure as a small text download so the browser
// shows something instead of a broken file.
func writeExportError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("erreur.txt"))
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintf(w, "⚠️ Export impossible : %v\n", err)
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Records:  s.dataset.Len(),
		Source:   s.dataset.Source(),
		LoadedAt: s.dataset.LoadedAt(),
		Version:  s.config.Version,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not_found", "The requested endpoint does not exist")
}
