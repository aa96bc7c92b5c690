package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-growth-dashboard/pkg/logger"
)

const (
	// RootMessage is returned by GET /.
	RootMessage = "AI Business Automation Suite is running!"
	// APIKeyHeader overrides the configured credential for one request.
	APIKeyHeader = "X-Brevo-Api-Key"
	// MockParam toggles demo mode for one request ("1" or "0").
	MockParam = "mock"

	defaultMaxUpload = 10 << 20
)

// Handlers exposes the dashboard over net/http.
type Handlers struct {
	Reports    gocommand.Querier[dashboard.RenderRequest, dashboard.Report]
	Controller *dashboard.Controller
	Refresh    gocommand.Commander[commands.RefreshCacheInput]
	// Defaults are the environment settings; request values override them.
	Defaults  dashboard.Settings
	Metrics   http.Handler
	Logger    logger.Logger
	MaxUpload int64
}

// Routes mounts every endpoint on a new ServeMux.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /dashboard", h.HandleDashboard)
	mux.HandleFunc("POST /dashboard", h.HandleDashboard)
	mux.HandleFunc("GET /dashboard/report", h.HandleReport)
	mux.HandleFunc("POST /dashboard/report", h.HandleReport)
	if h.Refresh != nil {
		mux.HandleFunc("POST /dashboard/refresh", h.HandleRefresh)
	}
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}
	return mux
}

func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDashboard renders the HTML page. POST accepts the settings form with
// an optional CSV under "file".
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		http.Error(w, "dashboard controller not configured", http.StatusInternalServerError)
		return
	}
	req, err := h.formRequest(w, r)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}
	var buf bytes.Buffer
	if err := h.Controller.RenderTemplate(r.Context(), req, &buf); err != nil {
		h.logger().Error(r.Context(), "render dashboard", logger.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleReport returns the report as JSON. A POST body is treated as the CSV upload.
// Upstream section failures still return the report, with status 502.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	if h.Reports == nil {
		writeError(w, http.StatusInternalServerError, errors.New("report query not configured"))
		return
	}
	req := RenderRequest(h.Defaults, r.Header.Get(APIKeyHeader), r.URL.Query().Get(MockParam))
	if r.Method == http.MethodPost {
		body, err := io.ReadAll(io.LimitReader(r.Body, h.maxUpload()+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
			return
		}
		if int64(len(body)) > h.maxUpload() {
			writeError(w, http.StatusRequestEntityTooLarge, errors.New("upload too large"))
			return
		}
		req.Upload = body
		req.HasUpload = len(body) > 0
	}
	report, err := h.Reports.Query(r.Context(), req)
	if err != nil {
		if report.ID == "" {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		h.logger().Warn(r.Context(), "report rendered with errors", logger.String("report_id", report.ID), logger.Error(err))
		writeJSON(w, http.StatusBadGateway, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleRefresh drops cached upstream payloads and charts.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Refresh.Execute(r.Context(), commands.RefreshCacheInput{Reason: "http"}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

func (h *Handlers) formRequest(w http.ResponseWriter, r *http.Request) (dashboard.RenderRequest, error) {
	if r.Method != http.MethodPost {
		return RenderRequest(h.Defaults, r.Header.Get(APIKeyHeader), r.URL.Query().Get(MockParam)), nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload())
	if err := r.ParseMultipartForm(h.maxUpload()); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return dashboard.RenderRequest{}, fmt.Errorf("parse form: %w", err)
	}
	mock := "0"
	if r.FormValue("use_mock") != "" {
		mock = "1"
	}
	req := RenderRequest(h.Defaults, r.FormValue("api_key"), mock)

	file, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return req, nil
	}
	if err != nil {
		return dashboard.RenderRequest{}, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return dashboard.RenderRequest{}, fmt.Errorf("read upload: %w", err)
	}
	req.Upload = data
	req.HasUpload = true
	return req, nil
}

// RenderRequest applies per-request overrides to the configured defaults. An
// empty apiKey keeps the default credential; mock accepts strconv.ParseBool values.
func RenderRequest(defaults dashboard.Settings, apiKey, mock string) dashboard.RenderRequest {
	settings := defaults
	if key := strings.TrimSpace(apiKey); key != "" {
		settings.APIKey = key
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(mock)); err == nil {
		settings.UseMock = v
	}
	return dashboard.RenderRequest{Settings: settings}
}

func (h *Handlers) maxUpload() int64 {
	if h.MaxUpload > 0 {
		return h.MaxUpload
	}
	return defaultMaxUpload
}

func (h *Handlers) logger() logger.Logger {
	if h.Logger == nil {
		return logger.Nop()
	}
	return h.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
