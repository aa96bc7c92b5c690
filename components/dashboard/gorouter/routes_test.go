package gorouter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/httpapi"
)

type stubReports struct {
	last dashboard.RenderRequest
}

func (s *stubReports) Query(_ context.Context, req dashboard.RenderRequest) (dashboard.Report, error) {
	s.last = req
	return dashboard.Report{ID: "r1", Mode: req.Settings.Mode()}, nil
}

func (s *stubReports) Render(ctx context.Context, req dashboard.RenderRequest) (dashboard.Report, error) {
	return s.Query(ctx, req)
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		_, _ = out[0].Write([]byte("ok"))
	}
	return "ok", nil
}

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func newFiberApp(t *testing.T, reports *stubReports, renderer *stubRenderer) *fiber.App {
	t.Helper()
	server := router.NewFiberAdapter()
	controller := dashboard.NewController(dashboard.ControllerOptions{Service: reports, Renderer: renderer})
	err := Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		Reports:    reports,
		Refresh:    commands.NewRefreshCacheCommand(nil, dashboard.NewTTLCache[string](0)),
		Defaults:   dashboard.Settings{APIKey: "env-key"},
	})
	require.NoError(t, err)
	return server.WrappedRouter()
}

func TestRegisterServesHealthAndRoot(t *testing.T) {
	app := newFiberApp(t, &stubReports{}, &stubRenderer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), httpapi.RootMessage)
}

func TestRegisterHTMLRoute(t *testing.T) {
	renderer := &stubRenderer{}
	app := newFiberApp(t, &stubReports{}, renderer)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, renderer.calls)
}

func TestRegisterReportRoutes(t *testing.T) {
	reports := &stubReports{}
	app := newFiberApp(t, reports, &stubRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/report?mock=1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, reports.last.Settings.UseMock)
	assert.Equal(t, "env-key", reports.last.Settings.APIKey)

	req = httptest.NewRequest(http.MethodPost, "/dashboard/report", strings.NewReader("platform,reach,clicks,likes\n"))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set(httpapi.APIKeyHeader, "header-key")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, reports.last.HasUpload)
	assert.Equal(t, "header-key", reports.last.Settings.APIKey)
}

func TestRegisterRefreshRoute(t *testing.T) {
	app := newFiberApp(t, &stubReports{}, &stubRenderer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/dashboard/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
