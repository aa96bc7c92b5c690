package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct {
	report Report
	err    error
	last   RenderRequest
}

func (s *stubReports) Render(_ context.Context, req RenderRequest) (Report, error) {
	s.last = req
	return s.report, s.err
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func sampleReport() Report {
	return Report{
		ID:          "report-1",
		GeneratedAt: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Mode:        ModeMock,
		Leads:       LeadsSection{Total: 3, NewLeads: LeadCount{Count: 2, Applicable: true}, WindowDays: 7},
		Social: SocialSection{
			Source:    SocialSourceFixture,
			Notice:    noUploadNotice,
			Rows:      DefaultSocialRows(),
			ChartHTML: "<div>chart</div>",
		},
		Campaigns: CampaignsSection{Rows: ComputeCampaignMetrics([]Campaign{
			{ID: 1, Name: "Launch", Status: "sent", Sent: 100, Delivered: 95, UniqueClicks: 20, UniqueViews: 40},
		})},
	}
}

func TestControllerRenderTemplate(t *testing.T) {
	reports := &stubReports{report: sampleReport()}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Service: reports, Renderer: renderer})

	var buf bytes.Buffer
	req := RenderRequest{Settings: Settings{UseMock: true}}
	if err := controller.RenderTemplate(context.Background(), req, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != defaultTemplate {
		t.Fatalf("expected dashboard template to render, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	assert.Equal(t, req, reports.last)
	assert.Equal(t, defaultCaption, renderer.lastPayload["caption"])
}

func TestControllerRendersSectionErrorsInline(t *testing.T) {
	report := sampleReport()
	report.Leads = LeadsSection{Error: "brevo: remote error 401"}
	reports := &stubReports{report: report, err: errors.New("dashboard: leads: boom")}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Service: reports, Renderer: renderer})

	err := controller.RenderTemplate(context.Background(), RenderRequest{}, io.Discard)
	require.NoError(t, err)
	leads := renderer.lastPayload["leads"].(map[string]any)
	assert.Equal(t, "brevo: remote error 401", leads["error"])
}

func TestControllerRenderTemplateErrors(t *testing.T) {
	controller := NewController(ControllerOptions{Service: &stubReports{}})
	require.Error(t, controller.RenderTemplate(context.Background(), RenderRequest{}, io.Discard))

	controller = NewController(ControllerOptions{Service: &stubReports{}, Renderer: &stubRenderer{err: errors.New("bad template")}})
	err := controller.RenderTemplate(context.Background(), RenderRequest{}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad template")
}

func TestControllerPayloadShapesTables(t *testing.T) {
	controller := NewController(ControllerOptions{})
	payload := controller.Payload(sampleReport(), Settings{APIKey: "secret"})

	settings := payload["settings"].(map[string]any)
	assert.Equal(t, true, settings["has_api_key"])
	for _, v := range settings {
		assert.NotEqual(t, "secret", v)
	}

	leads := payload["leads"].(map[string]any)
	assert.Equal(t, "2", leads["new_leads"])

	campaigns := payload["campaigns"].(map[string]any)
	columns := campaigns["columns"].([]string)
	assert.Contains(t, columns, "Unique Clicks")
	assert.Contains(t, columns, "Open Rate Est")
	rows := campaigns["rows"].([][]string)
	require.Len(t, rows, 1)
	assert.Equal(t, "42.11", rows[0][7])
	assert.Equal(t, "21.05", rows[0][8])

	social := payload["social"].(map[string]any)
	chart := social["chart"].(string)
	assert.True(t, strings.HasPrefix(chart, "data:text/html;base64,"))
	assert.Empty(t, campaigns["chart"])
}

func TestControllerPayloadIncludesValidation(t *testing.T) {
	report := sampleReport()
	report.Social = SocialSection{
		Source:     SocialSourceUpload,
		Validation: &SocialSchemaError{Missing: []string{"likes"}, Found: []string{"platform", "reach", "clicks"}},
	}
	payload := NewController(ControllerOptions{}).Payload(report, Settings{})
	social := payload["social"].(map[string]any)
	assert.Contains(t, social["validation"], "CSV must contain columns")
	assert.Equal(t, []string{"likes"}, social["missing"])
}

func TestEmbeddedTemplateRenders(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	controller := NewController(ControllerOptions{Service: &stubReports{report: sampleReport()}, Renderer: renderer})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), RenderRequest{}, &buf))
	html := buf.String()
	assert.Contains(t, html, "Leads Overview")
	assert.Contains(t, html, "Launch")
	assert.Contains(t, html, `type="password"`)
	assert.Contains(t, html, defaultCaption)
}

func TestEmbeddedTemplateKeepsCampaignTableOnChartError(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	report := sampleReport()
	report.Campaigns.ChartError = "dashboard: render chart: boom"
	controller := NewController(ControllerOptions{Service: &stubReports{report: report}, Renderer: renderer})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), RenderRequest{}, &buf))
	html := buf.String()
	assert.Contains(t, html, "dashboard: render chart: boom")
	assert.Contains(t, html, "Launch")
	assert.Contains(t, html, "42.11")
}
