package dashboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ettle/strcase"
)

const (
	defaultTemplate = "dashboard.html"
	defaultCaption  = "Brevo API live. Social data via CSV upload or mock demo. All times in UTC."
)

// ReportRenderer produces a report for a render request.
type ReportRenderer interface {
	Render(ctx context.Context, req RenderRequest) (Report, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  ReportRenderer
	Renderer Renderer
	Template string
	Caption  string
}

// Controller turns render cycles into JSON payloads or HTML pages.
type Controller struct {
	service  ReportRenderer
	renderer Renderer
	template string
	caption  string
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	if opts.Caption == "" {
		opts.Caption = defaultCaption
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: opts.Template,
		caption:  opts.Caption,
	}
}

// Report runs a render cycle and returns the raw report.
func (c *Controller) Report(ctx context.Context, req RenderRequest) (Report, error) {
	if c.service == nil {
		return Report{}, errMissingDataSource
	}
	return c.service.Render(ctx, req)
}

// RenderTemplate renders the dashboard page. Section failures are shown
// inline, so only template errors are returned.
func (c *Controller) RenderTemplate(ctx context.Context, req RenderRequest, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: template renderer not configured")
	}
	report, _ := c.Report(ctx, req)
	payload := c.Payload(report, req.Settings)
	if _, err := c.renderer.Render(c.template, payload, out); err != nil {
		return fmt.Errorf("dashboard: render template %s: %w", c.template, err)
	}
	return nil
}

// Payload shapes a report into template-friendly maps.
func (c *Controller) Payload(report Report, settings Settings) map[string]any {
	return map[string]any{
		"report_id":    report.ID,
		"generated_at": report.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		"mode":         report.Mode,
		"settings": map[string]any{
			"has_api_key": settings.APIKey != "",
			"use_mock":    settings.UseMock,
		},
		"leads":     leadsPayload(report.Leads),
		"social":    socialPayload(report.Social),
		"campaigns": campaignsPayload(report.Campaigns),
		"caption":   c.caption,
	}
}

func leadsPayload(section LeadsSection) map[string]any {
	return map[string]any{
		"total":       section.Total,
		"new_leads":   section.NewLeads.String(),
		"window_days": section.WindowDays,
		"error":       section.Error,
	}
}

func socialPayload(section SocialSection) map[string]any {
	payload := map[string]any{
		"source":      section.Source,
		"notice":      section.Notice,
		"error":       section.Error,
		"chart":       chartSource(section.ChartHTML),
		"chart_error": section.ChartError,
	}
	if section.Validation != nil {
		payload["validation"] = section.Validation.Error()
		payload["missing"] = section.Validation.Missing
	}
	if section.Table != nil {
		payload["columns"] = columnTitles(section.Table.Columns)
		payload["rows"] = section.Table.Rows
	}
	return payload
}

var campaignColumns = []string{"id", "name", "status", "sent", "delivered", "uniqueViews", "uniqueClicks", "open_rate_est", "click_rate_est"}

func campaignsPayload(section CampaignsSection) map[string]any {
	rows := make([][]string, len(section.Rows))
	for i, row := range section.Rows {
		rows[i] = []string{
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.Status,
			strconv.FormatInt(row.Sent, 10),
			strconv.FormatInt(row.Delivered, 10),
			strconv.FormatInt(row.UniqueViews, 10),
			strconv.FormatInt(row.UniqueClicks, 10),
			strconv.FormatFloat(row.OpenRateEst, 'f', 2, 64),
			strconv.FormatFloat(row.ClickRateEst, 'f', 2, 64),
		}
	}
	return map[string]any{
		"columns":     columnTitles(campaignColumns),
		"rows":        rows,
		"notice":      section.Notice,
		"error":       section.Error,
		"chart":       chartSource(section.ChartHTML),
		"chart_error": section.ChartError,
	}
}

func columnTitles(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = strcase.ToCase(col, strcase.TitleCase, ' ')
	}
	return out
}

// chartSource embeds standalone chart HTML as an iframe data URI.
func chartSource(html string) string {
	if html == "" {
		return ""
	}
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
}
