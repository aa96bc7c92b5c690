package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	noUploadNotice    = "No CSV uploaded. Showing mock social data."
	noCampaignsNotice = "No campaigns found."
)

var errMissingDataSource = errors.New("dashboard: data source not configured")

// Options configures the dashboard Service. Collaborators are provided via
// interfaces so transports and tests can swap implementations.
type Options struct {
	Source     DataSource
	Charts     *ChartRenderer
	Telemetry  Telemetry
	Clock      func() time.Time
	LeadWindow time.Duration
	// ContactsPage and CampaignsPage default to DefaultPage when zero.
	ContactsPage  Page
	CampaignsPage Page
}

// Service runs render cycles: fetch, normalize, compute, shape.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.LeadWindow <= 0 {
		opts.LeadWindow = DefaultLeadWindow
	}
	opts.ContactsPage = opts.ContactsPage.normalized()
	opts.CampaignsPage = opts.CampaignsPage.normalized()
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// Render executes one render cycle. A failed upstream call aborts only its
// own section; all section failures are joined into the returned error.
func (s *Service) Render(ctx context.Context, req RenderRequest) (Report, error) {
	if s.opts.Source == nil {
		return Report{}, errMissingDataSource
	}
	report := Report{
		ID:          uuid.NewString(),
		GeneratedAt: s.opts.Clock().UTC(),
		Mode:        req.Settings.Mode(),
	}

	leadsErr := s.renderLeads(ctx, req, &report)
	s.renderSocial(ctx, req, &report)
	campaignsErr := s.renderCampaigns(ctx, req, &report)

	err := errors.Join(leadsErr, campaignsErr)
	s.recordTelemetry(ctx, "dashboard.render", map[string]any{
		"report_id": report.ID,
		"mode":      report.Mode,
		"upload":    req.HasUpload,
		"failed":    err != nil,
	})
	return report, err
}

func (s *Service) renderLeads(ctx context.Context, req RenderRequest, report *Report) error {
	report.Leads.WindowDays = int(s.opts.LeadWindow / (24 * time.Hour))
	page := pageOr(req.Page, s.opts.ContactsPage)
	resp, err := s.opts.Source.FetchContacts(ctx, req.Settings, page)
	if err != nil {
		return s.sectionFailed(ctx, "leads", &report.Leads.Error, err)
	}
	contacts, err := ParseContacts(resp)
	if err != nil {
		return s.sectionFailed(ctx, "leads", &report.Leads.Error, err)
	}
	report.Leads.Contacts = contacts
	report.Leads.Total = TotalLeads(resp, contacts)
	report.Leads.NewLeads = CountNewLeads(contacts, s.opts.Clock(), s.opts.LeadWindow)
	return nil
}

func (s *Service) renderSocial(ctx context.Context, req RenderRequest, report *Report) {
	section := &report.Social
	if !req.HasUpload {
		rows := DefaultSocialRows()
		section.Source = SocialSourceFixture
		section.Notice = noUploadNotice
		section.Rows = rows
		labels, series := fixtureChartSeries(rows)
		section.ChartHTML = s.chart(ctx, "social", "Social Engagement", labels, series, &section.ChartError)
		return
	}

	section.Source = SocialSourceUpload
	table, err := DecodeSocialCSV(req.Upload)
	if err != nil {
		section.Error = err.Error()
		s.recordTelemetry(ctx, "dashboard.social.parse_error", map[string]any{"error": err.Error()})
		return
	}
	if err := ValidateSocialColumns(table.Columns); err != nil {
		var schemaErr *SocialSchemaError
		if !errors.As(err, &schemaErr) {
			section.Error = err.Error()
			return
		}
		section.Validation = schemaErr
		s.recordTelemetry(ctx, "dashboard.social.rejected", map[string]any{"missing": schemaErr.Missing})
		return
	}
	section.Table = &table
	labels, series := socialChartSeries(table)
	section.ChartHTML = s.chart(ctx, "social", "Social Engagement", labels, series, &section.ChartError)
}

func (s *Service) renderCampaigns(ctx context.Context, req RenderRequest, report *Report) error {
	page := pageOr(req.Page, s.opts.CampaignsPage)
	resp, err := s.opts.Source.FetchCampaigns(ctx, req.Settings, page)
	if err != nil {
		return s.sectionFailed(ctx, "campaigns", &report.Campaigns.Error, err)
	}
	rows := ComputeCampaignMetrics(ParseCampaigns(resp))
	report.Campaigns.Rows = rows
	if len(rows) == 0 {
		report.Campaigns.Notice = noCampaignsNotice
		return nil
	}
	labels, series := campaignChartSeries(rows)
	report.Campaigns.ChartHTML = s.chart(ctx, "campaigns", "Email Campaign Performance", labels, series, &report.Campaigns.ChartError)
	return nil
}

func (s *Service) chart(ctx context.Context, section, title string, labels []string, series []ChartSeries, errField *string) string {
	html, err := s.opts.Charts.Bar(title, labels, series)
	if err != nil {
		*errField = err.Error()
		s.recordTelemetry(ctx, "dashboard.chart_error", map[string]any{"section": section, "error": err.Error()})
		return ""
	}
	return html
}

func (s *Service) sectionFailed(ctx context.Context, section string, field *string, err error) error {
	*field = err.Error()
	s.recordTelemetry(ctx, "dashboard.section_error", map[string]any{
		"section": section,
		"error":   err.Error(),
	})
	return fmt.Errorf("dashboard: %s: %w", section, err)
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func campaignChartSeries(rows []CampaignMetrics) ([]string, []ChartSeries) {
	labels := make([]string, len(rows))
	delivered := make([]ChartPoint, len(rows))
	clicks := make([]ChartPoint, len(rows))
	for i, row := range rows {
		labels[i] = row.Name
		delivered[i] = ChartPoint{Label: row.Name, Value: float64(row.Delivered)}
		clicks[i] = ChartPoint{Label: row.Name, Value: float64(row.UniqueClicks)}
	}
	return labels, []ChartSeries{
		{Name: "delivered", Points: delivered},
		{Name: "uniqueClicks", Points: clicks},
	}
}

func pageOr(requested, fallback Page) Page {
	if requested.Limit <= 0 {
		return fallback
	}
	return requested.normalized()
}
