package dashboard

import (
	"context"
	"time"
)

// DataSource fetches raw marketing payloads for a single render cycle.
// Implementations decide between live API calls and fixtures based on Settings.
type DataSource interface {
	FetchContacts(ctx context.Context, settings Settings, page Page) (ContactsResponse, error)
	FetchCampaigns(ctx context.Context, settings Settings, page Page) (CampaignsResponse, error)
}

// Settings is the per-render configuration handed to the DataSource. It is
// built once per request from config defaults and any UI overrides.
type Settings struct {
	APIKey  string
	UseMock bool
}

// Offline reports whether the cycle must be served from fixtures.
func (s Settings) Offline() bool {
	return s.UseMock || s.APIKey == ""
}

// Mode returns the label used in reports and cache keys.
func (s Settings) Mode() string {
	if s.Offline() {
		return ModeMock
	}
	return ModeLive
}

const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Page carries limit/offset pagination for list endpoints.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage mirrors the upstream list default.
var DefaultPage = Page{Limit: 50}

func (p Page) normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPage.Limit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ContactsResponse is the raw /contacts payload.
type ContactsResponse struct {
	Contacts []RawContact `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Count    *int         `json:"count,omitempty" yaml:"count,omitempty"`
}

// RawContact is a contact entry as returned upstream.
type RawContact struct {
	Email     string `json:"email" yaml:"email"`
	ID        int64  `json:"id" yaml:"id"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

// CampaignsResponse is the raw /emailCampaigns payload.
type CampaignsResponse struct {
	Count     *int          `json:"count,omitempty" yaml:"count,omitempty"`
	Campaigns []RawCampaign `json:"campaigns,omitempty" yaml:"campaigns,omitempty"`
}

// RawCampaign is a campaign entry with its nested statistics.
type RawCampaign struct {
	ID         int64               `json:"id" yaml:"id"`
	Name       string              `json:"name" yaml:"name"`
	Status     string              `json:"status" yaml:"status"`
	Statistics *CampaignStatistics `json:"statistics,omitempty" yaml:"statistics,omitempty"`
}

// CampaignStatistics wraps the aggregate counters.
type CampaignStatistics struct {
	GlobalStats *GlobalStats `json:"globalStats,omitempty" yaml:"globalStats,omitempty"`
}

// GlobalStats holds the counters used by the dashboard. Missing values decode as zero.
type GlobalStats struct {
	Sent         int64 `json:"sent" yaml:"sent"`
	Delivered    int64 `json:"delivered" yaml:"delivered"`
	UniqueClicks int64 `json:"uniqueClicks" yaml:"uniqueClicks"`
	UniqueViews  int64 `json:"uniqueViews" yaml:"uniqueViews"`
}

// Contact is a normalized contact row. CreatedAt is always UTC.
type Contact struct {
	Email     string    `json:"email" yaml:"email"`
	ID        int64     `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Campaign is a flattened campaign row.
type Campaign struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Status       string `json:"status" yaml:"status"`
	Sent         int64  `json:"sent" yaml:"sent"`
	Delivered    int64  `json:"delivered" yaml:"delivered"`
	UniqueClicks int64  `json:"uniqueClicks" yaml:"uniqueClicks"`
	UniqueViews  int64  `json:"uniqueViews" yaml:"uniqueViews"`
}

// CampaignMetrics decorates a campaign with derived rates.
type CampaignMetrics struct {
	Campaign     `yaml:",inline"`
	OpenRateEst  float64 `json:"open_rate_est" yaml:"open_rate_est"`
	ClickRateEst float64 `json:"click_rate_est" yaml:"click_rate_est"`
}

// SocialRow is a typed social engagement row.
type SocialRow struct {
	Platform string `json:"platform" yaml:"platform"`
	Reach    int64  `json:"reach" yaml:"reach"`
	Clicks   int64  `json:"clicks" yaml:"clicks"`
	Likes    int64  `json:"likes" yaml:"likes"`
}

// SocialTable is an uploaded CSV with normalized headers and raw cells.
type SocialTable struct {
	Columns  []string   `json:"columns" yaml:"columns"`
	Rows     [][]string `json:"rows" yaml:"rows"`
	Encoding string     `json:"encoding" yaml:"encoding"`
}

// RenderRequest describes one dashboard render cycle.
type RenderRequest struct {
	Settings  Settings
	Page      Page
	Upload    []byte
	HasUpload bool
}

// Report is the fully shaped output of a render cycle.
type Report struct {
	ID          string           `json:"id" yaml:"id"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Mode        string           `json:"mode" yaml:"mode"`
	Leads       LeadsSection     `json:"leads" yaml:"leads"`
	Social      SocialSection    `json:"social" yaml:"social"`
	Campaigns   CampaignsSection `json:"campaigns" yaml:"campaigns"`
}

// LeadsSection summarizes contacts.
type LeadsSection struct {
	Total      int       `json:"total" yaml:"total"`
	NewLeads   LeadCount `json:"new_leads" yaml:"new_leads"`
	WindowDays int       `json:"window_days" yaml:"window_days"`
	Contacts   []Contact `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// SocialSection carries either the uploaded table or the fixture rows.
type SocialSection struct {
	Source     string             `json:"source" yaml:"source"`
	Notice     string             `json:"notice,omitempty" yaml:"notice,omitempty"`
	Table      *SocialTable       `json:"table,omitempty" yaml:"table,omitempty"`
	Rows       []SocialRow        `json:"rows,omitempty" yaml:"rows,omitempty"`
	ChartHTML  string             `json:"chart_html,omitempty" yaml:"-"`
	ChartError string             `json:"chart_error,omitempty" yaml:"chart_error,omitempty"`
	Validation *SocialSchemaError `json:"validation,omitempty" yaml:"validation,omitempty"`
	Error      string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// CampaignsSection lists campaigns with estimated rates.
type CampaignsSection struct {
	Rows       []CampaignMetrics `json:"rows" yaml:"rows"`
	ChartHTML  string            `json:"chart_html,omitempty" yaml:"-"`
	ChartError string            `json:"chart_error,omitempty" yaml:"chart_error,omitempty"`
	Notice     string            `json:"notice,omitempty" yaml:"notice,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

const (
	SocialSourceUpload  = "upload"
	SocialSourceFixture = "fixture"
)
