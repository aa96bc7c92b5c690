// Package config defines the dashboard process configuration and its loader.
package config

import (
	"time"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

// Config contains process configuration. Durations accept Go duration strings ("15s").
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	BrevoBaseURL string `koanf:"brevo_base_url"`
	BrevoAPIKey  string `koanf:"brevo_api_key"`

	// UseMock forces fixture data even when a key is configured.
	UseMock bool `koanf:"use_mock"`

	RequestTimeout time.Duration `koanf:"request_timeout"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	ChartCacheTTL  time.Duration `koanf:"chart_cache_ttl"`

	ContactsLimit  int `koanf:"contacts_limit"`
	CampaignsLimit int `koanf:"campaigns_limit"`
	LeadWindowDays int `koanf:"lead_window_days"`

	ChartTheme      string `koanf:"chart_theme"`
	ChartAssetsHost string `koanf:"chart_assets_host"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:           ":8000",
		LogLevel:       "info",
		BrevoBaseURL:   "https://api.brevo.com/v3",
		RequestTimeout: 15 * time.Second,
		CacheTTL:       60 * time.Second,
		ChartCacheTTL:  5 * time.Minute,
		ContactsLimit:  50,
		CampaignsLimit: 50,
		LeadWindowDays: 7,
		ChartTheme:     "westeros",
	}
}

// Settings returns the per-render settings implied by the environment.
// Request-level overrides are applied on top by the transports.
func (c *Config) Settings() dashboard.Settings {
	return dashboard.Settings{APIKey: c.BrevoAPIKey, UseMock: c.UseMock}
}

// LeadWindow converts LeadWindowDays into a duration.
func (c *Config) LeadWindow() time.Duration {
	return time.Duration(c.LeadWindowDays) * 24 * time.Hour
}

// ContactsPage is the page requested from the contacts endpoint.
func (c *Config) ContactsPage() dashboard.Page {
	return dashboard.Page{Limit: c.ContactsLimit}
}

// CampaignsPage is the page requested from the campaigns endpoint.
func (c *Config) CampaignsPage() dashboard.Page {
	return dashboard.Page{Limit: c.CampaignsLimit}
}
