package dashboard

import (
	"time"

	core "github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/pkg/brevo"
	"github.com/goliatone/go-growth-dashboard/pkg/config"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Report, Settings and RenderRequest re-exports.
type (
	Report        = core.Report
	Settings      = core.Settings
	RenderRequest = core.RenderRequest
)

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Stack is a configured service together with the caches behind it.
type Stack struct {
	Service    *Service
	Source     *brevo.Source
	ChartCache *core.TTLCache[string]
}

// NewFromConfig wires the Brevo source and chart renderer described by cfg.
func NewFromConfig(cfg *config.Config, telemetry core.Telemetry) *Stack {
	source := brevo.NewSource(brevo.SourceOptions{
		BaseURL:  cfg.BrevoBaseURL,
		Timeout:  cfg.RequestTimeout,
		CacheTTL: ttlOrDisabled(cfg.CacheTTL),
	})
	chartCache := core.NewTTLCache[string](cfg.ChartCacheTTL)
	charts := core.NewChartRenderer(
		core.WithChartCache(chartCache),
		core.WithChartTheme(cfg.ChartTheme),
		core.WithChartAssetsHost(cfg.ChartAssetsHost),
	)
	service := core.NewService(core.Options{
		Source:        source,
		Charts:        charts,
		Telemetry:     telemetry,
		LeadWindow:    cfg.LeadWindow(),
		ContactsPage:  cfg.ContactsPage(),
		CampaignsPage: cfg.CampaignsPage(),
	})
	return &Stack{Service: service, Source: source, ChartCache: chartCache}
}

// ttlOrDisabled maps an explicit zero TTL to a disabled cache; NewSource
// would otherwise apply its default.
func ttlOrDisabled(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return -1
	}
	return ttl
}
