package brevo

import (
	"context"
	"net/http"
	"time"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

// DefaultCacheTTL is how long fetched payloads are reused.
const DefaultCacheTTL = 60 * time.Second

// ClientFactory builds a live client for the supplied credential.
type ClientFactory func(apiKey string) (Client, error)

// SourceOptions configures Source.
type SourceOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	CacheTTL   time.Duration
	Clock      func() time.Time
	// Mock overrides the fixture client.
	Mock Client
	// NewClient overrides live client construction.
	NewClient ClientFactory
}

// Source implements dashboard.DataSource. It serves fixtures when the
// settings are offline and calls the live API otherwise, caching both.
type Source struct {
	mock      Client
	newClient ClientFactory
	contacts  *dashboard.TTLCache[dashboard.ContactsResponse]
	campaigns *dashboard.TTLCache[dashboard.CampaignsResponse]
}

var _ dashboard.DataSource = (*Source)(nil)

// NewSource builds a caching data source.
func NewSource(opts SourceOptions) *Source {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Mock == nil {
		opts.Mock = NewMockClient(opts.Clock)
	}
	if opts.NewClient == nil {
		cfg := HTTPConfig{BaseURL: opts.BaseURL, Timeout: opts.Timeout, HTTPClient: opts.HTTPClient}
		opts.NewClient = func(apiKey string) (Client, error) {
			cfg := cfg
			cfg.APIKey = apiKey
			return NewHTTPClient(cfg)
		}
	}
	contacts := dashboard.NewTTLCache[dashboard.ContactsResponse](opts.CacheTTL)
	campaigns := dashboard.NewTTLCache[dashboard.CampaignsResponse](opts.CacheTTL)
	if opts.Clock != nil {
		contacts.WithClock(opts.Clock)
		campaigns.WithClock(opts.Clock)
	}
	return &Source{
		mock:      opts.Mock,
		newClient: opts.NewClient,
		contacts:  contacts,
		campaigns: campaigns,
	}
}

// FetchContacts implements dashboard.DataSource.
func (s *Source) FetchContacts(ctx context.Context, settings dashboard.Settings, page dashboard.Page) (dashboard.ContactsResponse, error) {
	key := dashboard.SourceCacheKey(EndpointContacts, page, settings)
	return s.contacts.GetOrLoad(key, func() (dashboard.ContactsResponse, error) {
		client, err := s.client(settings)
		if err != nil {
			return dashboard.ContactsResponse{}, err
		}
		return client.FetchContacts(ctx, page)
	})
}

// FetchCampaigns implements dashboard.DataSource.
func (s *Source) FetchCampaigns(ctx context.Context, settings dashboard.Settings, page dashboard.Page) (dashboard.CampaignsResponse, error) {
	key := dashboard.SourceCacheKey(EndpointCampaigns, page, settings)
	return s.campaigns.GetOrLoad(key, func() (dashboard.CampaignsResponse, error) {
		client, err := s.client(settings)
		if err != nil {
			return dashboard.CampaignsResponse{}, err
		}
		return client.FetchCampaigns(ctx, page)
	})
}

// Purge drops every cached payload.
func (s *Source) Purge() int {
	return s.contacts.Purge() + s.campaigns.Purge()
}

func (s *Source) client(settings dashboard.Settings) (Client, error) {
	if settings.Offline() {
		return s.mock, nil
	}
	return s.newClient(settings.APIKey)
}
