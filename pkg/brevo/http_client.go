package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

const (
	// DefaultBaseURL is the public v3 API root.
	DefaultBaseURL = "https://api.brevo.com/v3"
	// DefaultTimeout bounds each upstream call.
	DefaultTimeout = 15 * time.Second

	EndpointContacts  = "/contacts"
	EndpointCampaigns = "/emailCampaigns"
)

// HTTPConfig configures the live client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient calls the Brevo REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a live client. The API key is required.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("brevo: api key is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchContacts implements ContactsClient.
func (c *HTTPClient) FetchContacts(ctx context.Context, page dashboard.Page) (dashboard.ContactsResponse, error) {
	var resp dashboard.ContactsResponse
	if err := c.get(ctx, EndpointContacts, page, &resp); err != nil {
		return dashboard.ContactsResponse{}, err
	}
	return resp, nil
}

// FetchCampaigns implements CampaignsClient.
func (c *HTTPClient) FetchCampaigns(ctx context.Context, page dashboard.Page) (dashboard.CampaignsResponse, error) {
	var resp dashboard.CampaignsResponse
	if err := c.get(ctx, EndpointCampaigns, page, &resp); err != nil {
		return dashboard.CampaignsResponse{}, err
	}
	return resp, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, page dashboard.Page, target any) error {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.Limit))
	query.Set("offset", strconv.Itoa(page.Offset))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("brevo: build request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &RemoteError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: buf.String()}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("brevo: decode %s response: %w", endpoint, err)
	}
	return nil
}
