package brevo

import (
	"context"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

// ContactsClient fetches the contacts list.
type ContactsClient interface {
	FetchContacts(ctx context.Context, page dashboard.Page) (dashboard.ContactsResponse, error)
}

// CampaignsClient fetches email campaigns with their global statistics.
type CampaignsClient interface {
	FetchCampaigns(ctx context.Context, page dashboard.Page) (dashboard.CampaignsResponse, error)
}

// Client is a convenience union for implementations serving both endpoints.
type Client interface {
	ContactsClient
	CampaignsClient
}
