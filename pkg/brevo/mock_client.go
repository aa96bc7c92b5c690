package brevo

import (
	"context"
	"time"

	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

// MockClient serves deterministic fixtures for demos and offline runs.
type MockClient struct {
	now func() time.Time
}

// NewMockClient builds a fixture client. Contact ages are relative to now.
func NewMockClient(now func() time.Time) *MockClient {
	if now == nil {
		now = time.Now
	}
	return &MockClient{now: now}
}

// FetchContacts returns three contacts created 10, 3 and 1 days ago.
func (c *MockClient) FetchContacts(context.Context, dashboard.Page) (dashboard.ContactsResponse, error) {
	now := c.now().UTC()
	ages := []int{10, 3, 1}
	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	contacts := make([]dashboard.RawContact, len(ages))
	for i, days := range ages {
		contacts[i] = dashboard.RawContact{
			Email:     emails[i],
			ID:        int64(i + 1),
			CreatedAt: now.AddDate(0, 0, -days).Format(time.RFC3339),
		}
	}
	count := len(contacts)
	return dashboard.ContactsResponse{Contacts: contacts, Count: &count}, nil
}

// FetchCampaigns returns the "Launch" and "Weekly" campaigns.
func (c *MockClient) FetchCampaigns(context.Context, dashboard.Page) (dashboard.CampaignsResponse, error) {
	campaigns := []dashboard.RawCampaign{
		mockCampaign(1, "Launch", dashboard.GlobalStats{Sent: 100, Delivered: 95, UniqueClicks: 20, UniqueViews: 40}),
		mockCampaign(2, "Weekly", dashboard.GlobalStats{Sent: 200, Delivered: 190, UniqueClicks: 50, UniqueViews: 80}),
	}
	count := len(campaigns)
	return dashboard.CampaignsResponse{Count: &count, Campaigns: campaigns}, nil
}

func mockCampaign(id int64, name string, stats dashboard.GlobalStats) dashboard.RawCampaign {
	return dashboard.RawCampaign{
		ID:     id,
		Name:   name,
		Status: "sent",
		Statistics: &dashboard.CampaignStatistics{
			GlobalStats: &stats,
		},
	}
}
