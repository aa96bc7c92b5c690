package dashboard

import (
	"fmt"
	"strings"
	"time"
)

// layouts accepted for createdAt, tried in order. Layouts without an offset
// are read as UTC.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseContacts flattens a contacts payload. A missing contacts array yields an
// empty slice. Every CreatedAt is converted to UTC.
func ParseContacts(resp ContactsResponse) ([]Contact, error) {
	contacts := make([]Contact, 0, len(resp.Contacts))
	for _, raw := range resp.Contacts {
		createdAt, err := parseCreatedAt(raw.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("dashboard: contact %d: %w", raw.ID, err)
		}
		contacts = append(contacts, Contact{
			Email:     raw.Email,
			ID:        raw.ID,
			CreatedAt: createdAt,
		})
	}
	return contacts, nil
}

// ParseCampaigns flattens campaigns and their statistics.globalStats counters.
// Absent statistics at any depth default to zero.
func ParseCampaigns(resp CampaignsResponse) []Campaign {
	campaigns := make([]Campaign, 0, len(resp.Campaigns))
	for _, raw := range resp.Campaigns {
		var stats GlobalStats
		if raw.Statistics != nil && raw.Statistics.GlobalStats != nil {
			stats = *raw.Statistics.GlobalStats
		}
		campaigns = append(campaigns, Campaign{
			ID:           raw.ID,
			Name:         raw.Name,
			Status:       raw.Status,
			Sent:         stats.Sent,
			Delivered:    stats.Delivered,
			UniqueClicks: stats.UniqueClicks,
			UniqueViews:  stats.UniqueViews,
		})
	}
	return campaigns
}

// TotalLeads prefers the reported count over the page size.
func TotalLeads(resp ContactsResponse, parsed []Contact) int {
	if resp.Count != nil {
		return *resp.Count
	}
	return len(parsed)
}

func parseCreatedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse createdAt %q: unsupported timestamp format", value)
}
