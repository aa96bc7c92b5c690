package dashboard

import (
	"encoding/json"
	"strconv"
	"time"
)

// DefaultLeadWindow is the recency window for new leads.
const DefaultLeadWindow = 7 * 24 * time.Hour

// LeadCount is a recency count that distinguishes "no data" from zero.
type LeadCount struct {
	Count      int
	Applicable bool
}

// String renders the count, or N/A when there was nothing to count.
func (c LeadCount) String() string {
	if !c.Applicable {
		return "N/A"
	}
	return strconv.Itoa(c.Count)
}

// MarshalJSON encodes N/A as null.
func (c LeadCount) MarshalJSON() ([]byte, error) {
	if !c.Applicable {
		return []byte("null"), nil
	}
	return json.Marshal(c.Count)
}

// MarshalYAML encodes N/A as the literal string.
func (c LeadCount) MarshalYAML() (any, error) {
	if !c.Applicable {
		return c.String(), nil
	}
	return c.Count, nil
}

// CountNewLeads counts contacts created at or after now-window.
func CountNewLeads(contacts []Contact, now time.Time, window time.Duration) LeadCount {
	if len(contacts) == 0 {
		return LeadCount{}
	}
	cutoff := now.UTC().Add(-window)
	count := 0
	for _, c := range contacts {
		if !c.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return LeadCount{Count: count, Applicable: true}
}

// RateEstimate returns part/delivered as a percentage, or 0 when nothing was delivered.
func RateEstimate(part, delivered int64) float64 {
	if delivered <= 0 {
		return 0
	}
	return float64(part) / float64(delivered) * 100
}

// ComputeCampaignMetrics derives open/click rate estimates row by row.
func ComputeCampaignMetrics(campaigns []Campaign) []CampaignMetrics {
	out := make([]CampaignMetrics, len(campaigns))
	for i, c := range campaigns {
		out[i] = CampaignMetrics{
			Campaign:     c,
			OpenRateEst:  RateEstimate(c.UniqueViews, c.Delivered),
			ClickRateEst: RateEstimate(c.UniqueClicks, c.Delivered),
		}
	}
	return out
}
