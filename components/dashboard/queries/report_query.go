package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

type reportService interface {
	Render(ctx context.Context, req dashboard.RenderRequest) (dashboard.Report, error)
}

// ReportQuery runs one dashboard render cycle.
type ReportQuery struct {
	service reportService
}

// NewReportQuery builds the query.
func NewReportQuery(service reportService) *ReportQuery {
	return &ReportQuery{service: service}
}

var _ gocommand.Querier[dashboard.RenderRequest, dashboard.Report] = (*ReportQuery)(nil)

// Query renders the report for the request settings and upload.
func (q *ReportQuery) Query(ctx context.Context, req dashboard.RenderRequest) (dashboard.Report, error) {
	return q.service.Render(ctx, req)
}
