package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultChartHeight   = "360px"
	defaultChartCacheTTL = 5 * time.Minute
)

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint represents an individual labeled value.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartRenderer renders server-side bar chart HTML with go-echarts.
type ChartRenderer struct {
	cache      Cache[string]
	theme      string
	assetsHost string
}

// ChartOption customizes renderer behavior.
type ChartOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache Cache[string]) ChartOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the chart theme (defaults to Westeros).
func WithChartTheme(theme string) ChartOption {
	return func(r *ChartRenderer) {
		if theme = strings.TrimSpace(theme); theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with a private TTL cache.
func NewChartRenderer(opts ...ChartOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: NewTTLCache[string](defaultChartCacheTTL),
		theme: types.ThemeWesteros,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bar renders a grouped bar chart with one group per x-axis label.
func (r *ChartRenderer) Bar(title string, xAxis []string, series []ChartSeries) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("dashboard: chart series is required")
	}
	render := func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(title)...)
		bar.SetXAxis(xAxis)
		for _, s := range series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	}
	if r.cache == nil {
		return render()
	}
	key := "bar:" + r.theme + ":" + payloadHash(map[string]any{
		"title":  title,
		"x_axis": xAxis,
		"series": series,
	})
	return r.cache.GetOrLoad(key, render)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", fmt.Errorf("dashboard: render chart: %w", err)
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = ensureTrailingSlash(r.assetsHost)
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
