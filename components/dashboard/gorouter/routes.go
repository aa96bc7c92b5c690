package gorouter

import (
	"bytes"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/httpapi"
)

// Config wires go-router with the dashboard controller and report query.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	Reports    gocommand.Querier[dashboard.RenderRequest, dashboard.Report]
	Refresh    gocommand.Commander[commands.RefreshCacheInput]
	// Defaults are the environment settings; request values override them.
	Defaults dashboard.Settings
	BasePath string
	Routes   RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Root    string
	Health  string
	HTML    string
	Report  string
	Refresh string
}

// Register mounts the dashboard routes (root, health, HTML, JSON report) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	if cfg.Reports == nil {
		return errors.New("gorouter: report query is required")
	}
	routes := defaultRouteConfig(cfg.Routes)

	group := cfg.Router
	if cfg.BasePath != "" {
		group = cfg.Router.Group(cfg.BasePath)
	}

	group.Get(routes.Root, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"message": httpapi.RootMessage})
	}))

	group.Get(routes.Health, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}))

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		req := requestFor(ctx, cfg.Defaults)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), req, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Report, router.WrapHandler(func(ctx router.Context) error {
		return respondReport(ctx, cfg.Reports, requestFor(ctx, cfg.Defaults))
	}))

	group.Post(routes.Report, router.WrapHandler(func(ctx router.Context) error {
		req := requestFor(ctx, cfg.Defaults)
		if body := ctx.Body(); len(body) > 0 {
			req.Upload = append([]byte(nil), body...)
			req.HasUpload = true
		}
		return respondReport(ctx, cfg.Reports, req)
	}))

	if cfg.Refresh != nil {
		group.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
			if err := cfg.Refresh.Execute(ctx.Context(), commands.RefreshCacheInput{Reason: "http"}); err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
		}))
	}

	return nil
}

func requestFor(ctx router.Context, defaults dashboard.Settings) dashboard.RenderRequest {
	return httpapi.RenderRequest(defaults, ctx.Header(httpapi.APIKeyHeader), ctx.Query(httpapi.MockParam))
}

func respondReport(ctx router.Context, reports gocommand.Querier[dashboard.RenderRequest, dashboard.Report], req dashboard.RenderRequest) error {
	report, err := reports.Query(ctx.Context(), req)
	if err != nil {
		if report.ID == "" {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusBadGateway, report)
	}
	return ctx.JSON(http.StatusOK, report)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Root == "" {
		routes.Root = "/"
	}
	if routes.Health == "" {
		routes.Health = "/health"
	}
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Report == "" {
		routes.Report = "/dashboard/report"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	return routes
}
