package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/queries"
	facade "github.com/goliatone/go-growth-dashboard/pkg/dashboard"
	"github.com/goliatone/go-growth-dashboard/pkg/config"
	"github.com/goliatone/go-growth-dashboard/pkg/logger"
	"github.com/goliatone/go-growth-dashboard/pkg/telemetry"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	telemetry *telemetry.Recorder
	service   *dashboard.Service
	reports   *queries.ReportQuery
	refresh   *commands.RefreshCacheCommand
}

func newApp(ctx context.Context, root *cli) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if root.LogLevel != "" {
		level = root.LogLevel
	}
	log, err := logger.New(logger.Options{Output: os.Stderr, Level: level})
	if err != nil {
		return nil, fmt.Errorf("dashctl: %w", err)
	}
	recorder := telemetry.New(telemetry.WithLogger(log.Named("telemetry")))
	stack := facade.NewFromConfig(cfg, recorder)
	return &app{
		cfg:       cfg,
		log:       log,
		telemetry: recorder,
		service:   stack.Service,
		reports:   queries.NewReportQuery(stack.Service),
		refresh:   commands.NewRefreshCacheCommand(recorder, stack.Source, stack.ChartCache),
	}, nil
}

func (a *app) controller() (*dashboard.Controller, error) {
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("dashctl: load templates: %w", err)
	}
	return dashboard.NewController(dashboard.ControllerOptions{
		Service:  a.service,
		Renderer: renderer,
	}), nil
}
