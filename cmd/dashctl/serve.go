package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-growth-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-growth-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	Addr      string `help:"Listen address (defaults to the configured addr)."`
	Transport string `default:"http" enum:"http,fiber" help:"HTTP stack to serve with (http or fiber)."`
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	a, err := newApp(ctx, root)
	if err != nil {
		return err
	}
	addr := cmd.Addr
	if addr == "" {
		addr = a.cfg.Addr
	}
	a.log.Info(ctx, "starting dashboard",
		logger.String("addr", addr),
		logger.String("transport", cmd.Transport),
		logger.String("mode", a.cfg.Settings().Mode()),
	)
	if cmd.Transport == "fiber" {
		return cmd.serveFiber(ctx, a, addr)
	}
	return cmd.serveHTTP(ctx, a, addr)
}

func (cmd *serveCmd) serveHTTP(ctx context.Context, a *app, addr string) error {
	controller, err := a.controller()
	if err != nil {
		return err
	}
	handlers := &httpapi.Handlers{
		Reports:    a.reports,
		Controller: controller,
		Refresh:    a.refresh,
		Defaults:   a.cfg.Settings(),
		Metrics:    a.telemetry.Handler(),
		Logger:     a.log.Named("http"),
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.telemetry.Instrument(handlers.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashctl: serve: %w", err)
	case <-ctx.Done():
	}

	a.log.Info(context.Background(), "shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashctl: shutdown: %w", err)
	}
	return nil
}

func (cmd *serveCmd) serveFiber(ctx context.Context, a *app, addr string) error {
	controller, err := a.controller()
	if err != nil {
		return err
	}
	server := router.NewFiberAdapter()
	fiberApp := server.WrappedRouter()
	fiberApp.Use(recover.New())
	fiberApp.Use(fiberlogger.New())
	fiberApp.Use(a.telemetry.FiberMiddleware())
	fiberApp.Get("/metrics", adaptor.HTTPHandler(a.telemetry.Handler()))

	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		Reports:    a.reports,
		Refresh:    a.refresh,
		Defaults:   a.cfg.Settings(),
	}); err != nil {
		return fmt.Errorf("dashctl: register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dashctl: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info(context.Background(), "shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashctl: shutdown: %w", err)
	}
	return nil
}
