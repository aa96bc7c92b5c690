package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)."`

	Serve       serveCmd       `cmd:"" help:"Serve the dashboard and its JSON API."`
	Report      reportCmd      `cmd:"" help:"Render one report and print it as JSON or YAML."`
	ValidateCSV validateCSVCmd `cmd:"" name:"validate-csv" help:"Check a social engagement CSV against the required columns."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cli{}
	kctx := kong.Parse(root,
		kong.Name("dashctl"),
		kong.Description("Marketing analytics dashboard for Brevo contacts, campaigns and social CSV uploads."),
		kong.UsageOnError(),
		kong.Bind(root),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
