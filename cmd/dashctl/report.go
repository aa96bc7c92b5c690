package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-growth-dashboard/components/dashboard"
	"github.com/goliatone/go-growth-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-growth-dashboard/pkg/logger"
)

type reportCmd struct {
	CSV    string `name:"csv" type:"existingfile" help:"Social engagement CSV to include instead of the demo rows."`
	Mock   string `default:"auto" enum:"auto,on,off" help:"Demo data: auto follows USE_MOCK, on forces fixtures, off disables them."`
	APIKey string `name:"api-key" help:"Brevo API key (defaults to BREVO_API_KEY)."`
	Format string `default:"json" enum:"json,yaml" help:"Output format (json or yaml)."`
	Charts bool   `help:"Include rendered chart HTML in JSON output."`
	Out    string `type:"path" help:"Write to this file instead of stdout."`
}

func (cmd *reportCmd) Run(ctx context.Context, root *cli) error {
	a, err := newApp(ctx, root)
	if err != nil {
		return err
	}
	req, err := cmd.request(a.cfg.Settings())
	if err != nil {
		return err
	}
	report, renderErr := a.reports.Query(ctx, req)
	if renderErr != nil && report.ID == "" {
		return renderErr
	}
	if renderErr != nil {
		a.log.Warn(ctx, "report rendered with errors", logger.String("report_id", report.ID), logger.Error(renderErr))
	}
	if !cmd.Charts {
		report.Social.ChartHTML = ""
		report.Campaigns.ChartHTML = ""
	}

	out := io.Writer(os.Stdout)
	if cmd.Out != "" {
		f, err := os.Create(cmd.Out)
		if err != nil {
			return fmt.Errorf("dashctl: create %s: %w", cmd.Out, err)
		}
		defer f.Close()
		out = f
	}
	if err := writeReport(out, cmd.Format, report); err != nil {
		return err
	}
	return renderErr
}

func (cmd *reportCmd) request(defaults dashboard.Settings) (dashboard.RenderRequest, error) {
	mock := ""
	switch cmd.Mock {
	case "on":
		mock = "1"
	case "off":
		mock = "0"
	}
	req := httpapi.RenderRequest(defaults, cmd.APIKey, mock)
	if cmd.CSV != "" {
		data, err := os.ReadFile(cmd.CSV)
		if err != nil {
			return dashboard.RenderRequest{}, fmt.Errorf("dashctl: read %s: %w", cmd.CSV, err)
		}
		req.Upload = data
		req.HasUpload = true
	}
	return req, nil
}

func writeReport(out io.Writer, format string, report dashboard.Report) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("dashctl: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("dashctl: encode json: %w", err)
		}
		return nil
	}
}
