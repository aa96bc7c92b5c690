package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-growth-dashboard/components/dashboard"
)

type validateCSVCmd struct {
	Path string `arg:"" type:"existingfile" help:"CSV file to check."`
}

func (cmd *validateCSVCmd) Run(_ context.Context) error {
	return validateCSV(cmd.Path, os.Stdout)
}

func validateCSV(path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dashctl: read %s: %w", path, err)
	}
	table, err := dashboard.DecodeSocialCSV(data)
	if err != nil {
		return err
	}
	if err := dashboard.ValidateSocialColumns(table.Columns); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: ok (%d rows, %s, columns: %v)\n", path, len(table.Rows), table.Encoding, table.Columns)
	return nil
}
