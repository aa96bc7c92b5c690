package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// document is the JSON view validated against schema.json. Durations are in seconds.
type document struct {
	Addr            string  `json:"addr"`
	LogLevel        string  `json:"log_level"`
	BrevoBaseURL    string  `json:"brevo_base_url"`
	UseMock         bool    `json:"use_mock"`
	RequestTimeout  float64 `json:"request_timeout"`
	CacheTTL        float64 `json:"cache_ttl"`
	ChartCacheTTL   float64 `json:"chart_cache_ttl"`
	ContactsLimit   int     `json:"contacts_limit"`
	CampaignsLimit  int     `json:"campaigns_limit"`
	LeadWindowDays  int     `json:"lead_window_days"`
	ChartTheme      string  `json:"chart_theme"`
	ChartAssetsHost string  `json:"chart_assets_host,omitempty"`
}

// Validate checks the configuration against the embedded JSON schema.
func (c *Config) Validate() error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(document{
		Addr:            c.Addr,
		LogLevel:        c.LogLevel,
		BrevoBaseURL:    c.BrevoBaseURL,
		UseMock:         c.UseMock,
		RequestTimeout:  c.RequestTimeout.Seconds(),
		CacheTTL:        c.CacheTTL.Seconds(),
		ChartCacheTTL:   c.ChartCacheTTL.Seconds(),
		ContactsLimit:   c.ContactsLimit,
		CampaignsLimit:  c.CampaignsLimit,
		LeadWindowDays:  c.LeadWindowDays,
		ChartTheme:      c.ChartTheme,
		ChartAssetsHost: c.ChartAssetsHost,
	})
	if err != nil {
		return fmt.Errorf("config: marshal for validation: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("config: normalize for validation: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("config: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("config.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("config: compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}
