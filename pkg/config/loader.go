package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "DASHBOARD_"
	envFile    = "DASHBOARD_ENV_FILE"
	configFile = "DASHBOARD_CONFIG"
)

// aliases maps the bare variables documented for the dashboard onto config keys.
var aliases = map[string]string{
	"BREVO_API_KEY":  "brevo_api_key",
	"BREVO_BASE_URL": "brevo_base_url",
	"USE_MOCK":       "use_mock",
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. .env file (DASHBOARD_ENV_FILE, default ".env"); existing env vars win
//  3. YAML file if DASHBOARD_CONFIG is set
//  4. BREVO_API_KEY, BREVO_BASE_URL, USE_MOCK ("1" enables demo mode)
//  5. DASHBOARD_* variables
//
// The result is validated before it is returned.
func Load(_ context.Context) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(configFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	aliasProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		name := aliases[key]
		if name == "use_mock" {
			return name, mockFlag(value)
		}
		return name, value
	})
	if err := k.Load(aliasProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	prefixed := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		if key == configFile || key == envFile {
			return "", nil
		}
		name := strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if name == "use_mock" {
			return name, mockFlag(value)
		}
		return name, value
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mockFlag reads demo mode from the environment: only "1" enables it, any
// other value means live.
func mockFlag(value string) bool {
	return strings.TrimSpace(value) == "1"
}

func loadDotenv() error {
	path := os.Getenv(envFile)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
