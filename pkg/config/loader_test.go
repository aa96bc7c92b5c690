package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/goliatone/go-growth-dashboard/pkg/config"
)

var configEnvVars = []string{
	"BREVO_API_KEY", "BREVO_BASE_URL", "USE_MOCK",
	"DASHBOARD_CONFIG", "DASHBOARD_ENV_FILE", "DASHBOARD_ADDR", "DASHBOARD_LOG_LEVEL",
	"DASHBOARD_BREVO_API_KEY", "DASHBOARD_USE_MOCK", "DASHBOARD_REQUEST_TIMEOUT",
	"DASHBOARD_CACHE_TTL", "DASHBOARD_CONTACTS_LIMIT", "DASHBOARD_LEAD_WINDOW_DAYS",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("DASHBOARD_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.BrevoBaseURL, convey.ShouldEqual, "https://api.brevo.com/v3")
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 15*time.Second)
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 60*time.Second)
				convey.So(cfg.LeadWindow(), convey.ShouldEqual, 7*24*time.Hour)
				convey.So(cfg.Settings().Offline(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the documented variables are set", func() {
			_ = os.Setenv("BREVO_API_KEY", "xkeysib-123")
			_ = os.Setenv("USE_MOCK", "1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they map onto the config", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BrevoAPIKey, convey.ShouldEqual, "xkeysib-123")
				convey.So(cfg.UseMock, convey.ShouldBeTrue)
				convey.So(cfg.Settings().Mode(), convey.ShouldEqual, "mock")
			})
		})

		convey.Convey("When USE_MOCK holds a value other than 1", func() {
			for _, value := range []string{"yes", "true", "on", "0"} {
				_ = os.Setenv("BREVO_API_KEY", "xkeysib-123")
				_ = os.Setenv("USE_MOCK", value)

				cfg, err := config.Load(ctx)

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.UseMock, convey.ShouldBeFalse)
				convey.So(cfg.Settings().Mode(), convey.ShouldEqual, "live")
			}
		})

		convey.Convey("When DASHBOARD_USE_MOCK is set to 1", func() {
			_ = os.Setenv("BREVO_API_KEY", "xkeysib-123")
			_ = os.Setenv("DASHBOARD_USE_MOCK", "1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then demo mode is enabled", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.UseMock, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When prefixed variables are set", func() {
			_ = os.Setenv("BREVO_API_KEY", "bare")
			_ = os.Setenv("DASHBOARD_BREVO_API_KEY", "prefixed")
			_ = os.Setenv("DASHBOARD_ADDR", ":9000")
			_ = os.Setenv("DASHBOARD_REQUEST_TIMEOUT", "5s")
			_ = os.Setenv("DASHBOARD_CONTACTS_LIMIT", "200")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override defaults and bare variables", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BrevoAPIKey, convey.ShouldEqual, "prefixed")
				convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.ContactsPage().Limit, convey.ShouldEqual, 200)
				convey.So(cfg.Settings().Mode(), convey.ShouldEqual, "live")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeTempFile(t, "dashboard.yaml", `
addr: ":9090"
cache_ttl: "2m"
campaigns_limit: 25
lead_window_days: 14
chart_theme: walden
`)
			_ = os.Setenv("DASHBOARD_CONFIG", path)
			_ = os.Setenv("DASHBOARD_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 2*time.Minute)
				convey.So(cfg.CampaignsPage().Limit, convey.ShouldEqual, 25)
				convey.So(cfg.LeadWindow(), convey.ShouldEqual, 14*24*time.Hour)
				convey.So(cfg.ChartTheme, convey.ShouldEqual, "walden")
			})
		})

		convey.Convey("When a .env file is present", func() {
			path := writeTempFile(t, "test.env", "BREVO_API_KEY=from-dotenv\n")
			_ = os.Setenv("DASHBOARD_ENV_FILE", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables are picked up", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BrevoAPIKey, convey.ShouldEqual, "from-dotenv")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("DASHBOARD_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a value violates the schema", func() {
			_ = os.Setenv("DASHBOARD_CONTACTS_LIMIT", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "invalid configuration")
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given default config", t, func() {
		cfg := config.New()

		convey.Convey("Then it validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the timeout is zero", func() {
			cfg.RequestTimeout = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the base url is not http", func() {
			cfg.BrevoBaseURL = "ftp://example.com"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the log level is unknown", func() {
			cfg.LogLevel = "loud"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
