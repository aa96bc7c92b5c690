package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-growth-dashboard/components/dashboard"
)

// RefreshCacheInput asks for cached upstream payloads and charts to be dropped.
type RefreshCacheInput struct {
	Reason string
}

// Purger is implemented by caches that can be emptied on demand.
type Purger interface {
	Purge() int
}

// RefreshCacheCommand empties the configured caches so the next render refetches.
type RefreshCacheCommand struct {
	caches    []Purger
	telemetry dashboard.Telemetry
}

// NewRefreshCacheCommand creates the command.
func NewRefreshCacheCommand(telemetry dashboard.Telemetry, caches ...Purger) *RefreshCacheCommand {
	if telemetry == nil {
		telemetry = dashboard.TelemetryFunc(nil)
	}
	return &RefreshCacheCommand{caches: caches, telemetry: telemetry}
}

var _ gocommand.Commander[RefreshCacheInput] = (*RefreshCacheCommand)(nil)

// Execute purges every cache.
func (c *RefreshCacheCommand) Execute(ctx context.Context, msg RefreshCacheInput) error {
	if len(c.caches) == 0 {
		return errors.New("refresh command requires at least one cache")
	}
	purged := 0
	for _, cache := range c.caches {
		if cache != nil {
			purged += cache.Purge()
		}
	}
	c.telemetry.Record(ctx, "dashboard.cache.refresh", map[string]any{
		"reason": msg.Reason,
		"purged": purged,
	})
	return nil
}
