package dashboard

import "context"

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a plain function into a Telemetry sink.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record implements Telemetry.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	if f != nil {
		f(ctx, event, payload)
	}
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
