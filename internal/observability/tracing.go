package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies spans produced by this module.
const instrumentationName = "github.com/ChanduRT/recon-bot-ai-sub000"

// Tracer returns the tracer for pipeline spans. The global tracer
// provider is a no-op unless the host process installs a real one, so
// instrumented code pays nothing when tracing is off.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
