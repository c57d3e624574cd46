// Package telemetry provides the default Telemetry sink, structured logging
// via github.com/rs/zerolog in the style of the retrieval pack's EVM scanner
// precedent, stamping every event with a correlation id from
// github.com/google/uuid.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/certen/evmscan/infra"
)

// Logger is the default infra.Telemetry, emitting one structured zerolog
// event per call with a stable field schema.
type Logger struct {
	logger zerolog.Logger
}

var _ infra.Telemetry = (*Logger)(nil)

// New wraps an existing zerolog.Logger. Pass zerolog.Nop() to silence
// telemetry entirely without changing call sites.
func New(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Emit logs evt at info level for successful outcomes and warn level
// otherwise, with a fresh correlation id per event.
func (l *Logger) Emit(ctx context.Context, evt infra.Event) {
	ev := l.logger.Info()
	if evt.Outcome != "ok" {
		ev = l.logger.Warn()
	}

	ev = ev.
		Str("event_id", uuid.New().String()).
		Str("event", evt.Name).
		Str("provider", evt.Provider).
		Uint64("chain_id", evt.ChainID).
		Str("chain_name", evt.ChainName).
		Str("method", evt.Method).
		Str("outcome", evt.Outcome).
		Int64("duration_ms", evt.DurationMS).
		Int("status_code", evt.StatusCode)

	if evt.Err != nil {
		ev = ev.Err(evt.Err)
	}
	ev.Msg("evmscan call")
}
