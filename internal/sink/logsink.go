package sink

import (
	"context"
	"log/slog"
)

// LogSink writes sanitized events to the process log. It is the default
// backend for the relay when no real integration is wired in; the wire
// protocol of a production backend is deliberately not defined here.
type LogSink struct {
	logger *slog.Logger
	opts   Options
}

func NewLogSink(logger *slog.Logger, opts Options) *LogSink {
	return &LogSink{logger: logger, opts: opts}
}

func (s *LogSink) Capture(ctx context.Context, event string, props Properties) error {
	props = applySanitize(s.opts, props)
	s.logger.InfoContext(ctx, "telemetry event",
		"event", event,
		"properties", props,
	)
	return nil
}

func (s *LogSink) Identify(ctx context.Context, distinctID string) error {
	s.logger.InfoContext(ctx, "telemetry identify",
		"distinct_id", distinctID,
	)
	return nil
}

func (s *LogSink) Close() error { return nil }
