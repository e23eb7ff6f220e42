package replay

import (
	logAdapter "github.com/bft-labs/replay/internal/adapters/log"
	"github.com/bft-labs/replay/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Option configures optional behavior of Replay.
type Option func(*options)

type options struct {
	logger       ports.Logger
	eventHandler EventHandler
}

func defaultOptions() options {
	return options{logger: logAdapter.NewNoopLogger()}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for capture lifecycle events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
