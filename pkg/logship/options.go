package logship

import (
	"time"

	"github.com/bft-labs/logship/internal/app"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Transport posts a batch body and reports the status code or a fault.
type Transport = ports.Transport

// TransportRequest and TransportResponse are the Transport payloads.
type (
	TransportRequest  = ports.Request
	TransportResponse = ports.Response
)

// FallbackSink stores batches whose delivery was exhausted.
type FallbackSink = ports.FallbackSink

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// Option configures optional behavior of a Sender.
type Option func(*options)

type options struct {
	httpClient      ports.HTTPClient
	transport       ports.Transport
	fallback        ports.FallbackSink
	logger          log.Logger
	eventHandler    EventHandler
	shutdownTimeout time.Duration
}

func defaultOptions() options {
	return options{
		httpClient:      defaultHTTPClient,
		shutdownTimeout: app.ShutdownTimeout,
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
// Per-request timeouts come from Config.NetworkTimeout.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithFallbackSink replaces the backup-file sink. It is used only when
// Config.BackupLogs is true.
func WithFallbackSink(sink FallbackSink) Option {
	return func(o *options) {
		o.fallback = sink
	}
}

// WithLogger sets a custom logger. Without it, a zerolog console logger on
// stderr is used, at debug level when Config.Debug is set.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for sender events.
// Events are called synchronously from the drain worker.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithShutdownTimeout bounds how long Close waits for the final drain.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}
