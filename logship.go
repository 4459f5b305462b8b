// Package logship ships log entries asynchronously to an HTTP log-collection
// endpoint, with retries and a local backup file for undeliverable batches.
//
// Example usage:
//
//	cfg, err := logship.LoadConfig("logship.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sender, err := logship.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sender.Close()
//	sender.Append([]byte(`{"message":"hello"}`))
//
// The full API, including options and event handlers, lives in pkg/logship.
package logship

import (
	"context"

	"github.com/bft-labs/logship/internal/config"
	"github.com/bft-labs/logship/pkg/logship"
)

// Config holds the sender configuration.
// Use DefaultConfig() or LoadConfig() to get one with defaults applied.
type Config = logship.Config

// Sender ships log entries in the background.
type Sender = logship.Sender

// New validates cfg and starts a Sender. Cancelling ctx shuts it down.
func New(ctx context.Context, cfg Config, opts ...logship.Option) (*Sender, error) {
	return logship.New(ctx, cfg, opts...)
}

// DefaultConfig returns a Config with default values. Token must be set.
func DefaultConfig() Config {
	return logship.DefaultConfig()
}

// LoadConfig reads an optional TOML file and LOGSHIP_* environment overrides.
func LoadConfig(path string) (Config, error) {
	return logship.LoadConfig(path)
}

// DefaultURL is the default collection endpoint.
const DefaultURL = config.DefaultURL
