// Package config holds the sender configuration and its file and
// environment layers.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bft-labs/logship/internal/domain"
)

// DefaultURL is the default collection endpoint.
const DefaultURL = "https://listener.logz.io:8071"

// Backoff kinds.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Config is the sender configuration. It is read once at construction and
// never mutated afterwards.
type Config struct {
	URL   string
	Token string

	DrainTimeout    time.Duration
	NetworkTimeout  time.Duration
	NumberOfRetries int
	RetryTimeout    time.Duration
	RetryBackoff    string
	MaxRetryTimeout time.Duration

	MaxBatchBytes int

	BackupLogs   bool
	BackupDir    string
	BackupPrefix string

	Debug bool
}

// DefaultConfig returns a Config with default values. Token is left empty.
func DefaultConfig() Config {
	return Config{
		URL:             DefaultURL,
		DrainTimeout:    5 * time.Second,
		NetworkTimeout:  10 * time.Second,
		NumberOfRetries: 4,
		RetryTimeout:    2 * time.Second,
		RetryBackoff:    BackoffFixed,
		MaxRetryTimeout: 30 * time.Second,
		MaxBatchBytes:   1 << 20, // 1MB
		BackupLogs:      true,
		BackupDir:       ".",
		BackupPrefix:    "logship-failures",
	}
}

// Validate checks the configuration and normalizes the URL.
func (c *Config) Validate() error {
	c.URL = strings.TrimRight(c.URL, "/")
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidConfig)
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url %q is not absolute", domain.ErrInvalidConfig, c.URL)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidConfig)
	}

	if c.DrainTimeout <= 0 {
		return fmt.Errorf("%w: drain timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.NetworkTimeout <= 0 {
		return fmt.Errorf("%w: network timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.NumberOfRetries < 1 {
		return fmt.Errorf("%w: number of retries must be at least 1", domain.ErrInvalidConfig)
	}
	if c.RetryTimeout < 0 {
		return fmt.Errorf("%w: retry timeout must not be negative", domain.ErrInvalidConfig)
	}
	if c.MaxBatchBytes <= 0 {
		return fmt.Errorf("%w: max batch bytes must be positive", domain.ErrInvalidConfig)
	}

	switch c.RetryBackoff {
	case "":
		c.RetryBackoff = BackoffFixed
	case BackoffFixed, BackoffExponential:
	default:
		return fmt.Errorf("%w: unknown retry backoff %q", domain.ErrInvalidConfig, c.RetryBackoff)
	}
	if c.MaxRetryTimeout < c.RetryTimeout {
		c.MaxRetryTimeout = c.RetryTimeout
	}

	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "*****"
	}
	return c
}
