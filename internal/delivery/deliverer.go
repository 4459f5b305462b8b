// Package delivery sends one batch to the collection endpoint, retrying
// transient failures.
package delivery

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/pkg/log"
)

// Config holds the immutable parameters of the retry loop.
type Config struct {
	URL             string
	Token           string
	UserAgent       string
	NetworkTimeout  time.Duration
	NumberOfRetries int
	RetryTimeout    time.Duration
	RetryBackoff    string
	MaxRetryTimeout time.Duration
}

// Result describes how a delivery ended.
type Result struct {
	Outcome    domain.Outcome
	Attempts   int
	StatusCode int // last status received, 0 after a transport fault
	Err        error
}

// Deliverer runs the per-batch retry state machine against a Transport.
type Deliverer struct {
	config    Config
	target    string
	transport ports.Transport
	logger    log.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewDeliverer creates a deliverer posting to config.URL with the token as
// a query parameter.
func NewDeliverer(config Config, transport ports.Transport, logger log.Logger) *Deliverer {
	if config.NumberOfRetries < 1 {
		config.NumberOfRetries = 1
	}
	return &Deliverer{
		config:    config,
		target:    TargetURL(config.URL, config.Token),
		transport: transport,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// TargetURL returns "<endpoint>/?token=<token>".
func TargetURL(endpoint, token string) string {
	return strings.TrimRight(endpoint, "/") + "/?token=" + url.QueryEscape(token)
}

// Deliver posts the batch until it is accepted, rejected, or the attempts
// run out. The delay between attempts comes from the configured backoff;
// there is no delay after the last attempt. If ctx ends while waiting, the
// batch is reported Exhausted.
func (d *Deliverer) Deliver(ctx context.Context, b *domain.Batch) Result {
	backoff := NewBackoff(d.config.RetryBackoff, d.config.RetryTimeout, d.config.MaxRetryTimeout)
	req := ports.Request{
		URL:     d.target,
		Header:  d.header(),
		Body:    b.Body(),
		Timeout: d.config.NetworkTimeout,
	}
	retries := d.config.NumberOfRetries

	var res Result
	for attempt := 1; attempt <= retries; attempt++ {
		res.Attempts = attempt

		resp, err := d.transport.Post(ctx, req)
		if err != nil {
			res.StatusCode, res.Err = 0, err
			d.logger.Warn("got exception while sending logs",
				log.Int("try", attempt),
				log.Int("of", retries),
				log.Err(err),
			)
		} else {
			res.StatusCode, res.Err = resp.StatusCode, nil
			switch resp.StatusCode {
			case http.StatusOK:
				d.logger.Debug("successfully sent bulk of logs",
					log.Int("logs", b.Size()),
					log.Int("try", attempt),
				)
				res.Outcome = domain.Delivered
				return res
			case http.StatusBadRequest:
				d.logger.Info("got 400 code, some logs are too big or badly formatted; dropping logs",
					log.Int("logs", b.Size()),
					log.String("response", resp.Body),
				)
				res.Outcome = domain.Rejected
				return res
			case http.StatusUnauthorized:
				d.logger.Info("not authorized, check the token; dropping logs",
					log.Int("logs", b.Size()),
				)
				res.Outcome = domain.Rejected
				return res
			default:
				d.logger.Info("got unexpected status while sending logs",
					log.Int("status", resp.StatusCode),
					log.Int("try", attempt),
					log.Int("of", retries),
					log.String("response", resp.Body),
				)
			}
		}

		if attempt < retries {
			if err := d.sleep(ctx, backoff.Next(attempt)); err != nil {
				res.Err = err
				break
			}
		}
	}

	res.Outcome = domain.Exhausted
	return res
}

func (d *Deliverer) header() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain")
	if d.config.UserAgent != "" {
		h.Set("User-Agent", d.config.UserAgent)
	}
	return h
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
