// Package http implements the transport capability over net/http.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bft-labs/logship/internal/ports"
)

// maxResponseBody bounds how much of an error response is kept for logging.
const maxResponseBody = 64 << 10

// Transport implements ports.Transport with an HTTPClient.
// The client, and with it the connection pool, is reused across posts.
type Transport struct {
	client ports.HTTPClient
}

// NewTransport creates a transport. A nil client selects a new *http.Client.
func NewTransport(client ports.HTTPClient) *Transport {
	if client == nil {
		client = &http.Client{}
	}
	return &Transport{client: client}
}

// Post sends req.Body to req.URL. req.Timeout, when positive, bounds the
// whole exchange including reading the response.
func (t *Transport) Post(ctx context.Context, req ports.Request) (ports.Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return ports.Response{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return ports.Response{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return ports.Response{}, fmt.Errorf("read response: %w", err)
	}
	// Drain the rest so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return ports.Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
