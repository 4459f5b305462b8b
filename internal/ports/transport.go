package ports

import (
	"context"
	"net/http"
	"time"
)

// Request is one POST of a batch body.
type Request struct {
	URL     string
	Header  http.Header
	Body    []byte
	Timeout time.Duration
}

// Response is what the endpoint answered.
type Response struct {
	StatusCode int
	Body       string
}

// Transport posts bytes to the collection endpoint.
// A returned error is a transport-level fault (timeout, refused connection);
// any HTTP status, including 5xx, is reported through Response.
// Only the drain worker calls Post, never concurrently.
type Transport interface {
	Post(ctx context.Context, req Request) (Response, error)
}
