// Package ports defines the capabilities the delivery pipeline consumes from
// the outside world.
//
//   - [Transport]: POST a body with a timeout, get a status code or a fault
//   - [HTTPClient]: the request executor behind the default transport
//   - [FallbackSink]: durable storage for batches that could not be delivered
//
// The application layer (internal/app, internal/delivery) depends only on
// these interfaces. Adapters under internal/adapters implement them.
package ports
