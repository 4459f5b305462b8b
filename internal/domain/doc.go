// Package domain contains the values that flow through the delivery pipeline.
//
// It has no dependencies on transport, file system or logging.
//
//   - [Entry]: one pre-serialized log record
//   - [Batch]: an ordered, size-bounded group of entries sent in one request
//   - [Outcome]: the terminal result of delivering a batch
package domain
