// Package log is the logging collaborator of the delivery pipeline.
//
// The pipeline never formats its own output. Every diagnostic event (a batch
// delivered, a retryable status, a transport fault, a backup written) is
// passed to a [Logger] as a message plus structured [Field]s.
//
// The default implementation wraps zerolog and writes a console format to
// stderr:
//
//	logger := log.NewZerologAdapter(cfg.Debug)
//
// Tests can use [NoopLogger], or implement [Logger] to capture events:
//
//	type captureLogger struct { ... }
//
//	func (l *captureLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *captureLogger) Info(msg string, fields ...log.Field)  { ... }
//	func (l *captureLogger) Warn(msg string, fields ...log.Field)  { ... }
//	func (l *captureLogger) Error(msg string, fields ...log.Field) { ... }
package log
