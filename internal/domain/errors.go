package domain

import "errors"

// Errors returned by the public API; check them with errors.Is.
var (
	// ErrAlreadyRunning is returned when the drain worker is started twice.
	ErrAlreadyRunning = errors.New("logship: already running")

	// ErrNotRunning is returned for a transition that requires a running worker.
	ErrNotRunning = errors.New("logship: not running")

	// ErrShutdownTimeout is returned when the terminal drain does not finish in time.
	ErrShutdownTimeout = errors.New("logship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("logship: invalid configuration")

	// ErrDrainPanic wraps a panic recovered from a drain cycle.
	ErrDrainPanic = errors.New("logship: drain cycle panicked")
)
