// Package fs implements the fallback sink on the local file system.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/pkg/log"
)

// fileTimeLayout renders DDMMYYYY-HHMMSS.
const fileTimeLayout = "02012006-150405"

// DefaultPrefix is the file name prefix of backup files.
const DefaultPrefix = "logship-failures"

// defaultMaxSizeMB caps a single backup file before lumberjack rotates it.
const defaultMaxSizeMB = 100

// FallbackFile implements ports.FallbackSink by appending batches to
// "<prefix>-<DDMMYYYY-HHMMSS>.txt" in dir. Batches persisted within the same
// second share a file.
//
// A file that grows past 100 MB is rotated by lumberjack, which renames it
// with its own timestamp suffix outside the pattern above. The first write
// starts lumberjack's background mill goroutine; it lives until the process
// exits.
type FallbackFile struct {
	dir    string
	prefix string
	now    func() time.Time
	logger log.Logger

	mu          sync.Mutex
	writer      *lumberjack.Logger
	closeWriter func() error
}

// NewFallbackFile creates a sink writing to dir. Empty values select the
// current directory and DefaultPrefix. A nil logger discards messages.
func NewFallbackFile(dir, prefix string, logger log.Logger) *FallbackFile {
	if dir == "" {
		dir = "."
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	f := &FallbackFile{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
		logger: logger,
		writer: &lumberjack.Logger{MaxSize: defaultMaxSizeMB},
	}
	f.closeWriter = f.writer.Close
	return f
}

// Path returns the file a batch persisted at t goes to.
func (f *FallbackFile) Path(t time.Time) string {
	return filepath.Join(f.dir, fmt.Sprintf("%s-%s.txt", f.prefix, t.Format(fileTimeLayout)))
}

// Persist appends the batch entries, one per line, and returns the file path.
// ctx is not consulted: an exhausted batch is written even during shutdown.
func (f *FallbackFile) Persist(_ context.Context, b *domain.Batch) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	path := f.Path(f.now())
	var buf bytes.Buffer
	for _, e := range b.Entries {
		buf.Write(e.Bytes())
		buf.WriteByte('\n')
	}

	// One lumberjack.Logger is reused; it reopens in append mode whenever
	// the target second changes. A failed close still releases the handle.
	if f.writer.Filename != path {
		if err := f.closeWriter(); err != nil {
			f.logger.Warn("failed to close previous backup file",
				log.String("path", f.writer.Filename),
				log.Err(err),
			)
		}
		f.writer.Filename = path
	}
	if _, err := f.writer.Write(buf.Bytes()); err != nil {
		return path, fmt.Errorf("write backup %s: %w", path, err)
	}
	return path, nil
}

// Close releases the open backup file, if any.
func (f *FallbackFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeWriter()
}
