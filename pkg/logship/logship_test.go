package logship_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/logship/pkg/log"
	"github.com/bft-labs/logship/pkg/logship"
)

// collector is an httptest endpoint answering with a scripted status list;
// the last status repeats.
type collector struct {
	mu       sync.Mutex
	statuses []int
	bodies   []string
	queries  []string
	agents   []string
	calls    atomic.Int32
}

func newCollector(t *testing.T, statuses ...int) (*collector, *httptest.Server) {
	t.Helper()
	c := &collector{statuses: statuses}
	srv := httptest.NewServer(http.HandlerFunc(c.serve))
	t.Cleanup(srv.Close)
	return c, srv
}

func (c *collector) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	n := int(c.calls.Add(1))

	c.mu.Lock()
	c.bodies = append(c.bodies, string(body))
	c.queries = append(c.queries, r.URL.RawQuery)
	c.agents = append(c.agents, r.Header.Get("User-Agent"))
	status := c.statuses[len(c.statuses)-1]
	if n <= len(c.statuses) {
		status = c.statuses[n-1]
	}
	c.mu.Unlock()

	w.WriteHeader(status)
}

func (c *collector) Bodies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.bodies...)
}

// recorder collects events and signals each completed drain cycle.
type recorder struct {
	logship.BaseEventHandler

	mu        sync.Mutex
	delivered []logship.BatchEvent
	rejected  []logship.BatchEvent
	exhausted []logship.BatchEvent
	backups   []logship.BackupEvent
	cycles    chan logship.DrainCycleEvent
}

func newRecorder() *recorder {
	return &recorder{cycles: make(chan logship.DrainCycleEvent, 64)}
}

func (r *recorder) OnBatchDelivered(e logship.BatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, e)
}

func (r *recorder) OnBatchRejected(e logship.BatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, e)
}

func (r *recorder) OnBatchExhausted(e logship.BatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exhausted = append(r.exhausted, e)
}

func (r *recorder) OnBackup(e logship.BackupEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backups = append(r.backups, e)
}

func (r *recorder) OnDrainCycle(e logship.DrainCycleEvent) {
	select {
	case r.cycles <- e:
	default:
	}
}

func testConfig(t *testing.T, url string) logship.Config {
	t.Helper()
	cfg := logship.DefaultConfig()
	cfg.URL = url
	cfg.Token = "test-token"
	cfg.DrainTimeout = time.Hour
	cfg.NetworkTimeout = 2 * time.Second
	cfg.RetryTimeout = time.Millisecond
	cfg.MaxRetryTimeout = time.Millisecond
	cfg.BackupDir = t.TempDir()
	return cfg
}

// startSender builds a sender and waits until its first (empty) drain cycle
// completed, so entries appended afterwards stay queued until Flush or Close.
func startSender(t *testing.T, ctx context.Context, cfg logship.Config) (*logship.Sender, *recorder) {
	t.Helper()
	rec := newRecorder()
	s, err := logship.New(ctx, cfg,
		logship.WithLogger(log.NewNoopLogger()),
		logship.WithEventHandler(rec),
		logship.WithShutdownTimeout(5*time.Second),
	)
	require.NoError(t, err)

	select {
	case <-rec.cycles:
	case <-time.After(5 * time.Second):
		t.Fatal("drain worker never completed its first cycle")
	}
	return s, rec
}

func TestSender_RetriesThenDelivers(t *testing.T) {
	c, srv := newCollector(t, http.StatusServiceUnavailable, http.StatusOK)
	cfg := testConfig(t, srv.URL)

	s, rec := startSender(t, context.Background(), cfg)
	s.Append([]byte("a"))
	s.Append([]byte("b"))
	s.Append([]byte("c"))
	assert.Equal(t, 3, s.Pending())

	require.NoError(t, s.Close())

	assert.Equal(t, int32(2), c.calls.Load())
	assert.Equal(t, []string{"a\nb\nc", "a\nb\nc"}, c.Bodies())
	c.mu.Lock()
	assert.Equal(t, "token=test-token", c.queries[0])
	assert.Equal(t, logship.UserAgent(), c.agents[0])
	c.mu.Unlock()

	require.Len(t, rec.delivered, 1)
	assert.Equal(t, 3, rec.delivered[0].Entries)
	assert.Equal(t, 2, rec.delivered[0].Attempts)
	assert.Empty(t, rec.backups)

	files, err := os.ReadDir(cfg.BackupDir)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, logship.StateTerminated, s.Status())
}

func TestSender_ExhaustedBatchIsBackedUp(t *testing.T) {
	c, srv := newCollector(t, http.StatusInternalServerError)
	cfg := testConfig(t, srv.URL)
	cfg.NumberOfRetries = 3
	cfg.BackupPrefix = "failed"

	s, rec := startSender(t, context.Background(), cfg)
	s.Append([]byte(`{"n":1}`))
	s.Append([]byte(`{"n":2}`))
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, int32(3), c.calls.Load())
	require.Len(t, rec.exhausted, 1)
	require.Len(t, rec.backups, 1)
	require.NoError(t, rec.backups[0].Err)

	files, err := os.ReadDir(cfg.BackupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0].Name(), "failed-"))
	assert.True(t, strings.HasSuffix(files[0].Name(), ".txt"))
	assert.Equal(t, filepath.Join(cfg.BackupDir, files[0].Name()), rec.backups[0].Path)

	data, err := os.ReadFile(rec.backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n", string(data))

	require.NoError(t, s.Close())
}

func TestSender_FlushWithExpiredContextRetriesAndBacksUp(t *testing.T) {
	c, srv := newCollector(t, http.StatusInternalServerError)
	cfg := testConfig(t, srv.URL)
	cfg.NumberOfRetries = 4

	s, rec := startSender(t, context.Background(), cfg)
	s.Append([]byte("one"))
	s.Append([]byte("two"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, int32(4), c.calls.Load())

	require.Len(t, rec.exhausted, 1)
	assert.Equal(t, 4, rec.exhausted[0].Attempts)
	require.Len(t, rec.backups, 1)
	require.NoError(t, rec.backups[0].Err)

	files, err := os.ReadDir(cfg.BackupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(rec.backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	require.NoError(t, s.Close())
}

func TestSender_ExhaustedWithoutBackupDrops(t *testing.T) {
	c, srv := newCollector(t, http.StatusBadGateway)
	cfg := testConfig(t, srv.URL)
	cfg.NumberOfRetries = 2
	cfg.BackupLogs = false

	s, rec := startSender(t, context.Background(), cfg)
	s.Append([]byte("lost"))
	require.NoError(t, s.Close())

	assert.Equal(t, int32(2), c.calls.Load())
	require.Len(t, rec.exhausted, 1)
	assert.Empty(t, rec.backups)

	files, err := os.ReadDir(cfg.BackupDir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSender_RejectedIsNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "bad request", status: http.StatusBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newCollector(t, tt.status)
			cfg := testConfig(t, srv.URL)

			s, rec := startSender(t, context.Background(), cfg)
			s.Append([]byte("x"))
			require.NoError(t, s.Close())

			assert.Equal(t, int32(1), c.calls.Load())
			require.Len(t, rec.rejected, 1)
			assert.Equal(t, tt.status, rec.rejected[0].StatusCode)
			assert.Empty(t, rec.backups)

			files, err := os.ReadDir(cfg.BackupDir)
			require.NoError(t, err)
			assert.Empty(t, files)
		})
	}
}

func TestSender_LargeQueueSplitsIntoBatches(t *testing.T) {
	c, srv := newCollector(t, http.StatusOK)
	cfg := testConfig(t, srv.URL)
	cfg.MaxBatchBytes = 10

	s, _ := startSender(t, context.Background(), cfg)
	for _, e := range []string{"aaaa", "bbbb", "cccc", "dddd", "e"} {
		s.Append([]byte(e))
	}
	require.NoError(t, s.Close())

	// 5 bytes per entry: the second entry reaches the cap and closes the batch.
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc\ndddd", "e"}, c.Bodies())
}

func TestSender_ParentContextCancelDrains(t *testing.T) {
	c, srv := newCollector(t, http.StatusOK)
	cfg := testConfig(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	s, rec := startSender(t, ctx, cfg)
	s.Append([]byte("bye"))
	cancel()

	select {
	case ev := <-rec.cycles:
		assert.True(t, ev.Final)
	case <-time.After(5 * time.Second):
		t.Fatal("no final drain after cancellation")
	}
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"bye"}, c.Bodies())
}

func TestSender_AppendAfterCloseRestartsWorker(t *testing.T) {
	c, srv := newCollector(t, http.StatusOK)
	cfg := testConfig(t, srv.URL)

	s, _ := startSender(t, context.Background(), cfg)
	require.NoError(t, s.Close())
	assert.Equal(t, logship.StateTerminated, s.Status())

	s.Append([]byte("late"))

	require.Eventually(t, func() bool {
		return c.calls.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"late"}, c.Bodies())
	assert.Equal(t, logship.StateTerminated, s.Status())
}

func TestSender_AppendJSON(t *testing.T) {
	c, srv := newCollector(t, http.StatusOK)
	cfg := testConfig(t, srv.URL)

	s, _ := startSender(t, context.Background(), cfg)
	require.NoError(t, s.AppendJSON(map[string]any{"message": "hi", "level": "info"}))
	require.Error(t, s.AppendJSON(make(chan int)))
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.Close())
	assert.Equal(t, []string{`{"level":"info","message":"hi"}`}, c.Bodies())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := logship.DefaultConfig()
	cfg.Token = ""

	s, err := logship.New(context.Background(), cfg)
	require.ErrorIs(t, err, logship.ErrInvalidConfig)
	assert.Nil(t, s)
}
