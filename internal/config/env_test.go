package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("LOGSHIP_URL", "http://collector:8070")
	t.Setenv("LOGSHIP_TOKEN", "env-token")
	t.Setenv("LOGSHIP_LOGS_DRAIN_TIMEOUT", "2")
	t.Setenv("LOGSHIP_NETWORK_TIMEOUT", "1500ms")
	t.Setenv("LOGSHIP_RETRY_TIMEOUT", "0.5")
	t.Setenv("LOGSHIP_MAX_BATCH_BYTES", "4096")
	t.Setenv("LOGSHIP_BACKUP_LOGS", "false")
	t.Setenv("LOGSHIP_BACKUP_PREFIX", "failed")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "http://collector:8070", cfg.URL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, 2*time.Second, cfg.DrainTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.NetworkTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryTimeout)
	assert.Equal(t, 4096, cfg.MaxBatchBytes)
	assert.False(t, cfg.BackupLogs)
	assert.Equal(t, "failed", cfg.BackupPrefix)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LOGSHIP_NUMBER_OF_RETRIES", "many"},
		{"LOGSHIP_MAX_BATCH_BYTES", "1MB"},
		{"LOGSHIP_RETRY_TIMEOUT", "later"},
		{"LOGSHIP_BACKUP_LOGS", "maybe"},
		{"LOGSHIP_DEBUG", "yes please"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := DefaultConfig()
			assert.Error(t, ApplyEnv(&cfg))
		})
	}
}
