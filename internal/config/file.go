package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with string durations to keep TOML friendly.
type fileConfig struct {
	URL             string `toml:"url"`
	Token           string `toml:"token"`
	DrainTimeout    string `toml:"logs_drain_timeout"`
	NetworkTimeout  string `toml:"network_timeout"`
	NumberOfRetries int    `toml:"number_of_retries"`
	RetryTimeout    string `toml:"retry_timeout"`
	RetryBackoff    string `toml:"retry_backoff"`
	MaxRetryTimeout string `toml:"max_retry_timeout"`
	MaxBatchBytes   int    `toml:"max_batch_bytes"`
	BackupLogs      *bool  `toml:"backup_logs"`
	BackupDir       string `toml:"backup_dir"`
	BackupPrefix    string `toml:"backup_prefix"`
	Debug           *bool  `toml:"debug"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

func applyFileConfig(cfg *Config, fc fileConfig) error {
	setString(fc.URL, &cfg.URL)
	setString(fc.Token, &cfg.Token)
	setString(fc.RetryBackoff, &cfg.RetryBackoff)
	setString(fc.BackupDir, &cfg.BackupDir)
	setString(fc.BackupPrefix, &cfg.BackupPrefix)

	if err := setDuration("logs_drain_timeout", fc.DrainTimeout, &cfg.DrainTimeout); err != nil {
		return err
	}
	if err := setDuration("network_timeout", fc.NetworkTimeout, &cfg.NetworkTimeout); err != nil {
		return err
	}
	if err := setDuration("retry_timeout", fc.RetryTimeout, &cfg.RetryTimeout); err != nil {
		return err
	}
	if err := setDuration("max_retry_timeout", fc.MaxRetryTimeout, &cfg.MaxRetryTimeout); err != nil {
		return err
	}

	setInt(fc.NumberOfRetries, &cfg.NumberOfRetries)
	setInt(fc.MaxBatchBytes, &cfg.MaxBatchBytes)

	setBool(fc.BackupLogs, &cfg.BackupLogs)
	setBool(fc.Debug, &cfg.Debug)
	return nil
}

// ApplyFile layers the TOML file at path over cfg.
func ApplyFile(cfg *Config, path string) error {
	fc, err := loadFileConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return applyFileConfig(cfg, fc)
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty or the file does not exist), then LOGSHIP_* environment
// variables, and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := ApplyFile(&cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
