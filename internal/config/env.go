package config

import "os"

// ApplyEnv layers LOGSHIP_* environment variables over cfg.
// Returns an error if a variable has an invalid format.
func ApplyEnv(cfg *Config) error {
	setString(os.Getenv("LOGSHIP_URL"), &cfg.URL)
	setString(os.Getenv("LOGSHIP_TOKEN"), &cfg.Token)
	setString(os.Getenv("LOGSHIP_RETRY_BACKOFF"), &cfg.RetryBackoff)
	setString(os.Getenv("LOGSHIP_BACKUP_DIR"), &cfg.BackupDir)
	setString(os.Getenv("LOGSHIP_BACKUP_PREFIX"), &cfg.BackupPrefix)

	if err := setDuration("LOGSHIP_LOGS_DRAIN_TIMEOUT", os.Getenv("LOGSHIP_LOGS_DRAIN_TIMEOUT"), &cfg.DrainTimeout); err != nil {
		return err
	}
	if err := setDuration("LOGSHIP_NETWORK_TIMEOUT", os.Getenv("LOGSHIP_NETWORK_TIMEOUT"), &cfg.NetworkTimeout); err != nil {
		return err
	}
	if err := setDuration("LOGSHIP_RETRY_TIMEOUT", os.Getenv("LOGSHIP_RETRY_TIMEOUT"), &cfg.RetryTimeout); err != nil {
		return err
	}
	if err := setDuration("LOGSHIP_MAX_RETRY_TIMEOUT", os.Getenv("LOGSHIP_MAX_RETRY_TIMEOUT"), &cfg.MaxRetryTimeout); err != nil {
		return err
	}

	if err := setIntFromString("LOGSHIP_NUMBER_OF_RETRIES", os.Getenv("LOGSHIP_NUMBER_OF_RETRIES"), &cfg.NumberOfRetries); err != nil {
		return err
	}
	if err := setIntFromString("LOGSHIP_MAX_BATCH_BYTES", os.Getenv("LOGSHIP_MAX_BATCH_BYTES"), &cfg.MaxBatchBytes); err != nil {
		return err
	}

	if err := setBoolFromString("LOGSHIP_BACKUP_LOGS", os.Getenv("LOGSHIP_BACKUP_LOGS"), &cfg.BackupLogs); err != nil {
		return err
	}
	return setBoolFromString("LOGSHIP_DEBUG", os.Getenv("LOGSHIP_DEBUG"), &cfg.Debug)
}
