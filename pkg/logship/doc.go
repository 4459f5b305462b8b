// Package logship is an asynchronous log-shipping client.
//
// Application code appends pre-serialized log entries; a background worker
// batches them and delivers them over HTTP to a log-collection endpoint,
// retrying transient failures and writing batches it could not deliver to
// a local backup file.
//
// # Basic Usage
//
//	cfg := logship.DefaultConfig()
//	cfg.Token = "your-token"
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	sender, err := logship.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sender.Close()
//
//	sender.Append([]byte(`{"message":"hello"}`))
//
// # Delivery
//
// Every DrainTimeout the worker drains the queue into batches of at most
// MaxBatchBytes (the entry crossing the cap is included) and posts each one
// as newline-joined text to "<URL>/?token=<Token>". A 200 ends the batch.
// A 400 or 401 drops it: retrying cannot fix a malformed payload or a bad
// token. Any other status, and any transport fault, is retried up to
// NumberOfRetries attempts, RetryTimeout apart. When the attempts run out
// and BackupLogs is set, the batch is appended to
// "<BackupDir>/<BackupPrefix>-<DDMMYYYY-HHMMSS>.txt".
//
// # Shutdown
//
// Cancelling the context passed to [New], or calling [Sender.Close], is the
// shutdown signal: the worker performs one more drain and stops. A later
// [Sender.Append] restarts it, as it does after a worker fault.
//
// # Configuration
//
// [LoadConfig] layers defaults, a TOML file and LOGSHIP_* environment
// variables:
//
//	url = "https://listener.logz.io:8071"
//	token = "..."
//	logs_drain_timeout = "5s"
//	network_timeout = "10s"
//	number_of_retries = 4
//	retry_timeout = "2s"
//	backup_logs = true
//	debug = false
package logship
