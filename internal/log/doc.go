// Package log builds the slog loggers used across adoperator.
//
// Every logger is wrapped in a SecureHandler that masks credentials before they
// are written: the bearer token attached to API calls, account passwords, push
// subscription keys (p256dh and auth) and any JWT-shaped value, whatever the
// attribute key. Masking applies in verbose mode too.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	logger.Debug("request sent", "path", "/analyses", "authorization", "Bearer eyJ...")
//	// authorization=***REDACTED***
package log
