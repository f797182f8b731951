package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidAPIURL is returned when the API URL is not an absolute http(s) URL.
	ErrInvalidAPIURL = errors.New("invalid api url: must be an absolute http or https URL")

	// ErrInvalidAppURL is returned when the app URL is not an absolute http(s) URL.
	ErrInvalidAppURL = errors.New("invalid app url: must be an absolute http or https URL")

	// ErrUnsupportedLanguage is returned for a language the backend does not answer in.
	ErrUnsupportedLanguage = errors.New("unsupported language: use pt, en or es")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMediaTimeout is returned when the media timeout is not positive.
	ErrInvalidMediaTimeout = errors.New("invalid media timeout: must be positive")

	// ErrInvalidRateLimit is returned for a negative rate or a rate without burst.
	ErrInvalidRateLimit = errors.New("invalid rate limit: rate must be non-negative and burst positive")

	// ErrEmptyCacheName is returned when the offline cache name is empty.
	ErrEmptyCacheName = errors.New("cache name must not be empty")

	// ErrInvalidLoadingInterval is returned when the loading interval is not positive.
	ErrInvalidLoadingInterval = errors.New("invalid loading interval: must be positive")

	// ErrInvalidPushTiming is returned for a negative push cool-down or prompt delay.
	ErrInvalidPushTiming = errors.New("invalid push timing: cool-down and delay must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
