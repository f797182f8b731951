package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "adoperator"

	// DefaultAPIURL is the backend REST base URL, including the /api prefix.
	DefaultAPIURL = "http://localhost:8001/api"

	// DefaultAppURL is the web app origin fronted by the offline worker.
	DefaultAppURL = "http://localhost:3000"

	// DefaultListenAddress is where `adoperator serve` listens.
	DefaultListenAddress = "127.0.0.1:8787"

	// DefaultLanguage is sent as X-Language. The backend answers in Portuguese by default.
	DefaultLanguage = "pt"

	// DefaultTimeout bounds a single stage call. Stage calls wait on a language
	// model and routinely take tens of seconds.
	DefaultTimeout = 120 * time.Second

	// DefaultMediaTimeout bounds uploads and creative generation.
	DefaultMediaTimeout = 10 * time.Minute

	// DefaultRateBurst is the token bucket size when RateLimit is set.
	DefaultRateBurst = 1

	// DefaultCacheName is the versioned offline cache name. Bump it whenever the
	// precached shell asset list changes.
	DefaultCacheName = "adoperator-v2"

	// DefaultLoadingInterval is the period between loading messages.
	DefaultLoadingInterval = 3 * time.Second

	// DefaultPushCooldown suppresses the push prompt after a dismissal.
	DefaultPushCooldown = 7 * 24 * time.Hour

	// DefaultPushPromptDelay is the wait before the push prompt is shown.
	DefaultPushPromptDelay = 3 * time.Second
)

// SupportedLanguages are the X-Language values the backend understands.
var SupportedLanguages = []string{"pt", "en", "es"}

// Config holds all configuration options for adoperator. It is built from
// defaults, the optional YAML file and CLI flags, in that order, and passed
// down explicitly.
type Config struct {
	// APIURL is the backend base URL, e.g. https://host/api.
	APIURL string

	// AppURL is the origin of the web app that `serve` fronts.
	AppURL string

	// ListenAddress is the host:port `serve` binds to.
	ListenAddress string

	// Language is sent with every request as X-Language.
	Language string

	// Timeout bounds each API call except media and creatives.
	Timeout time.Duration

	// MediaTimeout bounds media uploads and creative generation.
	MediaTimeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in host:port form.
	ProxyAddress string

	// RateLimit caps outgoing API requests per second. Zero disables the limit.
	RateLimit float64

	// RateBurst is the number of requests allowed at once under RateLimit.
	RateBurst int

	// Headers are extra headers sent with every API request.
	Headers map[string]string

	// CacheName is the offline cache version.
	CacheName string

	// OfflinePage is an optional path to a custom offline HTML page. It must be
	// self-contained.
	OfflinePage string

	// LoadingInterval is the rotation period of loading messages.
	LoadingInterval time.Duration

	// PushCooldown is how long a dismissed push prompt stays hidden.
	PushCooldown time.Duration

	// PushPromptDelay is the wait before the push prompt is shown.
	PushPromptDelay time.Duration

	// Verbose enables debug logs.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// ConfigFilePath is the configuration file path. When empty, .adoperator is
	// searched in the current directory, then in the home directory.
	ConfigFilePath string

	// Profile selects a named profile from the configuration file.
	Profile string

	// DBDir is the directory of the state database. Defaults to the XDG data dir.
	DBDir string

	// JSONReport and MarkdownReport select the export format. Plain text when both are false.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the export destination. Stdout when empty.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		APIURL:          DefaultAPIURL,
		AppURL:          DefaultAppURL,
		ListenAddress:   DefaultListenAddress,
		Language:        DefaultLanguage,
		Timeout:         DefaultTimeout,
		MediaTimeout:    DefaultMediaTimeout,
		RateBurst:       DefaultRateBurst,
		CacheName:       DefaultCacheName,
		LoadingInterval: DefaultLoadingInterval,
		PushCooldown:    DefaultPushCooldown,
		PushPromptDelay: DefaultPushPromptDelay,
	}
}

// XDGDataDir returns the XDG data directory for adoperator.
// On Linux: ~/.local/share/adoperator
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for adoperator.
// On Linux: ~/.config/adoperator
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for adoperator.
// On Linux: ~/.cache/adoperator
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DatabaseDir returns DBDir, or the XDG data directory when unset.
func (c *Config) DatabaseDir() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return XDGDataDir()
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !validHTTPURL(c.APIURL) {
		return ErrInvalidAPIURL
	}
	if !validHTTPURL(c.AppURL) {
		return ErrInvalidAppURL
	}
	if !slices.Contains(SupportedLanguages, c.Language) {
		return ErrUnsupportedLanguage
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MediaTimeout <= 0 {
		return ErrInvalidMediaTimeout
	}
	if c.RateLimit < 0 || (c.RateLimit > 0 && c.RateBurst <= 0) {
		return ErrInvalidRateLimit
	}
	if c.CacheName == "" {
		return ErrEmptyCacheName
	}
	if c.LoadingInterval <= 0 {
		return ErrInvalidLoadingInterval
	}
	if c.PushCooldown < 0 || c.PushPromptDelay < 0 {
		return ErrInvalidPushTiming
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
