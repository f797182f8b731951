package config

import (
	"errors"
	"maps"
	"time"
)

// ErrUnknownProfile is returned when --profile names a profile absent from the file.
var ErrUnknownProfile = errors.New("unknown profile")

// Settings are the values a configuration file may set. Zero values leave the
// current configuration untouched.
type Settings struct {
	APIURL          string            `yaml:"api_url,omitempty"`
	AppURL          string            `yaml:"app_url,omitempty"`
	Listen          string            `yaml:"listen,omitempty"`
	Language        string            `yaml:"language,omitempty"`
	Timeout         time.Duration     `yaml:"timeout,omitempty"`
	MediaTimeout    time.Duration     `yaml:"media_timeout,omitempty"`
	Proxy           string            `yaml:"proxy,omitempty"`
	RateLimit       float64           `yaml:"rate_limit,omitempty"`
	RateBurst       int               `yaml:"rate_burst,omitempty"`
	CacheName       string            `yaml:"cache_name,omitempty"`
	OfflinePage     string            `yaml:"offline_page,omitempty"`
	LoadingInterval time.Duration     `yaml:"loading_interval,omitempty"`
	PushCooldown    time.Duration     `yaml:"push_cooldown,omitempty"`
	PushPromptDelay time.Duration     `yaml:"push_prompt_delay,omitempty"`
	DBDir           string            `yaml:"db_dir,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .adoperator configuration file.
type File struct {
	// Defaults apply to every invocation.
	Defaults Settings `yaml:"defaults,omitempty"`

	// Profiles are named overrides selected with --profile, e.g. staging.
	Profiles map[string]Settings `yaml:"profiles,omitempty"`
}

// Resolve returns the defaults merged with the named profile.
// An empty name returns the defaults.
func (f *File) Resolve(profile string) (Settings, error) {
	result := f.Defaults
	result.Headers = maps.Clone(f.Defaults.Headers)
	if profile == "" {
		return result, nil
	}
	p, ok := f.Profiles[profile]
	if !ok {
		return Settings{}, ErrUnknownProfile
	}
	return result.merge(p), nil
}

// merge returns s with every non-zero field of o applied.
func (s Settings) merge(o Settings) Settings {
	setString(&s.APIURL, o.APIURL)
	setString(&s.AppURL, o.AppURL)
	setString(&s.Listen, o.Listen)
	setString(&s.Language, o.Language)
	setString(&s.Proxy, o.Proxy)
	setString(&s.CacheName, o.CacheName)
	setString(&s.OfflinePage, o.OfflinePage)
	setString(&s.DBDir, o.DBDir)
	setDuration(&s.Timeout, o.Timeout)
	setDuration(&s.MediaTimeout, o.MediaTimeout)
	setDuration(&s.LoadingInterval, o.LoadingInterval)
	setDuration(&s.PushCooldown, o.PushCooldown)
	setDuration(&s.PushPromptDelay, o.PushPromptDelay)
	if o.RateLimit != 0 {
		s.RateLimit = o.RateLimit
	}
	if o.RateBurst != 0 {
		s.RateBurst = o.RateBurst
	}
	if len(o.Headers) > 0 {
		if s.Headers == nil {
			s.Headers = make(map[string]string, len(o.Headers))
		}
		maps.Copy(s.Headers, o.Headers)
	}
	return s
}

// Apply copies the non-zero settings onto c.
func (s Settings) Apply(c *Config) {
	setString(&c.APIURL, s.APIURL)
	setString(&c.AppURL, s.AppURL)
	setString(&c.ListenAddress, s.Listen)
	setString(&c.Language, s.Language)
	setString(&c.ProxyAddress, s.Proxy)
	setString(&c.CacheName, s.CacheName)
	setString(&c.OfflinePage, s.OfflinePage)
	setString(&c.DBDir, s.DBDir)
	setDuration(&c.Timeout, s.Timeout)
	setDuration(&c.MediaTimeout, s.MediaTimeout)
	setDuration(&c.LoadingInterval, s.LoadingInterval)
	setDuration(&c.PushCooldown, s.PushCooldown)
	setDuration(&c.PushPromptDelay, s.PushPromptDelay)
	if s.RateLimit != 0 {
		c.RateLimit = s.RateLimit
	}
	if s.RateBurst != 0 {
		c.RateBurst = s.RateBurst
	}
	if len(s.Headers) > 0 {
		c.Headers = maps.Clone(s.Headers)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
