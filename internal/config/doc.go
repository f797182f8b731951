// Package config holds the adoperator configuration: the backend and web app
// URLs, request timeouts, the offline cache version, wizard timings and the
// push prompt cool-down.
//
// Values come from NewConfig defaults, then the optional .adoperator YAML file
// (defaults block and an optional named profile), then CLI flags. Validate is
// called once before any command runs.
package config
