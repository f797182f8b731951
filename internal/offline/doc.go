// Package offline implements the local worker that fronts the web app origin.
//
// The worker precaches the application shell, serves cached pages when the
// origin is unreachable and never caches API traffic. Cache storage is
// pluggable through the Cache interface; MemoryCache keeps entries in process
// and the database package persists them in SQLite.
package offline
