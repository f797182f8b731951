// Package api is the HTTP client for the AdOperator backend.
//
// Every call carries the session bearer token, the interface language and a
// fresh request id. Non-2xx responses become *APIError values that match
// ErrUnauthorized and ErrNotFound through errors.Is, and expose the
// backend's "detail" message for display.
package api
