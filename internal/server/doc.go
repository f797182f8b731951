// Package server exposes the offline worker and the push endpoints over HTTP
// for `adoperator serve`.
//
// Requests under /__worker are handled by the server itself. Every other
// request goes through the offline worker, which fronts the web app origin.
package server
