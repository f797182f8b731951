// Package database provides SQLite-based local state for adoperator.
//
// StateDB is a single file in the XDG data directory holding:
//   - session values (token, user, push prompt state)
//   - cached responses of the offline worker
//   - snapshots of analyses fetched from the backend, for offline review
//
// modernc.org/sqlite is a CGO-free driver, so the binary cross-compiles
// without a C toolchain.
package database
