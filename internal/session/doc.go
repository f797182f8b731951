// Package session holds the per-user state adoperator keeps between runs: the
// bearer token, the signed-in user and the push prompt state.
//
// A Session is built once at start-up over a Store and passed to the
// components that need it. Nothing reads this state through globals.
package session
