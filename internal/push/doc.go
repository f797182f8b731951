// Package push handles push notifications: decoding delivered payloads,
// routing notification clicks to open pages and the opt-in prompt that
// subscribes the user with the backend.
package push
