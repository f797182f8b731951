// Package wizard drives an analysis through its five stages.
//
// A Flow holds the client side of one analysis: the current step, the merged
// stage payloads and the loading sub-state. Every transition is one backend
// call; a failed call leaves the step where it was and reports a message
// through the Notifier. While a call is in flight a Rotator cycles the
// stage's loading messages.
package wizard
