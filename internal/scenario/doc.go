// Package scenario defines the timed demo runners (blocking sleep, context-aware
// delay, fan-out/join, mixed, API fetch and persistence) behind a common
// interface, along with the registry the engine resolves them from.
//
// A blocking runner parks the calling goroutine for its full duration and does
// not observe cancellation. A non-blocking runner waits in a select on a timer
// and the context, so it can be abandoned early and costs nothing while parked.
package scenario
