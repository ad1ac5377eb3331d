// Package engine runs scenarios and records them as runs. It resolves the
// scenario via the registry, enforces the run deadline via a context, persists
// each progress line, streams it to live subscribers and writes the outcome
// back to the store.
package engine
