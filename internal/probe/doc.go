// Package probe runs a single timed latency and correctness check against
// one endpoint. A probe issues one GET, measures the elapsed time, validates
// the body against the expected payload, and folds every failure into a
// categorized reason on the returned outcome.
package probe
