// Package metrics collects per-endpoint statistics across successive races:
// success and failure counts, fastest-endpoint wins, and latency percentiles.
// Events flow through a buffered channel into a single collector goroutine
// and are exposed as a JSON snapshot over HTTP.
package metrics
