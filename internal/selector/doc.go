// Package selector keeps the result of the most recent endpoint race under a
// read-write lock, exposing the current fastest endpoint and the full ranked
// outcome set to concurrent readers.
package selector
