// Package handler exposes the latest race state over HTTP as JSON: the
// current fastest endpoint and the full ranked outcome set.
package handler
