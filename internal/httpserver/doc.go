// Package httpserver provides a validated HTTP server wrapper with graceful
// shutdown for the race status endpoints.
package httpserver
