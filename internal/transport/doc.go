// Package transport performs the actual HTTP transfers for endpoint probes.
// It defines the Sender contract the probe runner depends on and classifies
// every failure into a timeout, HTTP status, connection, or other kind.
package transport
