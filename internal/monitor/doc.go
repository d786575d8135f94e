// Package monitor drives endpoint races on a fixed interval, keeping the
// selector current with the latest ranking and feeding probe outcomes to the
// metrics collector.
package monitor
