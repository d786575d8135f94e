// Package race coordinates concurrent latency probes across a set of
// candidate endpoints. It launches every probe at once, surfaces the first
// successful outcome the moment it arrives, and ranks the full outcome set
// after every probe has settled. Probes are never cancelled once a winner is
// known; each runs to its own completion or timeout.
package race
