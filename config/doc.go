// Package config handles loading and parsing of configuration from YAML
// files and environment variables. It defines the application configuration
// structure including the server address, race settings (interval, timeout,
// probed path, headers, expected body), candidate endpoints, and logging.
package config
