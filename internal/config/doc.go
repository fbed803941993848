// Package config loads lectern's TOML configuration.
//
// The file lives at ~/.config/lectern/config.toml unless a path is given.
// A missing file is not an error: Load returns Default(). Fields left empty
// fall back to their defaults, with one exception. Setting status_path or
// files_path to an empty string disables that poller.
//
// Example:
//
//	server = "10.0.0.1:80"
//	content_path = "/"
//	status_path = "/ondd/status/"
//	files_path = "/ondd/files/"
//	status_interval = "3s"
//	files_interval = "30s"
//	scroll_debounce = "50ms"
//	threshold = "viewport"   # or "fraction"
//	threshold_value = 2.0
//	log_file = "~/.local/state/lectern/lectern.log"
//	log_level = "info"
//
// Durations use time.ParseDuration syntax and must be positive. Paths
// starting with ~ are expanded against the user's home directory.
package config
