// Package config loads, normalizes, and validates cuekit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// CUEKIT_STATE_DIR, optionally sourced from a .env file. The Config type
// centralizes encoder options, split defaults, and helper program names so
// the CLI and the watcher read them in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
