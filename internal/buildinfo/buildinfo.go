// Package buildinfo carries version information stamped at link time.
package buildinfo

// Version is overridden with -ldflags "-X cuekit/internal/buildinfo.Version=...".
var Version = "dev"
