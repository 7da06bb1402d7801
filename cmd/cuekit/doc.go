// Package main hosts the cuekit CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into calls on the
// internal packages: split point listing, image splitting and tagging,
// album reports, cuesheet generation from tags, UTF-8 copies, dependency
// checks, conversion history, and the directory watcher. It centralizes
// configuration resolution and logger construction so subcommands can
// focus on output instead of wiring.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through a dedicated command or flag here.
package main
