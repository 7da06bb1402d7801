// Package report summarises an album: cuesheet fields, image length and
// quality, and a per-track table of start times and lengths.
package report
