// Package converter splits a cuesheet image into tagged tracks.
//
// A conversion pairs the cuesheet with its image, checks that the decoder,
// encoder and shntool are installed, parses the cuesheet, validates the
// image against it, runs shnsplit, drops pre-gap segments under the split
// policy, and tags each track with ffmpeg. Every run that gets past parsing
// is recorded in the history store.
package converter
