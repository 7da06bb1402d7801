// Package shntool drives the shntool programs: shnsplit cuts an image into
// tracks at points fed on stdin and pipes each track through an encoder,
// shnlen measures an image and tells whether it is CD quality, and shnhash
// fingerprints the decoded audio.
package shntool
