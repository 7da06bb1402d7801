// Package tagging writes cuesheet metadata into split tracks.
//
// Writer drives ffmpeg with stream copy so audio is never re-encoded: the old
// tags are dropped and the new ones written to a temporary sibling file that
// then replaces the track. BuildTags decides which fields a format gets and
// Rename gives tracks "NN - artist - title" names.
package tagging
