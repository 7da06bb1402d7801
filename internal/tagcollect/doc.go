// Package tagcollect builds a cuesheet from the tags of already split tracks.
//
// In single mode album genre, title, and date are taken from the first track
// carrying them; in various mode the album is "Various Artists - Collection"
// and each track keeps its own genre and date as TGENRE/TDATE. Missing values
// are written as "empty" only when the caller allows placeholders.
package tagcollect
