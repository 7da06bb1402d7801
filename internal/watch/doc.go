// Package watch converts albums dropped into a directory.
//
// The watcher reacts to fsnotify create and write events for cuesheets and
// images, waits until the album has been quiet for the settle period, and
// hands the pair to the converter. A file lock in the state directory keeps
// a second watcher from running, and cuesheets with a completed history run
// are skipped.
package watch
