// Package history records split runs in a SQLite database under the state
// directory.
//
// Each run gets a UUID, the cue/media pair it worked on, the output format
// and policy, and a terminal status once the pipeline returns. The watcher
// consults LatestForCue to avoid reprocessing albums, and `cuekit history`
// lists, inspects, and clears entries. Schema changes bump schemaVersion in
// schema.go; older databases are refused instead of migrated.
package history
