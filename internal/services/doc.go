// Package services defines shared utilities consumed by the conversion stages.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and source paths for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into history statuses (failed vs rejected).
package services
