// Package store persists landscape snapshots as JSON files.
//
// Snapshots are the input to a restructure session and the state the relay
// serves to joining participants. Files are written through a temp file and
// renamed into place, so readers never observe a partial write.
package store
