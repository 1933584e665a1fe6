// Package store persists collected records as a flat CSV file.
//
// The CSV is both the resumability checkpoint and the deliverable dataset
// downstream analysis consumes. Every save rewrites the whole file through
// a temp file and rename, so readers never observe a partially written
// store and an interrupted run leaves the previous complete state intact.
package store
