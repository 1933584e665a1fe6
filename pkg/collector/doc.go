// Package collector implements the resumable fetch engine.
//
// The engine drives a full (entity x period) work-set to completion across
// possibly many runs. The durable store is the single source of truth for
// progress: its key set is rebuilt at the start of every run, keys already
// present are never re-fetched, and the full record set is rewritten after
// every new success so an interruption at any point loses at most the
// in-flight item.
//
// Execution is strictly sequential: one outstanding request at a time, with
// rate-limit pacing before every attempt and bounded exponential-backoff
// retry on transient failures. The provider's explicit no-data signal is
// permanent for the run — it is neither retried nor persisted, so a future
// run will ask again.
package collector
