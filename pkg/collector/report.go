package collector

import "time"

// Failure records one work item that exhausted its retries this run.
type Failure struct {
	EntityID string
	Period   int
	Reason   string
}

// Report is the ephemeral per-run summary. It is finalized at run end (or
// at interruption, best effort) and never persisted.
type Report struct {
	// Total is the size of the work-set, |entities| x |periods|
	Total int
	// Skipped counts items already present in the store at run start
	Skipped int
	// Succeeded counts newly fetched and persisted items
	Succeeded int
	// Failed counts items that exhausted retries this run
	Failed int
	// NoData counts items the provider explicitly had nothing for. They
	// are not persisted, so future runs will re-attempt them.
	NoData int

	Failures []Failure

	StartedAt  time.Time
	FinishedAt time.Time
	// Interrupted is set when the run ended on cancellation rather than
	// work-set exhaustion
	Interrupted bool
}

// Completeness is the fraction of the work-set satisfied by the store at
// run end.
func (r *Report) Completeness() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Skipped+r.Succeeded) / float64(r.Total)
}

// Attempted counts items actually sent to the provider this run.
func (r *Report) Attempted() int {
	return r.Succeeded + r.Failed + r.NoData
}
