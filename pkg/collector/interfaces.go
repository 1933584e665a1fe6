package collector

import "context"

// Provider answers one (entity, period) query at a time. A fetch returns
// exactly one of: a normalized record, an error classified no-data (the
// provider explicitly has nothing for this combination), or a transient
// error eligible for retry. Classification uses the pkg/errors taxonomy.
// The returned record must carry the entity ID and period it was asked
// for; a provider that rewrites the ID breaks resume skipping, because
// the engine keys the store on the IDs its sources emit.
type Provider interface {
	Fetch(ctx context.Context, entity Entity, period int) (*Record, error)
}

// Source supplies the entity list for a run. Enumeration happens once per
// run and is not memoized across runs.
type Source interface {
	Entities(ctx context.Context) ([]Entity, error)
}

// Store is the durable checkpoint. Load returns the full persisted record
// set (empty when no store exists yet); Save rewrites it atomically. The
// engine never appends in place: it saves the complete accumulated set
// after each success.
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
}
