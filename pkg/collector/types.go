package collector

import "fmt"

// Entity is one fetchable subject, e.g. a Census place. Entities are
// supplied externally and immutable during a run.
type Entity struct {
	// ID is the stable identifier, e.g. a zero-padded place FIPS code
	ID string
	// Name is the display name
	Name string
	// GroupTag is an optional classification, e.g. the county
	GroupTag string
}

// Record is one successfully fetched result for an (entity, period) pair.
type Record struct {
	EntityID string
	Period   int
	// Fields holds the provider-returned attributes, normalized. Column
	// ordering for persistence is the store's concern.
	Fields map[string]string
}

// Key identifies one unit of fetch work within a work-set.
type Key struct {
	EntityID string
	Period   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%d", k.EntityID, k.Period)
}

// KeyOf returns the work-set key for a record.
func KeyOf(r Record) Key {
	return Key{EntityID: r.EntityID, Period: r.Period}
}
