package places

import (
	"context"
	"fmt"
	"strings"

	"ntxcensus/pkg/collector"
)

// EnrichingProvider decorates a Provider, attaching place metadata to
// every fetched record: the cleaned city name, the county and its FIPS
// code, and coordinates with distance from Dallas when known. Records for
// places without a known coordinate default to the Dallas reference point
// with a zero distance, matching the shape of the delivered dataset.
type EnrichingProvider struct {
	inner  collector.Provider
	coords *Coordinates
	config *CountyConfig
}

// NewEnrichingProvider wraps inner with metadata enrichment. coords and
// config may be nil to skip the respective fields.
func NewEnrichingProvider(inner collector.Provider, coords *Coordinates, config *CountyConfig) *EnrichingProvider {
	return &EnrichingProvider{inner: inner, coords: coords, config: config}
}

// Fetch implements collector.Provider.
func (p *EnrichingProvider) Fetch(ctx context.Context, entity collector.Entity, period int) (*collector.Record, error) {
	record, err := p.inner.Fetch(ctx, entity, period)
	if err != nil {
		return nil, err
	}

	record.Fields["city"] = CleanCityName(entity.Name)

	if entity.GroupTag != "" {
		record.Fields["county"] = entity.GroupTag
		if p.config != nil {
			record.Fields["county_fips"] = p.config.FIPSFor(entity.GroupTag)
		}
	}

	coord := Coordinate{Latitude: DallasLatitude, Longitude: DallasLongitude}
	distance := 0.0
	if p.coords != nil {
		if known, ok := p.coords.Lookup(entity.ID); ok {
			coord = known
			distance = DistanceFromDallas(known)
		}
	}
	record.Fields["latitude"] = fmt.Sprintf("%.4f", coord.Latitude)
	record.Fields["longitude"] = fmt.Sprintf("%.4f", coord.Longitude)
	record.Fields["distance_from_dallas"] = fmt.Sprintf("%.1f", distance)

	return record, nil
}

// CleanCityName strips the gazetteer/ACS suffixes from a place name:
// "Celina city, Texas" becomes "Celina".
func CleanCityName(name string) string {
	name = strings.TrimSuffix(name, ", Texas")
	for _, suffix := range []string{" city", " town", " village", " CDP"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
