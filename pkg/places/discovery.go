package places

import (
	"context"
	"fmt"

	"ntxcensus/pkg/census"
	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/logger"
)

// DiscoverySource enumerates entities live from the Census API instead of
// static reference data. Enumeration happens once per run.
type DiscoverySource struct {
	client        *census.Client
	referenceYear int
	minPopulation int

	// radiusMiles restricts discovery to places around the Dallas
	// reference point; zero disables the filter. Places without a known
	// coordinate are kept when filtering, matching the reference data's
	// incompleteness rather than silently dropping cities.
	radiusMiles float64
	coords      *Coordinates

	logger logger.Logger
}

// NewDiscoverySource creates a source that lists Texas places for the
// given reference year with a minimum-population floor.
func NewDiscoverySource(client *census.Client, referenceYear, minPopulation int, log logger.Logger) *DiscoverySource {
	if log == nil {
		log = logger.GetLogger()
	}
	return &DiscoverySource{
		client:        client,
		referenceYear: referenceYear,
		minPopulation: minPopulation,
		logger:        log,
	}
}

// WithRadius restricts discovery to radiusMiles around Dallas, using the
// given coordinate lookup.
func (s *DiscoverySource) WithRadius(radiusMiles float64, coords *Coordinates) *DiscoverySource {
	s.radiusMiles = radiusMiles
	s.coords = coords
	return s
}

// Entities implements collector.Source.
func (s *DiscoverySource) Entities(ctx context.Context) ([]collector.Entity, error) {
	listed, err := s.client.ListPlaces(ctx, s.referenceYear, s.minPopulation)
	if err != nil {
		return nil, fmt.Errorf("discovering places: %w", err)
	}

	entities := make([]collector.Entity, 0, len(listed))
	dropped := 0
	for _, place := range listed {
		if s.radiusMiles > 0 && s.coords != nil {
			if coord, ok := s.coords.Lookup(place.FIPS); ok {
				if DistanceFromDallas(coord) > s.radiusMiles {
					dropped++
					continue
				}
			}
		}
		entities = append(entities, collector.Entity{
			ID:   place.FIPS,
			Name: place.Name,
		})
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("discovery found no places for %d with population >= %d", s.referenceYear, s.minPopulation)
	}

	s.logger.InfoWithFields("discovered places", map[string]interface{}{
		"reference_year":  s.referenceYear,
		"min_population":  s.minPopulation,
		"places":          len(entities),
		"outside_radius":  dropped,
	})
	return entities, nil
}
