package places

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"ntxcensus/pkg/census"
	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/logger"
)

// countySeparator joins county names in the gazetteer COUNTIES column.
const countySeparator = "~~~"

// CountyConfig maps county names to their FIPS codes.
type CountyConfig struct {
	Counties map[string]string `json:"north_texas_counties"`
}

// LoadCountyConfig reads the counties JSON configuration. A missing or
// empty configuration is fatal: the source cannot run without it.
func LoadCountyConfig(path string) (*CountyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading county config: %w", err)
	}

	var cfg CountyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed county config %s: %w", path, err)
	}
	if len(cfg.Counties) == 0 {
		return nil, fmt.Errorf("county config %s lists no counties", path)
	}
	return &cfg, nil
}

// FIPSFor returns the county FIPS code for a county name.
func (c *CountyConfig) FIPSFor(county string) string {
	return c.Counties[county]
}

// Names returns the configured county names, sorted.
func (c *CountyConfig) Names() []string {
	names := make([]string, 0, len(c.Counties))
	for name := range c.Counties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountySource yields the incorporated places inside the configured
// counties, read from the TIGER place gazetteer.
type CountySource struct {
	config        *CountyConfig
	gazetteerPath string
	logger        logger.Logger
}

// NewCountySource creates a source over a county config and gazetteer file.
func NewCountySource(config *CountyConfig, gazetteerPath string, log logger.Logger) *CountySource {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CountySource{config: config, gazetteerPath: gazetteerPath, logger: log}
}

// Entities implements collector.Source. Census Designated Places are
// skipped; places spanning several target counties appear once, tagged
// with the first county in configuration order.
func (s *CountySource) Entities(ctx context.Context) ([]collector.Entity, error) {
	rows, err := readGazetteer(s.gazetteerPath)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entities []collector.Entity

	for _, county := range s.config.Names() {
		countyLabel := county + " County"
		for _, place := range rows {
			if !place.inCounty(countyLabel) {
				continue
			}
			if place.placeType == "CENSUS DESIGNATED PLACE" {
				continue
			}
			if seen[place.fips] {
				continue
			}
			seen[place.fips] = true
			entities = append(entities, collector.Entity{
				ID:       place.fips,
				Name:     place.name,
				GroupTag: county,
			})
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no places found in configured counties (%s)", strings.Join(s.config.Names(), ", "))
	}

	s.logger.InfoWithFields("loaded places from gazetteer", map[string]interface{}{
		"counties": len(s.config.Counties),
		"places":   len(entities),
	})
	return entities, nil
}

// gazetteerRow is one parsed place entry.
type gazetteerRow struct {
	fips      string
	name      string
	placeType string
	counties  []string
}

// inCounty reports whether the place's COUNTIES entry names the county.
// Matching is exact per entry, so "Dallas County" never matches a county
// whose name merely contains it.
func (r gazetteerRow) inCounty(label string) bool {
	for _, county := range r.counties {
		if county == label {
			return true
		}
	}
	return false
}

// readGazetteer parses the pipe-delimited TIGER place file. A missing
// file is configuration-fatal.
func readGazetteer(path string) ([]gazetteerRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '|'
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed gazetteer %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("gazetteer %s is empty", path)
	}

	fipsIdx, nameIdx, typeIdx, countiesIdx := -1, -1, -1, -1
	for i, col := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(col)) {
		case "PLACEFP":
			fipsIdx = i
		case "PLACENAME":
			nameIdx = i
		case "TYPE":
			typeIdx = i
		case "COUNTIES":
			countiesIdx = i
		}
	}
	if fipsIdx < 0 || nameIdx < 0 || typeIdx < 0 || countiesIdx < 0 {
		return nil, fmt.Errorf("gazetteer %s: missing PLACEFP/PLACENAME/TYPE/COUNTIES columns", path)
	}

	parsed := make([]gazetteerRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		parsed = append(parsed, gazetteerRow{
			fips:      census.PadFIPS(row[fipsIdx]),
			name:      row[nameIdx],
			placeType: strings.ToUpper(row[typeIdx]),
			counties:  splitCounties(row[countiesIdx]),
		})
	}
	return parsed, nil
}

// splitCounties breaks the COUNTIES column into individual county names.
func splitCounties(raw string) []string {
	parts := strings.Split(raw, countySeparator)
	counties := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			counties = append(counties, name)
		}
	}
	return counties
}
