package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/logger"
)

// Key column names. Every row carries the work-set key.
const (
	columnEntityID = "place_fips"
	columnPeriod   = "year"
)

// CSVStore implements collector.Store over one CSV file.
type CSVStore struct {
	path string
	// attributes fixes the leading attribute column order; fields not
	// listed here are appended in sorted order
	attributes []string
	logger     logger.Logger
}

// NewCSVStore creates a store at path. attributes sets the preferred
// attribute column order (typically census.FieldNames()).
func NewCSVStore(path string, attributes []string, log logger.Logger) *CSVStore {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CSVStore{path: path, attributes: attributes, logger: log}
}

// Path returns the store file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the full persisted record set. A missing file is an empty
// store; malformed content is an error, never silently repaired.
func (s *CSVStore) Load() ([]collector.Record, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed store %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	entityIdx, periodIdx := -1, -1
	for i, col := range header {
		switch col {
		case columnEntityID:
			entityIdx = i
		case columnPeriod:
			periodIdx = i
		}
	}
	if entityIdx < 0 || periodIdx < 0 {
		return nil, fmt.Errorf("malformed store %s: missing %s/%s columns", s.path, columnEntityID, columnPeriod)
	}

	records := make([]collector.Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		period, err := strconv.Atoi(row[periodIdx])
		if err != nil {
			return nil, fmt.Errorf("malformed store %s: row %d has non-numeric %s %q", s.path, n+2, columnPeriod, row[periodIdx])
		}

		fields := make(map[string]string, len(header)-2)
		for i, col := range header {
			if i == entityIdx || i == periodIdx {
				continue
			}
			fields[col] = row[i]
		}

		records = append(records, collector.Record{
			EntityID: row[entityIdx],
			Period:   period,
			Fields:   fields,
		})
	}

	s.logger.DebugWithFields("store loaded", map[string]interface{}{
		"path":    s.path,
		"records": len(records),
	})
	return records, nil
}

// Save rewrites the full record set atomically.
func (s *CSVStore) Save(records []collector.Record) error {
	header := s.header(records)

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp store: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing store header: %w", err)
	}

	for _, record := range records {
		row := make([]string, len(header))
		row[0] = record.EntityID
		row[1] = strconv.Itoa(record.Period)
		for i, col := range header[2:] {
			row[i+2] = record.Fields[col]
		}
		if err := writer.Write(row); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("writing store row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("flushing store: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("syncing store: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing store: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing store: %w", err)
	}

	return nil
}

// header builds the column list: key columns, configured attributes, then
// any extra fields present in the records, sorted for determinism.
func (s *CSVStore) header(records []collector.Record) []string {
	header := []string{columnEntityID, columnPeriod}
	known := map[string]bool{columnEntityID: true, columnPeriod: true}

	for _, attr := range s.attributes {
		if !known[attr] {
			header = append(header, attr)
			known[attr] = true
		}
	}

	var extras []string
	for _, record := range records {
		for field := range record.Fields {
			if !known[field] {
				extras = append(extras, field)
				known[field] = true
			}
		}
	}
	sort.Strings(extras)
	return append(header, extras...)
}

// EnsureDir creates the store's parent directory if needed.
func (s *CSVStore) EnsureDir() error {
	dir := filepath.Dir(s.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
