package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/config"
	errs "ntxcensus/pkg/errors"
	"ntxcensus/pkg/logger"
)

// Suppression sentinels the API emits instead of a measurement. Both are
// normalized to zero; they are placeholders, not values.
const (
	sentinelSuppressed  = "-666666666"
	sentinelUnavailable = "-999999999"
)

// Client queries the Census ACS 5-year estimates API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     logger.Logger
}

// NewClient creates a Census API client from configuration.
func NewClient(cfg *config.CensusConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		logger:     log,
	}
}

// HasAPIKey reports whether the client carries an access credential.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Fetch retrieves the demographic attribute set for one place and vintage
// year. It implements collector.Provider: the explicit no-data response is
// returned as a no-data classified error, transient failures as retryable
// classified errors.
func (c *Client) Fetch(ctx context.Context, entity collector.Entity, period int) (*collector.Record, error) {
	rows, err := c.getRows(ctx, acsURL(c.baseURL, period), demographicsQuery(entity.ID, c.apiKey))
	if err != nil {
		return nil, err
	}

	// First row is the header; a header-only payload means the place has
	// no data for that vintage.
	if len(rows) < 2 {
		return nil, errs.Newf(errs.ErrorTypeNoData, http.StatusOK,
			"no data for place %s in %d", entity.ID, period)
	}

	row := rows[1]
	// NAME + variables; trailing state/place columns may follow
	if len(row) < 1+len(Variables) {
		return nil, errs.Newf(errs.ErrorTypeParsing, http.StatusOK,
			"short data row for place %s in %d: %d columns", entity.ID, period, len(row))
	}

	fields := make(map[string]string, len(Variables)+1)
	fields["name"] = row[0]
	for i, v := range Variables {
		fields[v.Name] = normalizeValue(row[i+1])
	}

	// The record carries the caller's ID verbatim. Rewriting it here would
	// desync the stored key from the key the engine skips on, so any
	// canonicalization is the entity source's job.
	return &collector.Record{
		EntityID: entity.ID,
		Period:   period,
		Fields:   fields,
	}, nil
}

// Place is one entry from the wildcard place enumeration.
type Place struct {
	Name       string
	FIPS       string
	Population int
}

// ListPlaces enumerates every place in Texas for the given vintage year,
// dropping entries below minPopulation. This is a one-time discovery
// lookup, not part of the resumable work-set.
func (c *Client) ListPlaces(ctx context.Context, year, minPopulation int) ([]Place, error) {
	rows, err := c.getRows(ctx, acsURL(c.baseURL, year), placesQuery(c.apiKey))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errs.Newf(errs.ErrorTypeNoData, http.StatusOK, "no places listed for %d", year)
	}

	places := make([]Place, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// NAME, B01003_001E, state, place
		if len(row) < 4 {
			continue
		}
		population := parsePopulation(row[1])
		if population < minPopulation {
			continue
		}
		places = append(places, Place{
			Name:       row[0],
			FIPS:       PadFIPS(row[3]),
			Population: population,
		})
	}

	c.logger.InfoWithFields("enumerated places", map[string]interface{}{
		"year":           year,
		"min_population": minPopulation,
		"places":         len(places),
	})
	return places, nil
}

// getRows issues one GET and classifies the outcome.
func (c *Client) getRows(ctx context.Context, endpoint string, params url.Values) ([][]string, error) {
	reqURL := endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, 0, "building request: %v", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Newf(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}
	defer resp.Body.Close()

	logger.LogRequest(http.MethodGet, redactKey(reqURL), resp.StatusCode, float64(duration.Milliseconds()))

	if err := classifyStatus(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	var rows [][]string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, resp.StatusCode, "decoding response: %v", err)
	}
	return rows, nil
}

// classifyStatus maps an HTTP status to the error taxonomy; nil for 200.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNoContent:
		// The API's explicit "no data for this combination" signal
		return errs.New(errs.ErrorTypeNoData, status, "no content for query")
	case status == http.StatusTooManyRequests:
		return errs.New(errs.ErrorTypeRateLimit, status, "rate limit exceeded")
	case status >= 500:
		return errs.Newf(errs.ErrorTypeServerError, status, "server returned status %d", status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errs.Newf(errs.ErrorTypeAuth, status, "request rejected with status %d", status)
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		// No dataset for the requested vintage; permanent
		return errs.Newf(errs.ErrorTypeNotFound, status, "no dataset for query, status %d", status)
	default:
		return errs.Newf(errs.ErrorTypeUnknown, status, "unexpected status %d", status)
	}
}

// normalizeValue maps suppression sentinels and empty cells to zero.
func normalizeValue(raw string) string {
	switch raw {
	case "", sentinelSuppressed, sentinelUnavailable:
		return "0"
	default:
		return raw
	}
}

func parsePopulation(raw string) int {
	var population int
	if _, err := fmt.Sscanf(normalizeValue(raw), "%d", &population); err != nil {
		return 0
	}
	return population
}

// redactKey strips the API key from a URL before it reaches the logs.
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
