package census

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/config"
	errs "ntxcensus/pkg/errors"
	"ntxcensus/pkg/logger"
	"ntxcensus/pkg/store"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.CensusConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		APIKey:  "test-key",
	}, logger.NewTestLogger())
}

// demographicsRow builds a full-width data row with every variable set to
// value, NAME first and state/place columns last.
func demographicsRow(name, value string) []string {
	row := []string{name}
	for range Variables {
		row = append(row, value)
	}
	return append(row, StateTexas, "19000")
}

func writeRows(w http.ResponseWriter, rows [][]string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func TestFetchSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "place:19000", r.URL.Query().Get("for"))
		assert.Equal(t, "state:48", r.URL.Query().Get("in"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		header := append([]string{"NAME"}, "B01003_001E")
		writeRows(w, [][]string{header, demographicsRow("Dallas city, Texas", "1300000")})
	})

	record, err := client.Fetch(context.Background(), collector.Entity{ID: "19000"}, 2020)
	require.NoError(t, err)

	assert.Equal(t, "19000", record.EntityID)
	assert.Equal(t, 2020, record.Period)
	assert.Equal(t, "Dallas city, Texas", record.Fields["name"])
	assert.Equal(t, "1300000", record.Fields["total_population"])
	assert.Equal(t, "1300000", record.Fields["korean"])
	assert.Len(t, record.Fields, len(Variables)+1)
}

func TestFetchKeepsEntityIDVerbatim(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "place:00100", r.URL.Query().Get("for"))
		writeRows(w, [][]string{{"NAME"}, demographicsRow("Abbott city, Texas", "356")})
	})

	record, err := client.Fetch(context.Background(), collector.Entity{ID: "100"}, 2015)
	require.NoError(t, err)

	// The wire query pads the FIPS code, but the record keeps the caller's
	// ID so the stored key matches the key resume lookups use.
	assert.Equal(t, "100", record.EntityID)
}

// TestResumeWithUnpaddedID drives the real client and CSV store through
// the engine twice with a short FIPS code. The second run must skip the
// key instead of re-fetching and appending a duplicate row.
func TestResumeWithUnpaddedID(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeRows(w, [][]string{{"NAME"}, demographicsRow("Abbott city, Texas", "356")})
	})

	csvStore := store.NewCSVStore(filepath.Join(t.TempDir(), "out.csv"), FieldNames(), logger.NewTestLogger())
	entities := []collector.Entity{{ID: "100", Name: "Abbott city, Texas"}}

	first, err := collector.New(client, csvStore, collector.Options{Logger: logger.NewTestLogger()}).
		Run(context.Background(), entities, []int{2009})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Succeeded)

	second, err := collector.New(client, csvStore, collector.Options{Logger: logger.NewTestLogger()}).
		Run(context.Background(), entities, []int{2009})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 1, calls)

	records, err := csvStore.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "100", records[0].EntityID)
}

func TestFetchNormalizesSentinels(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		row := []string{"Abbott city, Texas"}
		row = append(row, "356", "-666666666", "-999999999", "")
		for i := 4; i < len(Variables); i++ {
			row = append(row, "7")
		}
		writeRows(w, [][]string{{"NAME"}, append(row, StateTexas, "00100")})
	})

	record, err := client.Fetch(context.Background(), collector.Entity{ID: "00100"}, 2011)
	require.NoError(t, err)

	assert.Equal(t, "356", record.Fields["total_population"])
	assert.Equal(t, "0", record.Fields["white_alone"])
	assert.Equal(t, "0", record.Fields["black_alone"])
	assert.Equal(t, "0", record.Fields["asian_alone"])
	assert.Equal(t, "7", record.Fields["korean"])
}

func TestFetchNoContent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.Fetch(context.Background(), collector.Entity{ID: "00100"}, 2009)
	assert.True(t, errs.IsNoData(err), "expected no-data classification, got %v", err)
}

func TestFetchHeaderOnlyIsNoData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, [][]string{{"NAME", "B01003_001E"}})
	})

	_, err := client.Fetch(context.Background(), collector.Entity{ID: "00100"}, 2009)
	assert.True(t, errs.IsNoData(err), "expected no-data classification, got %v", err)
}

func TestFetchErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorType errs.ErrorType
	}{
		{"server error", http.StatusInternalServerError, errs.ErrorTypeServerError},
		{"bad gateway", http.StatusBadGateway, errs.ErrorTypeServerError},
		{"rate limited", http.StatusTooManyRequests, errs.ErrorTypeRateLimit},
		{"missing vintage", http.StatusNotFound, errs.ErrorTypeNotFound},
		{"bad request", http.StatusBadRequest, errs.ErrorTypeNotFound},
		{"forbidden", http.StatusForbidden, errs.ErrorTypeAuth},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
			})

			_, err := client.Fetch(context.Background(), collector.Entity{ID: "00100"}, 2009)
			require.Error(t, err)
			assert.Equal(t, test.errorType, errs.TypeOf(err))
		})
	}
}

func TestFetchMalformedJSON(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[[this is not json"))
	})

	_, err := client.Fetch(context.Background(), collector.Entity{ID: "00100"}, 2009)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
}

func TestFetchShortRow(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, [][]string{{"NAME"}, {"Abbott city, Texas", "356"}})
	})

	_, err := client.Fetch(context.Background(), collector.Entity{ID: "00100"}, 2009)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
}

func TestFetchContextCancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, collector.Entity{ID: "00100"}, 2009)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListPlaces(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "place:*", r.URL.Query().Get("for"))
		writeRows(w, [][]string{
			{"NAME", "B01003_001E", "state", "place"},
			{"Dallas city, Texas", "1300000", "48", "19000"},
			{"Abbott city, Texas", "356", "48", "100"},
			{"Suppressed town, Texas", "-999999999", "48", "99999"},
			{"Short row"},
		})
	})

	places, err := client.ListPlaces(context.Background(), 2022, 1000)
	require.NoError(t, err)

	require.Len(t, places, 1)
	assert.Equal(t, "Dallas city, Texas", places[0].Name)
	assert.Equal(t, "19000", places[0].FIPS)
	assert.Equal(t, 1300000, places[0].Population)
}

func TestListPlacesPadsFIPS(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRows(w, [][]string{
			{"NAME", "B01003_001E", "state", "place"},
			{"Abbott city, Texas", "2000", "48", "100"},
		})
	})

	places, err := client.ListPlaces(context.Background(), 2022, 1000)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "00100", places[0].FIPS)
}

func TestRedactKey(t *testing.T) {
	in := "https://api.census.gov/data/2020/acs/acs5?get=NAME&key=supersecret"
	out := redactKey(in)
	assert.NotContains(t, out, "supersecret")
	assert.Contains(t, out, "key=REDACTED")
}

func TestHasAPIKey(t *testing.T) {
	with := NewClient(&config.CensusConfig{APIKey: "k", Timeout: time.Second}, logger.NewTestLogger())
	without := NewClient(&config.CensusConfig{Timeout: time.Second}, logger.NewTestLogger())
	assert.True(t, with.HasAPIKey())
	assert.False(t, without.HasAPIKey())
}
