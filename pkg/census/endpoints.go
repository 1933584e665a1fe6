package census

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the Census data API root
	BaseURL = "https://api.census.gov/data"

	// StateTexas is the state FIPS code all queries are scoped to
	StateTexas = "48"

	// datasetACS5 is the ACS 5-year estimates dataset path
	datasetACS5 = "acs/acs5"
)

// Variable pairs an ACS variable code with the stable field name it is
// persisted under.
type Variable struct {
	Code string
	Name string
}

// Variables is the fixed attribute set requested for every place/year, in
// request order. The first response column is always NAME.
var Variables = []Variable{
	{"B01003_001E", "total_population"},
	{"B02001_002E", "white_alone"},
	{"B02001_003E", "black_alone"},
	{"B02001_005E", "asian_alone"},
	{"B02001_008E", "two_or_more_races"},
	{"B03003_003E", "hispanic_latino"},
	{"B02001_006E", "american_indian"},
	{"B04006_047E", "german"},
	{"B04006_018E", "irish"},
	{"B04006_010E", "english"},
	{"B04006_065E", "mexican"},
	{"B04006_077E", "chinese"},
	{"B04006_024E", "french"},
	{"B04006_039E", "italian"},
	{"B04006_079E", "korean"},
}

// FieldNames returns the persisted attribute names in request order.
func FieldNames() []string {
	names := make([]string, 0, len(Variables)+1)
	names = append(names, "name")
	for _, v := range Variables {
		names = append(names, v.Name)
	}
	return names
}

// PadFIPS zero-pads a place FIPS code to the canonical 5 digits. Entity
// sources canonicalize IDs to this form before the engine sees them, so
// store keys never drift on formatting.
func PadFIPS(fips string) string {
	fips = strings.TrimSpace(fips)
	for len(fips) < 5 {
		fips = "0" + fips
	}
	return fips
}

// acsURL builds the dataset URL for one vintage year.
func acsURL(baseURL string, year int) string {
	return fmt.Sprintf("%s/%d/%s", strings.TrimRight(baseURL, "/"), year, datasetACS5)
}

// demographicsQuery builds the query for one place/year attribute fetch.
func demographicsQuery(placeFIPS, apiKey string) url.Values {
	codes := make([]string, 0, len(Variables)+1)
	codes = append(codes, "NAME")
	for _, v := range Variables {
		codes = append(codes, v.Code)
	}

	params := url.Values{}
	params.Set("get", strings.Join(codes, ","))
	params.Set("for", "place:"+PadFIPS(placeFIPS))
	params.Set("in", "state:"+StateTexas)
	if apiKey != "" {
		params.Set("key", apiKey)
	}
	return params
}

// placesQuery builds the wildcard query enumerating every place in Texas.
func placesQuery(apiKey string) url.Values {
	params := url.Values{}
	params.Set("get", "NAME,B01003_001E")
	params.Set("for", "place:*")
	params.Set("in", "state:"+StateTexas)
	if apiKey != "" {
		params.Set("key", apiKey)
	}
	return params
}
