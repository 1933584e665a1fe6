package census

import (
	"strings"
	"testing"
)

func TestPadFIPS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"19000", "19000"},
		{"100", "00100"},
		{"1", "00001"},
		{" 4816 ", "04816"},
		{"", "00000"},
	}

	for _, test := range tests {
		if got := PadFIPS(test.input); got != test.expected {
			t.Errorf("PadFIPS(%q): expected %q, got %q", test.input, test.expected, got)
		}
	}
}

func TestACSURL(t *testing.T) {
	got := acsURL("https://api.census.gov/data", 2015)
	expected := "https://api.census.gov/data/2015/acs/acs5"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	// Trailing slash tolerated
	if got := acsURL("https://api.census.gov/data/", 2015); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestDemographicsQuery(t *testing.T) {
	params := demographicsQuery("100", "secret")

	if params.Get("for") != "place:00100" {
		t.Errorf("Expected padded place clause, got %q", params.Get("for"))
	}
	if params.Get("in") != "state:48" {
		t.Errorf("Expected Texas state clause, got %q", params.Get("in"))
	}
	if params.Get("key") != "secret" {
		t.Errorf("Expected API key to be set")
	}

	get := params.Get("get")
	if !strings.HasPrefix(get, "NAME,") {
		t.Errorf("Expected NAME as the first requested column, got %q", get)
	}
	for _, v := range Variables {
		if !strings.Contains(get, v.Code) {
			t.Errorf("Expected variable %s in get clause", v.Code)
		}
	}
}

func TestDemographicsQueryNoKey(t *testing.T) {
	params := demographicsQuery("19000", "")
	if params.Has("key") {
		t.Error("Expected no key parameter without an API key")
	}
}

func TestPlacesQuery(t *testing.T) {
	params := placesQuery("")
	if params.Get("for") != "place:*" {
		t.Errorf("Expected wildcard place clause, got %q", params.Get("for"))
	}
	if params.Get("get") != "NAME,B01003_001E" {
		t.Errorf("Expected name and population columns, got %q", params.Get("get"))
	}
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	if names[0] != "name" {
		t.Errorf("Expected name first, got %q", names[0])
	}
	if len(names) != len(Variables)+1 {
		t.Errorf("Expected %d field names, got %d", len(Variables)+1, len(names))
	}

	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("Duplicate field name %q", n)
		}
		seen[n] = true
	}
}
