package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"ntxcensus/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"ERROR", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"bogus", zerolog.InfoLevel, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			level, err := parseLogLevel(test.input)
			if test.wantErr {
				if err == nil {
					t.Errorf("Expected error for level %q", test.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if level != test.expected {
				t.Errorf("Expected level %v, got %v", test.expected, level)
			}
		})
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "loud"})
	if err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	l, err := New(&config.LoggingConfig{Level: "disabled"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	base := l.(*zerologLogger)
	child := l.WithField("place_fips", "19000").(*zerologLogger)

	if len(base.fields) != 0 {
		t.Errorf("Parent logger gained fields: %v", base.fields)
	}
	if child.fields["place_fips"] != "19000" {
		t.Errorf("Child logger missing field, got %v", child.fields)
	}
}

func TestWithErrorNil(t *testing.T) {
	l := NewTestLogger()
	if l.WithError(nil) != l {
		t.Error("Expected WithError(nil) to return the same logger")
	}
}
