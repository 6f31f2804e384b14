package telemetry

import (
	"testing"
	"time"
)

func TestParsePayload_JSONObject(t *testing.T) {
	t.Parallel()

	sample, err := parsePayload([]byte(`{"temperature": 23.5, "timestamp": 1756641600000}`))
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if sample.Value != 23.5 {
		t.Fatalf("value = %v, want 23.5", sample.Value)
	}
	if want := time.UnixMilli(1756641600000).UTC(); !sample.ObservedAt.Equal(want) {
		t.Fatalf("observedAt = %v, want %v", sample.ObservedAt, want)
	}
}

func TestParsePayload_ValueKeyAndDefaultTimestamp(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	sample, err := parsePayload([]byte(`{"value": 19}`))
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if sample.Value != 19 {
		t.Fatalf("value = %v, want 19", sample.Value)
	}
	if sample.ObservedAt.Before(before) {
		t.Fatalf("missing timestamp should default to receive time, got %v", sample.ObservedAt)
	}
}

func TestParsePayload_BareNumber(t *testing.T) {
	t.Parallel()

	sample, err := parsePayload([]byte(" 21.75 \n"))
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if sample.Value != 21.75 {
		t.Fatalf("value = %v, want 21.75", sample.Value)
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"not a number", "warm"},
		{"broken json", `{"temperature":`},
		{"object without value", `{"humidity": 40}`},
		{"nan", `{"temperature": null}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parsePayload([]byte(tc.body)); err == nil {
				t.Fatalf("expected error for %q", tc.body)
			}
		})
	}
}
