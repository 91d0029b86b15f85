package testing

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/ValentinKolb/esclient/rpc/serializer"
)

// recorder is a TB that records reported errors
type recorder struct {
	errors []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) contains(s string) bool {
	for _, e := range r.errors {
		if strings.Contains(e, s) {
			return true
		}
	}
	return false
}

// document is a plain value that round trips
type document struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

// lossy writes its Extra field but never reads it back
type lossy struct {
	Name  string
	Extra string
}

func (l lossy) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"name": l.Name, "extra": l.Extra})
}

func (l *lossy) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	l.Name = m["name"]
	return nil
}

// lines is a line delimited body
type lines []any

func (l lines) Lines() []any { return l }

// TestRoundTrip tests successful round trips with every serializer
func TestRoundTrip(t *testing.T) {
	serializers := map[string]serializer.ISerializer{
		"default":  nil,
		"json":     serializer.NewJSONSerializer(),
		"jsoniter": serializer.NewJSONIterSerializer(),
	}

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			value := document{Name: "a", Count: 2, Tags: []string{"x", "y"}}
			rt := &RoundTrip{
				// key order and whitespace do not matter
				Expect:     `{ "tags": ["x", "y"], "count": 2, "name": "a" }`,
				Serializer: s,
			}

			r := &recorder{}
			got := AssertRoundTrips(r, rt, value)
			if len(r.errors) > 0 {
				t.Fatalf("unexpected errors: %v", r.errors)
			}
			if rt.Phase() != Done {
				t.Errorf("phase = %s, want %s", rt.Phase(), Done)
			}
			if got.Name != value.Name || got.Count != value.Count || len(got.Tags) != 2 {
				t.Errorf("AssertRoundTrips() = %+v, want %+v", got, value)
			}
		})
	}
}

// TestRoundTripExpectations tests the different forms of the expected value
func TestRoundTripExpectations(t *testing.T) {
	value := document{Name: "a", Count: 1}

	tests := []struct {
		name string
		rt   *RoundTrip
	}{
		{"String", &RoundTrip{Expect: `{"name":"a","count":1}`}},
		{"Bytes", &RoundTrip{Expect: []byte(`{"count":1,"name":"a"}`)}},
		{"Value", &RoundTrip{Expect: document{Name: "a", Count: 1}}},
		{"Map", &RoundTrip{Expect: map[string]any{"name": "a", "count": 1}}},
		{"Plain json", &RoundTrip{Expect: map[string]any{"name": "a", "count": 1.0}, NoClientSerializeOfExpected: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			AssertRoundTrips(r, tt.rt, value)
			if len(r.errors) > 0 {
				t.Errorf("unexpected errors: %v", r.errors)
			}
		})
	}
}

// TestRoundTripNulls tests expectations with explicit nulls
func TestRoundTripNulls(t *testing.T) {
	type withPointer struct {
		Value *int `json:"value"`
	}

	r := &recorder{}
	rt := &RoundTrip{Expect: map[string]any{"value": nil}, NoClientSerializeOfExpected: true}
	got := AssertRoundTrips(r, rt, withPointer{})
	if len(r.errors) > 0 || got.Value != nil {
		t.Errorf("unexpected result %+v, errors: %v", got, r.errors)
	}
}

// TestRoundTripFirstPassFailure tests that a first pass mismatch stops the round trip
func TestRoundTripFirstPassFailure(t *testing.T) {
	r := &recorder{}
	rt := &RoundTrip{Expect: `{"name":"b","count":1}`}
	got := AssertRoundTrips(r, rt, document{Name: "a", Count: 1})

	if len(r.errors) != 1 {
		t.Fatalf("expected one error, got %v", r.errors)
	}
	if !r.contains(msgFirstPass) || r.contains(msgSecondPass) {
		t.Errorf("unexpected message: %s", r.errors[0])
	}
	if !r.contains(`-  "name": "b"`) || !r.contains(`+  "name": "a"`) {
		t.Errorf("error should contain a diff: %s", r.errors[0])
	}
	if rt.Phase() != FirstPass {
		t.Errorf("phase = %s, want %s", rt.Phase(), FirstPass)
	}
	if got.Name != "" {
		t.Errorf("expected zero value, got %+v", got)
	}
}

// TestRoundTripSecondPassFailure tests that a lossy deserialization is reported
// with its own message
func TestRoundTripSecondPassFailure(t *testing.T) {
	r := &recorder{}
	rt := &RoundTrip{Expect: `{"name":"a","extra":"dropped"}`}
	AssertRoundTrips(r, rt, lossy{Name: "a", Extra: "dropped"})

	if len(r.errors) != 1 || !r.contains(msgSecondPass) {
		t.Fatalf("expected one second pass error, got %v", r.errors)
	}
	if rt.Phase() != SecondPass {
		t.Errorf("phase = %s, want %s", rt.Phase(), SecondPass)
	}
}

// TestRoundTripNoDeserialization tests that the round trip stops after the first pass
func TestRoundTripNoDeserialization(t *testing.T) {
	r := &recorder{}
	rt := &RoundTrip{Expect: `{"name":"a","extra":"dropped"}`, NoDeserialization: true}
	got := AssertRoundTrips(r, rt, lossy{Name: "a", Extra: "dropped"})

	if len(r.errors) > 0 {
		t.Errorf("unexpected errors: %v", r.errors)
	}
	if rt.Phase() != Done || got.Name != "" {
		t.Errorf("expected Done and zero value, got %s %+v", rt.Phase(), got)
	}
}

// TestRoundTripLines tests array expectations against line delimited output
func TestRoundTripLines(t *testing.T) {
	tests := []struct {
		name     string
		expect   string
		value    lines
		errors   int
		contains []string
	}{
		{
			name:   "Matching lines",
			expect: `[{"index":{"_id":"1"}},{"name":"a","count":1}]`,
			value:  lines{map[string]any{"index": map[string]string{"_id": "1"}}, document{Name: "a", Count: 1}},
		},
		{
			name:     "Second line differs",
			expect:   `[{"index":{"_id":"1"}},{"name":"b","count":1}]`,
			value:    lines{map[string]any{"index": map[string]string{"_id": "1"}}, document{Name: "a", Count: 1}},
			errors:   1,
			contains: []string{"This is while comparing the 2nd item"},
		},
		{
			name:     "Two records one line",
			expect:   `[{"name":"a","count":1},{"name":"b","count":2}]`,
			value:    lines{document{Name: "a", Count: 1}},
			errors:   1,
			contains: []string{"expected 2 items", "has 1 lines"},
		},
		{
			name:     "One record two lines",
			expect:   `[{"name":"a","count":1}]`,
			value:    lines{document{Name: "a", Count: 1}, document{Name: "b", Count: 2}},
			errors:   1,
			contains: []string{"expected 1 items", "has 2 lines"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			rt := &RoundTrip{Expect: tt.expect, NoDeserialization: true}
			AssertRoundTrips(r, rt, tt.value)

			if len(r.errors) != tt.errors {
				t.Fatalf("got %d errors, want %d: %v", len(r.errors), tt.errors, r.errors)
			}
			for _, s := range tt.contains {
				if !r.contains(s) {
					t.Errorf("errors %v should contain %q", r.errors, s)
				}
			}
		})
	}
}

// TestRoundTripInvalidExpectation tests missing and malformed expectations
func TestRoundTripInvalidExpectation(t *testing.T) {
	for name, rt := range map[string]*RoundTrip{
		"Missing":   {},
		"Malformed": {Expect: `{"name":`},
		"Blank":     {Expect: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			r := &recorder{}
			AssertRoundTrips(r, rt, document{})
			if len(r.errors) != 1 || !r.contains("invalid round trip expectation") {
				t.Errorf("unexpected errors %v", r.errors)
			}
			if rt.Phase() != NotStarted {
				t.Errorf("phase = %s, want %s", rt.Phase(), NotStarted)
			}
		})
	}
}

// TestRawStringValue tests that string values are compared as serialized JSON
func TestRawStringValue(t *testing.T) {
	r := &recorder{}
	AssertRoundTrips(r, &RoundTrip{Expect: `{"a":[1,2]}`, NoDeserialization: true}, `{"a": [1, 2]}`)
	if len(r.errors) > 0 {
		t.Errorf("unexpected errors: %v", r.errors)
	}
}

// TestOrdinal tests the ordinal suffixes
func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 101: "101st", 111: "111th"}
	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %s, want %s", n, got, want)
		}
	}
}

// TestDefaultClient tests that the default client is created once
func TestDefaultClient(t *testing.T) {
	if DefaultClient() != DefaultClient() {
		t.Error("DefaultClient() returned different clients")
	}
	if DefaultClient().Serializer() == nil {
		t.Error("default client has no serializer")
	}
}
