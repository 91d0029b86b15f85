package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/ValentinKolb/esclient/rpc/transport/memory"
	"github.com/pmezard/go-difflib/difflib"
)

// TB is the part of testing.TB used to report mismatches
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// Phase is the progress of a round trip
type Phase int

const (
	NotStarted Phase = iota
	FirstPass
	SecondPass
	Done
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case FirstPass:
		return "first pass"
	case SecondPass:
		return "second pass"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

const (
	msgFirstPass  = "This is the first time I am serializing"
	msgSecondPass = "This is the second time I am serializing, this usually indicates a problem when deserializing"
)

// RoundTrip describes the expected serialized form of a value
type RoundTrip struct {
	// Expect is the expected serialized form. Strings and byte slices are used
	// as raw JSON, everything else is serialized first. An array expects one
	// line per element (line delimited bodies).
	Expect any

	// NoClientSerializeOfExpected serializes Expect with encoding/json instead
	// of the serializer under test
	NoClientSerializeOfExpected bool

	// NoDeserialization stops after the first pass
	NoDeserialization bool

	// Serializer is the serializer under test, the default client's serializer if nil
	Serializer serializer.ISerializer

	phase Phase
}

// Phase returns the pass the last round trip reached. Done is only reached
// when all passes succeeded.
func (rt *RoundTrip) Phase() Phase {
	return rt.phase
}

// AssertRoundTrips serializes value and compares it with the expected form.
// Then value is deserialized, serialized again and compared once more.
//
// Comparisons are structural: key order and whitespace do not matter. On a
// mismatch a diff of both sides is reported through t and the round trip
// stops. It returns the deserialized value, or the zero value if the round
// trip stopped early.
func AssertRoundTrips[T any](t TB, rt *RoundTrip, value T) T {
	t.Helper()
	var zero T
	rt.phase = NotStarted

	s := rt.Serializer
	if s == nil {
		s = DefaultClient().Serializer()
	}

	expected, err := rt.expected(s)
	if err != nil {
		t.Errorf("invalid round trip expectation: %v", err)
		return zero
	}

	// first serialize and check it looks like the expectation
	rt.phase = FirstPass
	serialized, ok := serializesAndMatches(t, s, value, expected, 0)
	if !ok {
		return zero
	}
	if rt.NoDeserialization {
		rt.phase = Done
		return zero
	}

	// deserialize the serialized form back again
	var again T
	if err := s.Deserialize(serialized, &again); err != nil {
		t.Errorf("%s: deserializing %s: %v", msgSecondPass, serialized, err)
		return zero
	}

	// serialize the reconstructed value and make sure it still looks like the expectation
	rt.phase = SecondPass
	if _, ok := serializesAndMatches(t, s, again, expected, 1); !ok {
		return zero
	}
	rt.phase = Done
	return again
}

// expected returns the parsed expected form
func (rt *RoundTrip) expected(s serializer.ISerializer) (any, error) {
	var raw []byte
	var err error

	switch e := rt.Expect.(type) {
	case nil:
		return nil, fmt.Errorf("no expected value set")
	case string:
		raw = []byte(e)
	case []byte:
		raw = e
	default:
		if rt.NoClientSerializeOfExpected {
			raw, err = json.Marshal(e)
		} else {
			raw, err = s.Serialize(e)
		}
		if err != nil {
			return nil, fmt.Errorf("serializing expected value: %w", err)
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("expected value serializes to an empty document")
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing expected value %s: %w", raw, err)
	}
	return parsed, nil
}

// serializesAndMatches serializes value and compares it with expected. An
// expected array is compared line by line.
func serializesAndMatches(t TB, s serializer.ISerializer, value any, expected any, iteration int) ([]byte, bool) {
	t.Helper()

	var serialized []byte
	if str, ok := value.(string); ok {
		serialized = []byte(str)
	} else {
		b, err := s.Serialize(value)
		if err != nil {
			t.Errorf("%s: %v", message(iteration, -1), err)
			return nil, false
		}
		serialized = b
	}

	records, isArray := expected.([]any)
	if !isArray {
		return serialized, tokenMatches(t, expected, serialized, iteration, -1)
	}

	var lines [][]byte
	for _, line := range bytes.Split(serialized, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}

	matches := true
	for i := 0; i < len(records) && i < len(lines); i++ {
		if !tokenMatches(t, records[i], lines[i], iteration, i) {
			matches = false
		}
	}
	if len(records) != len(lines) {
		t.Errorf("%s: expected %d items but the serialized output has %d lines", message(iteration, -1), len(records), len(lines))
		matches = false
	}
	return serialized, matches
}

// tokenMatches compares the parsed actual document with expected and reports a diff
func tokenMatches(t TB, expected any, actual []byte, iteration, item int) bool {
	t.Helper()

	var parsed any
	if err := json.Unmarshal(actual, &parsed); err != nil {
		t.Errorf("%s: serialized output is not valid JSON: %v\n%s", message(iteration, item), err, actual)
		return false
	}
	if reflect.DeepEqual(expected, parsed) {
		return true
	}

	// map keys are rendered sorted
	sortedExpected, _ := json.MarshalIndent(expected, "", "  ")
	sortedActual, _ := json.MarshalIndent(parsed, "", "  ")
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(sortedExpected) + "\n"),
		B:        difflib.SplitLines(string(sortedActual) + "\n"),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		diff = fmt.Sprintf("expected:\n%s\nactual:\n%s\n", sortedExpected, sortedActual)
	}
	t.Errorf("%s\n%s", message(iteration, item), diff)
	return false
}

// message distinguishes failures of the first and the second pass; item is
// the zero based index of a compared line or -1
func message(iteration, item int) string {
	msg := msgFirstPass
	if iteration > 0 {
		msg = msgSecondPass
	}
	if item > -1 {
		msg += fmt.Sprintf(". This is while comparing the %s item", ordinal(item+1))
	}
	return msg
}

// ordinal returns 1st, 2nd, 3rd, 4th, ... 11th, 12th, 13th, ... 21st
func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// --------------------------------------------------------------------------
// Default Client
// --------------------------------------------------------------------------

var defaultClient = sync.OnceValue(func() *client.Client {
	c, err := client.NewClient(common.DefaultClientConfig(), memory.NewMemoryTransport(), serializer.NewJSONSerializer())
	if err != nil {
		panic(fmt.Sprintf("creating in-memory client: %v", err))
	}
	return c
})

// DefaultClient returns the in-memory client whose serializer is used when a
// RoundTrip has none. It is created on first use.
func DefaultClient() *client.Client {
	return defaultClient()
}
