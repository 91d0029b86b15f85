package client_test

import (
	"encoding/json"
	"testing"

	"github.com/ValentinKolb/esclient/lib/util"
	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	rttesting "github.com/ValentinKolb/esclient/rpc/serializer/testing"
)

var serializers = map[string]serializer.ISerializer{
	serializer.NameJSON:     serializer.NewJSONSerializer(),
	serializer.NameJSONIter: serializer.NewJSONIterSerializer(),
}

// TestAliasActionsRoundTrip tests the update aliases body
func TestAliasActionsRoundTrip(t *testing.T) {
	body := client.NewAliasDescriptor().
		Add("logs-2024", "logs", client.WithFilter(json.RawMessage(`{"term":{"year":2024}}`)), client.AsWriteIndex(true)).
		Remove("logs-2023", "logs").
		Body()

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			rt := &rttesting.RoundTrip{
				Expect: map[string]any{
					"actions": []any{
						map[string]any{"add": map[string]any{
							"index":          "logs-2024",
							"alias":          "logs",
							"filter":         map[string]any{"term": map[string]any{"year": 2024}},
							"is_write_index": true,
						}},
						map[string]any{"remove": map[string]any{"index": "logs-2023", "alias": "logs"}},
					},
				},
				NoClientSerializeOfExpected: true,
				Serializer:                  s,
			}

			got := rttesting.AssertRoundTrips(t, rt, body)
			if rt.Phase() != rttesting.Done || len(got.Actions) != 2 || got.Actions[0].Add == nil || got.Actions[1].Remove == nil {
				t.Errorf("unexpected round trip result %+v", got)
			}
		})
	}
}

// TestGetAliasesResponseRoundTrip tests that the alias listing is written in
// its wire form and read back without losing names or order
func TestGetAliasesResponseRoundTrip(t *testing.T) {
	writeIndex := true
	resp := client.GetAliasesResponse{Indices: util.NewOrderedMap[[]client.AliasDefinition]()}
	resp.Indices.Set("myindex", []client.AliasDefinition{{Name: "alias1"}, {Name: "alias2", IndexRouting: "1", IsWriteIndex: &writeIndex}})
	resp.Indices.Set("empty", []client.AliasDefinition{})

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			rt := &rttesting.RoundTrip{
				Expect:     `{"myindex": {"aliases": {"alias1": {}, "alias2": {"index_routing": "1", "is_write_index": true}}}, "empty": {"aliases": {}}}`,
				Serializer: s,
			}

			got := rttesting.AssertRoundTrips(t, rt, resp)
			if keys := got.Indices.Keys(); len(keys) != 2 || keys[0] != "myindex" || keys[1] != "empty" {
				t.Fatalf("unexpected indices %v", keys)
			}
			aliases, _ := got.Aliases("myindex")
			if len(aliases) != 2 || aliases[0].Name != "alias1" || aliases[1].Name != "alias2" {
				t.Errorf("unexpected aliases %+v", aliases)
			}
			if empty, ok := got.Aliases("empty"); !ok || empty == nil || len(empty) != 0 {
				t.Errorf("expected empty alias list, got %v", empty)
			}
		})
	}
}

// TestIndicesOperationResponseRoundTrip tests a plain response type
func TestIndicesOperationResponseRoundTrip(t *testing.T) {
	rt := &rttesting.RoundTrip{Expect: `{"acknowledged": true}`}
	got := rttesting.AssertRoundTrips(t, rt, client.IndicesOperationResponse{Acknowledged: true})
	if !got.Acknowledged {
		t.Errorf("unexpected round trip result %+v", got)
	}
}
