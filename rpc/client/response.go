package client

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/esclient/lib/util"
	"github.com/ValentinKolb/esclient/rpc/common"
)

// --------------------------------------------------------------------------
// Base Response
// --------------------------------------------------------------------------

// Response is implemented by all typed responses (through BaseResponse)
type Response interface {
	// IsValid reports whether the response was built from a successful call
	IsValid() bool
	// ConnectionStatus returns the envelope of the call the response was built from
	ConnectionStatus() *common.Envelope

	setStatus(valid bool, status *common.Envelope)
}

// BaseResponse carries the validity flag and the connection status of a
// typed response. It is embedded by every response type.
type BaseResponse struct {
	valid  bool
	status *common.Envelope
}

func (r *BaseResponse) IsValid() bool {
	return r.valid
}

func (r *BaseResponse) ConnectionStatus() *common.Envelope {
	return r.status
}

func (r *BaseResponse) setStatus(valid bool, status *common.Envelope) {
	r.valid = valid
	r.status = status
}

// DebugInformation describes the call the response was built from
func (r *BaseResponse) DebugInformation() string {
	if r.status == nil {
		return "No connection status available"
	}
	return r.status.DebugInformation()
}

// --------------------------------------------------------------------------
// Response Types
// --------------------------------------------------------------------------

// IndicesOperationResponse is returned by index level write operations
type IndicesOperationResponse struct {
	BaseResponse
	Acknowledged bool `json:"acknowledged"`
}

// ExistsResponse is returned by HEAD style exists calls
type ExistsResponse struct {
	BaseResponse
	Exists bool `json:"-"`
}

// AliasDefinition describes one alias of an index. Name is not part of the
// definition on the wire, it is the key the definition is stored under.
type AliasDefinition struct {
	Name          string          `json:"-"`
	Filter        json.RawMessage `json:"filter,omitempty"`
	IndexRouting  string          `json:"index_routing,omitempty"`
	SearchRouting string          `json:"search_routing,omitempty"`
	IsWriteIndex  *bool           `json:"is_write_index,omitempty"`
	IsHidden      *bool           `json:"is_hidden,omitempty"`
}

// GetAliasesResponse lists the aliases per index. Indices keeps the order of
// the indices in the response body; every index has a non nil (possibly
// empty) alias list.
type GetAliasesResponse struct {
	BaseResponse
	Indices *util.OrderedMap[[]AliasDefinition]
}

// aliasesWire is the shape of an alias listing on the wire:
// index -> "aliases" -> alias name -> definition. Other keys of an index
// entry (mappings, settings) are kept raw and never decoded.
type aliasesWire = util.OrderedMap[*util.OrderedMap[json.RawMessage]]

// aliasesKey is the only key of an index entry that holds aliases
const aliasesKey = "aliases"

// aliasesFromWire flattens the wire form into the domain form, decoding the
// "aliases" objects with decode. Missing or null "aliases" objects (and null
// index entries) become empty lists, so does an "aliases" value of the wrong
// shape.
func aliasesFromWire(wire *aliasesWire, decode func(data []byte, v any) error) *util.OrderedMap[[]AliasDefinition] {
	indices := util.NewOrderedMap[[]AliasDefinition]()
	wire.Range(func(index string, entry *util.OrderedMap[json.RawMessage]) bool {
		aliases := make([]AliasDefinition, 0)
		if raw, ok := entry.Get(aliasesKey); ok {
			byName := util.NewOrderedMap[AliasDefinition]()
			if err := decode(raw, byName); err != nil {
				Logger.Warningf("Ignoring aliases of index %s: %v", index, err)
				byName = nil
			}
			byName.Range(func(name string, alias AliasDefinition) bool {
				alias.Name = name
				aliases = append(aliases, alias)
				return true
			})
		}
		indices.Set(index, aliases)
		return true
	})
	return indices
}

// MarshalJSON writes the response in its wire form
func (r GetAliasesResponse) MarshalJSON() ([]byte, error) {
	wire := util.NewOrderedMap[*util.OrderedMap[json.RawMessage]]()
	var err error
	r.Indices.Range(func(index string, aliases []AliasDefinition) bool {
		byName := util.NewOrderedMap[AliasDefinition]()
		for _, alias := range aliases {
			byName.Set(alias.Name, alias)
		}
		var raw []byte
		if raw, err = json.Marshal(byName); err != nil {
			err = fmt.Errorf("aliases of index %s: %w", index, err)
			return false
		}
		entry := util.NewOrderedMap[json.RawMessage]()
		entry.Set(aliasesKey, raw)
		wire.Set(index, entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reads the response from its wire form
func (r *GetAliasesResponse) UnmarshalJSON(data []byte) error {
	wire := util.NewOrderedMap[*util.OrderedMap[json.RawMessage]]()
	if err := json.Unmarshal(data, wire); err != nil {
		return fmt.Errorf("alias listing: %w", err)
	}
	r.Indices = aliasesFromWire(wire, json.Unmarshal)
	return nil
}

// Aliases returns the aliases of index and whether the index was listed
func (r *GetAliasesResponse) Aliases(index string) ([]AliasDefinition, bool) {
	return r.Indices.Get(index)
}
