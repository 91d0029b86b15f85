package client

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/ValentinKolb/esclient/rpc/common"
)

// Query string parameter names
const (
	queryMasterTimeout = "master_timeout"
	queryTimeout       = "timeout"
	queryLocal         = "local"
)

// --------------------------------------------------------------------------
// Update Aliases (POST /_aliases)
// --------------------------------------------------------------------------

// AliasActionBody is the body of a single add or remove action
type AliasActionBody struct {
	Index         string          `json:"index"`
	Alias         string          `json:"alias"`
	Filter        json.RawMessage `json:"filter,omitempty"`
	Routing       string          `json:"routing,omitempty"`
	IndexRouting  string          `json:"index_routing,omitempty"`
	SearchRouting string          `json:"search_routing,omitempty"`
	IsWriteIndex  *bool           `json:"is_write_index,omitempty"`
}

// AliasAction is one entry of the actions list, exactly one field is set
type AliasAction struct {
	Add    *AliasActionBody `json:"add,omitempty"`
	Remove *AliasActionBody `json:"remove,omitempty"`
}

// AliasActions is the request body of the update aliases API
type AliasActions struct {
	Actions []AliasAction `json:"actions"`
}

// AliasOption configures an add action
type AliasOption func(*AliasActionBody)

// WithFilter restricts the alias to documents matching the filter query
func WithFilter(filter json.RawMessage) AliasOption {
	return func(b *AliasActionBody) { b.Filter = filter }
}

// WithRouting sets the routing used for indexing and searching
func WithRouting(routing string) AliasOption {
	return func(b *AliasActionBody) { b.Routing = routing }
}

// WithIndexRouting sets the routing used for indexing
func WithIndexRouting(routing string) AliasOption {
	return func(b *AliasActionBody) { b.IndexRouting = routing }
}

// WithSearchRouting sets the routing used for searching
func WithSearchRouting(routing string) AliasOption {
	return func(b *AliasActionBody) { b.SearchRouting = routing }
}

// AsWriteIndex marks the index as the write index of the alias
func AsWriteIndex(isWriteIndex bool) AliasOption {
	return func(b *AliasActionBody) { b.IsWriteIndex = &isWriteIndex }
}

// AliasDescriptor describes an atomic update of aliases
type AliasDescriptor struct {
	actions       []AliasAction
	masterTimeout string
	timeout       string
	converter     ResponseConverter[IndicesOperationResponse]
}

// NewAliasDescriptor creates a descriptor without actions
func NewAliasDescriptor() *AliasDescriptor {
	return &AliasDescriptor{}
}

// Add adds alias to index
func (d *AliasDescriptor) Add(index, alias string, opts ...AliasOption) *AliasDescriptor {
	body := &AliasActionBody{Index: index, Alias: alias}
	for _, opt := range opts {
		opt(body)
	}
	d.actions = append(d.actions, AliasAction{Add: body})
	return d
}

// Remove removes alias from index
func (d *AliasDescriptor) Remove(index, alias string) *AliasDescriptor {
	d.actions = append(d.actions, AliasAction{Remove: &AliasActionBody{Index: index, Alias: alias}})
	return d
}

// MasterTimeout sets the timeout for connecting to the master node, e.g. "30s"
func (d *AliasDescriptor) MasterTimeout(timeout string) *AliasDescriptor {
	d.masterTimeout = timeout
	return d
}

// Timeout sets the operation timeout, e.g. "30s"
func (d *AliasDescriptor) Timeout(timeout string) *AliasDescriptor {
	d.timeout = timeout
	return d
}

// Deserialize attaches a converter used instead of the default response mapping
func (d *AliasDescriptor) Deserialize(converter ResponseConverter[IndicesOperationResponse]) *AliasDescriptor {
	d.converter = converter
	return d
}

// Body returns the request body. Actions are never null on the wire.
func (d *AliasDescriptor) Body() AliasActions {
	actions := slices.Clone(d.actions)
	if actions == nil {
		actions = []AliasAction{}
	}
	return AliasActions{Actions: actions}
}

func (d *AliasDescriptor) RequestParameters() *AliasRequestParameters {
	p := &AliasRequestParameters{}
	if d.masterTimeout != "" {
		p.AddQueryString(queryMasterTimeout, d.masterTimeout)
	}
	if d.timeout != "" {
		p.AddQueryString(queryTimeout, d.timeout)
	}
	if d.converter != nil {
		p.DeserializationState(d.converter)
	}
	return p
}

// AliasRequestParameters are the parameters of one update aliases call
type AliasRequestParameters struct {
	common.RequestParameters
}

func (p *AliasRequestParameters) Base() *common.RequestParameters {
	return &p.RequestParameters
}

// DeserializationState attaches a converter for this call only
func (p *AliasRequestParameters) DeserializationState(converter ResponseConverter[IndicesOperationResponse]) *AliasRequestParameters {
	p.SetDeserializationState(converter)
	return p
}

// --------------------------------------------------------------------------
// Get Aliases (GET /{index}/_alias/{name})
// --------------------------------------------------------------------------

// GetAliasesDescriptor describes an alias listing. Without indices all
// indices are listed, without a name all aliases.
type GetAliasesDescriptor struct {
	indices   []string
	name      string
	local     *bool
	converter ResponseConverter[GetAliasesResponse]
}

// NewGetAliasesDescriptor creates a descriptor listing all aliases of all indices
func NewGetAliasesDescriptor() *GetAliasesDescriptor {
	return &GetAliasesDescriptor{}
}

// Index restricts the listing to the given indices (wildcards allowed)
func (d *GetAliasesDescriptor) Index(indices ...string) *GetAliasesDescriptor {
	d.indices = append(d.indices, indices...)
	return d
}

// Alias restricts the listing to aliases matching name (wildcards allowed)
func (d *GetAliasesDescriptor) Alias(name string) *GetAliasesDescriptor {
	d.name = name
	return d
}

// Local reads the information from the local node only
func (d *GetAliasesDescriptor) Local(local bool) *GetAliasesDescriptor {
	d.local = &local
	return d
}

// Deserialize attaches a converter used instead of the default alias transform
func (d *GetAliasesDescriptor) Deserialize(converter ResponseConverter[GetAliasesResponse]) *GetAliasesDescriptor {
	d.converter = converter
	return d
}

func (d *GetAliasesDescriptor) RequestParameters() *GetAliasesRequestParameters {
	p := &GetAliasesRequestParameters{Indices: slices.Clone(d.indices), Name: d.name}
	if d.local != nil {
		p.AddQueryString(queryLocal, strconv.FormatBool(*d.local))
	}
	if d.converter != nil {
		p.DeserializationState(d.converter)
	}
	return p
}

// GetAliasesRequestParameters are the parameters of one get aliases call
type GetAliasesRequestParameters struct {
	common.RequestParameters
	Indices []string
	Name    string
}

func (p *GetAliasesRequestParameters) Base() *common.RequestParameters {
	return &p.RequestParameters
}

// DeserializationState attaches a converter for this call only
func (p *GetAliasesRequestParameters) DeserializationState(converter ResponseConverter[GetAliasesResponse]) *GetAliasesRequestParameters {
	p.SetDeserializationState(converter)
	return p
}

// --------------------------------------------------------------------------
// Alias Exists (HEAD /{index}/_alias/{name})
// --------------------------------------------------------------------------

// AliasExistsDescriptor describes a check whether an alias exists
type AliasExistsDescriptor struct {
	indices []string
	name    string
	local   *bool
}

// NewAliasExistsDescriptor creates a descriptor checking for alias name on any index
func NewAliasExistsDescriptor(name string) *AliasExistsDescriptor {
	return &AliasExistsDescriptor{name: name}
}

// Index restricts the check to the given indices
func (d *AliasExistsDescriptor) Index(indices ...string) *AliasExistsDescriptor {
	d.indices = append(d.indices, indices...)
	return d
}

// Alias sets the alias name to check for
func (d *AliasExistsDescriptor) Alias(name string) *AliasExistsDescriptor {
	d.name = name
	return d
}

// Local reads the information from the local node only
func (d *AliasExistsDescriptor) Local(local bool) *AliasExistsDescriptor {
	d.local = &local
	return d
}

func (d *AliasExistsDescriptor) RequestParameters() *AliasExistsRequestParameters {
	p := &AliasExistsRequestParameters{Indices: slices.Clone(d.indices), Name: d.name}
	// a missing alias is an answer, not a failed call
	p.AllowStatusCodes(http.StatusNotFound)
	if d.local != nil {
		p.AddQueryString(queryLocal, strconv.FormatBool(*d.local))
	}
	return p
}

// AliasExistsRequestParameters are the parameters of one alias exists call
type AliasExistsRequestParameters struct {
	common.RequestParameters
	Indices []string
	Name    string
}

func (p *AliasExistsRequestParameters) Base() *common.RequestParameters {
	return &p.RequestParameters
}

// DeserializationState attaches a converter for this call only
func (p *AliasExistsRequestParameters) DeserializationState(converter ResponseConverter[ExistsResponse]) *AliasExistsRequestParameters {
	p.SetDeserializationState(converter)
	return p
}
