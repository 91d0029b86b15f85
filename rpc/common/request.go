package common

import (
	"net/url"
	"slices"
)

// --------------------------------------------------------------------------
// Request Parameters
// --------------------------------------------------------------------------

// RequestParameters holds the part of a call's parameters that is shared by all
// operations: the query string, additionally allowed status codes and the per
// call deserialization state.
//
// Operation specific parameter types embed it.
type RequestParameters struct {
	query                url.Values
	allowedStatusCodes   []int
	deserializationState any
}

// AddQueryString sets a query string parameter
func (p *RequestParameters) AddQueryString(name, value string) {
	if p.query == nil {
		p.query = url.Values{}
	}
	p.query.Set(name, value)
}

// QueryString returns a copy of the query string parameters
func (p *RequestParameters) QueryString() url.Values {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = slices.Clone(v)
	}
	return q
}

// AllowStatusCodes marks non 2xx status codes that still count as a successful call
func (p *RequestParameters) AllowStatusCodes(codes ...int) {
	p.allowedStatusCodes = append(p.allowedStatusCodes, codes...)
}

// AllowedStatusCodes returns the additionally allowed status codes
func (p *RequestParameters) AllowedStatusCodes() []int {
	return slices.Clone(p.allowedStatusCodes)
}

// SetDeserializationState attaches a response converter for this call only.
// The value is opaque to this package; the response mapper type checks it.
func (p *RequestParameters) SetDeserializationState(state any) {
	p.deserializationState = state
}

// DeserializationState returns the state set with SetDeserializationState or nil
func (p *RequestParameters) DeserializationState() any {
	return p.deserializationState
}

// --------------------------------------------------------------------------
// Request
// --------------------------------------------------------------------------

// Request is a fully built wire request handed to a transport
type Request struct {
	Method             string
	Path               string
	Query              url.Values
	Body               []byte
	ContentType        string
	AllowedStatusCodes []int
}

// URI returns the path including the encoded query string
func (r *Request) URI() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// IsAllowed reports whether a status code counts as success for this request
func (r *Request) IsAllowed(statusCode int) bool {
	if statusCode >= 200 && statusCode < 300 {
		return true
	}
	return slices.Contains(r.AllowedStatusCodes, statusCode)
}
