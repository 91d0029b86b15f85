package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ValentinKolb/esclient/lib/util"
	"github.com/ValentinKolb/esclient/rpc/common"
)

// --------------------------------------------------------------------------
// Update Aliases
// --------------------------------------------------------------------------

// Alias atomically adds and removes aliases
func (c *Client) Alias(ctx context.Context, customize func(*AliasDescriptor) *AliasDescriptor) (*IndicesOperationResponse, error) {
	return Dispatch[IndicesOperationResponse](ctx, c, NewAliasDescriptor(), customize, c.raw.IndicesUpdateAliases)
}

// AliasAsync is the asynchronous form of Alias
func (c *Client) AliasAsync(ctx context.Context, customize func(*AliasDescriptor) *AliasDescriptor) *Future[IndicesOperationResponse] {
	return DispatchAsync[IndicesOperationResponse](ctx, c, NewAliasDescriptor(), customize, c.raw.IndicesUpdateAliasesAsync)
}

// --------------------------------------------------------------------------
// Get Aliases
// --------------------------------------------------------------------------

// GetAliases lists the aliases per index
func (c *Client) GetAliases(ctx context.Context, customize func(*GetAliasesDescriptor) *GetAliasesDescriptor) (*GetAliasesResponse, error) {
	return Dispatch[GetAliasesResponse](ctx, c, NewGetAliasesDescriptor(), customize,
		func(ctx context.Context, p *GetAliasesRequestParameters, d *GetAliasesDescriptor) *common.Envelope {
			return c.raw.IndicesGetAlias(ctx, c.withGetAliasesConverter(p), d)
		})
}

// GetAliasesAsync is the asynchronous form of GetAliases
func (c *Client) GetAliasesAsync(ctx context.Context, customize func(*GetAliasesDescriptor) *GetAliasesDescriptor) *Future[GetAliasesResponse] {
	return DispatchAsync[GetAliasesResponse](ctx, c, NewGetAliasesDescriptor(), customize,
		func(ctx context.Context, p *GetAliasesRequestParameters, d *GetAliasesDescriptor) <-chan *common.Envelope {
			return c.raw.IndicesGetAliasAsync(ctx, c.withGetAliasesConverter(p), d)
		})
}

// withGetAliasesConverter attaches the alias transform unless the caller
// attached a converter
func (c *Client) withGetAliasesConverter(p *GetAliasesRequestParameters) *GetAliasesRequestParameters {
	if p.Base().DeserializationState() != nil {
		return p
	}
	return p.DeserializationState(c.deserializeGetAliasesResponse)
}

// deserializeGetAliasesResponse reads the index -> "aliases" -> name ->
// definition body and flattens it into one alias list per index
func (c *Client) deserializeGetAliasesResponse(status *common.Envelope, body io.Reader) (*GetAliasesResponse, error) {
	resp := &GetAliasesResponse{Indices: util.NewOrderedMap[[]AliasDefinition]()}
	if !status.Success {
		return resp, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return resp, nil
	}

	wire := util.NewOrderedMap[*util.OrderedMap[json.RawMessage]]()
	if err := c.serializer.Deserialize(data, wire); err != nil {
		return nil, err
	}
	resp.Indices = aliasesFromWire(wire, c.serializer.Deserialize)
	return resp, nil
}

// --------------------------------------------------------------------------
// Alias Exists
// --------------------------------------------------------------------------

// AliasExists checks whether an alias exists
func (c *Client) AliasExists(ctx context.Context, name string, customize func(*AliasExistsDescriptor) *AliasExistsDescriptor) (*ExistsResponse, error) {
	return Dispatch[ExistsResponse](ctx, c, NewAliasExistsDescriptor(name), customize,
		func(ctx context.Context, p *AliasExistsRequestParameters, d *AliasExistsDescriptor) *common.Envelope {
			return c.raw.IndicesExistsAlias(ctx, p.DeserializationState(deserializeExistsResponse), d)
		})
}

// AliasExistsAsync is the asynchronous form of AliasExists
func (c *Client) AliasExistsAsync(ctx context.Context, name string, customize func(*AliasExistsDescriptor) *AliasExistsDescriptor) *Future[ExistsResponse] {
	return DispatchAsync[ExistsResponse](ctx, c, NewAliasExistsDescriptor(name), customize,
		func(ctx context.Context, p *AliasExistsRequestParameters, d *AliasExistsDescriptor) <-chan *common.Envelope {
			return c.raw.IndicesExistsAliasAsync(ctx, p.DeserializationState(deserializeExistsResponse), d)
		})
}

// deserializeExistsResponse maps the status code of a HEAD call: 200 means
// the alias exists, the allowed 404 means it does not
func deserializeExistsResponse(status *common.Envelope, _ io.Reader) (*ExistsResponse, error) {
	return &ExistsResponse{Exists: status.StatusCode == http.StatusOK}, nil
}
