package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/ValentinKolb/esclient/rpc/transport"
)

// RawDispatch turns the parameters and the descriptor of an operation into a
// wire request and performs it on the transport. It knows the HTTP method and
// path of every API but nothing about typed responses.
type RawDispatch struct {
	transport  transport.IRPCClientTransport
	serializer serializer.ISerializer
}

// --------------------------------------------------------------------------
// Indices APIs
// --------------------------------------------------------------------------

// IndicesUpdateAliases performs POST /_aliases
func (r *RawDispatch) IndicesUpdateAliases(ctx context.Context, p *AliasRequestParameters, d *AliasDescriptor) *common.Envelope {
	return r.perform(ctx, r.updateAliasesRequest(p, d))
}

// IndicesUpdateAliasesAsync is the asynchronous form of IndicesUpdateAliases
func (r *RawDispatch) IndicesUpdateAliasesAsync(ctx context.Context, p *AliasRequestParameters, d *AliasDescriptor) <-chan *common.Envelope {
	return r.performAsync(ctx, r.updateAliasesRequest(p, d))
}

// IndicesGetAlias performs GET /{index}/_alias/{name}
func (r *RawDispatch) IndicesGetAlias(ctx context.Context, p *GetAliasesRequestParameters, _ *GetAliasesDescriptor) *common.Envelope {
	return r.perform(ctx, r.request(http.MethodGet, aliasPath(p.Indices, p.Name), p.Base(), nil))
}

// IndicesGetAliasAsync is the asynchronous form of IndicesGetAlias
func (r *RawDispatch) IndicesGetAliasAsync(ctx context.Context, p *GetAliasesRequestParameters, _ *GetAliasesDescriptor) <-chan *common.Envelope {
	return r.performAsync(ctx, r.request(http.MethodGet, aliasPath(p.Indices, p.Name), p.Base(), nil))
}

// IndicesExistsAlias performs HEAD /{index}/_alias/{name}
func (r *RawDispatch) IndicesExistsAlias(ctx context.Context, p *AliasExistsRequestParameters, _ *AliasExistsDescriptor) *common.Envelope {
	return r.perform(ctx, r.request(http.MethodHead, aliasPath(p.Indices, p.Name), p.Base(), nil))
}

// IndicesExistsAliasAsync is the asynchronous form of IndicesExistsAlias
func (r *RawDispatch) IndicesExistsAliasAsync(ctx context.Context, p *AliasExistsRequestParameters, _ *AliasExistsDescriptor) <-chan *common.Envelope {
	return r.performAsync(ctx, r.request(http.MethodHead, aliasPath(p.Indices, p.Name), p.Base(), nil))
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// builtRequest is a wire request or the envelope of a request that could not be built
type builtRequest struct {
	req    *common.Request
	failed *common.Envelope
}

func (r *RawDispatch) updateAliasesRequest(p *AliasRequestParameters, d *AliasDescriptor) builtRequest {
	return r.request(http.MethodPost, "/_aliases", p.Base(), d.Body())
}

// request builds the wire request. A body that can not be serialized yields
// a failed envelope instead of a request.
func (r *RawDispatch) request(method, path string, p *common.RequestParameters, body any) builtRequest {
	req := &common.Request{
		Method:             method,
		Path:               path,
		Query:              p.QueryString(),
		AllowedStatusCodes: p.AllowedStatusCodes(),
	}

	if body != nil {
		b, err := r.serializer.Serialize(body)
		if err != nil {
			return builtRequest{failed: common.NewFailedEnvelope(req, fmt.Errorf("serializing request body: %w", err))}
		}
		req.Body = b
		req.ContentType = serializer.ContentTypeOf(r.serializer, body)
	}
	return builtRequest{req: req}
}

func (r *RawDispatch) perform(ctx context.Context, b builtRequest) *common.Envelope {
	if b.failed != nil {
		return b.failed
	}
	Logger.Debugf("Performing %s %s", b.req.Method, b.req.URI())
	return r.transport.Perform(ctx, b.req)
}

func (r *RawDispatch) performAsync(ctx context.Context, b builtRequest) <-chan *common.Envelope {
	if b.failed != nil {
		return transport.Completed(b.failed)
	}
	Logger.Debugf("Performing %s %s asynchronously", b.req.Method, b.req.URI())
	return r.transport.PerformAsync(ctx, b.req)
}

// aliasPath returns /{index}/_alias/{name}, leaving out empty parts
func aliasPath(indices []string, name string) string {
	var sb strings.Builder
	if len(indices) > 0 {
		escaped := make([]string, len(indices))
		for i, index := range indices {
			escaped[i] = url.PathEscape(index)
		}
		sb.WriteString("/" + strings.Join(escaped, ","))
	}
	sb.WriteString("/_alias")
	if name != "" {
		sb.WriteString("/" + url.PathEscape(name))
	}
	return sb.String()
}
