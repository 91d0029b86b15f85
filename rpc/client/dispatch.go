package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// ErrNilDescriptor is returned when a customize function returns nil
var ErrNilDescriptor = errors.New("customize returned a nil descriptor")

// errAsyncClosed is reported when an async transport closes its channel
// without delivering an envelope
var errAsyncClosed = errors.New("transport closed the response channel without a response")

// --------------------------------------------------------------------------
// Pipeline Types
// --------------------------------------------------------------------------

// Parameters is implemented by the request parameters of every operation
type Parameters interface {
	// Base returns the parameters shared by all operations
	Base() *common.RequestParameters
}

// Descriptor is implemented by the descriptor of every operation.
// RequestParameters derives the parameters of one call from the descriptor
// state; it must not modify the descriptor.
type Descriptor[P Parameters] interface {
	comparable
	RequestParameters() P
}

// --------------------------------------------------------------------------
// Dispatch
// --------------------------------------------------------------------------

// Dispatch runs one operation: customize is applied to initial exactly once
// (nil customize keeps initial), the parameters are derived from the result,
// invoke performs the single transport call and the envelope is mapped to a
// typed response.
//
// A failed call is not an error: the response is returned with IsValid() ==
// false. With ClientConfig.ThrowExceptions set, a *common.ClientError is
// returned alongside the invalid response. Errors are only returned for nil
// descriptors and bodies that can not be deserialized.
func Dispatch[R any, PR responsePtr[R], D Descriptor[P], P Parameters](
	ctx context.Context,
	c *Client,
	initial D,
	customize func(D) D,
	invoke func(ctx context.Context, params P, descriptor D) *common.Envelope,
) (*R, error) {
	return dispatch[R, PR](ctx, c, initial, customize, invoke)
}

// DispatchAsync is the asynchronous form of Dispatch. The whole pipeline runs
// on its own goroutine, the result is delivered through the returned Future.
//
// While waiting for the transport, cancellation of ctx yields an invalid
// response built from a failed envelope, exactly like a failed transport call.
func DispatchAsync[R any, PR responsePtr[R], D Descriptor[P], P Parameters](
	ctx context.Context,
	c *Client,
	initial D,
	customize func(D) D,
	invoke func(ctx context.Context, params P, descriptor D) <-chan *common.Envelope,
) *Future[R] {
	await := func(ctx context.Context, params P, descriptor D) *common.Envelope {
		select {
		case env, ok := <-invoke(ctx, params, descriptor):
			if !ok || env == nil {
				return common.NewFailedEnvelope(nil, errAsyncClosed)
			}
			return env
		case <-ctx.Done():
			return common.NewFailedEnvelope(nil, ctx.Err())
		}
	}

	f := &Future[R]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.resp, f.err = dispatch[R, PR](ctx, c, initial, customize, await)
	}()
	return f
}

// dispatch is the pipeline shared by Dispatch and DispatchAsync
func dispatch[R any, PR responsePtr[R], D Descriptor[P], P Parameters](
	ctx context.Context,
	c *Client,
	initial D,
	customize func(D) D,
	invoke func(ctx context.Context, params P, descriptor D) *common.Envelope,
) (*R, error) {
	started := time.Now()
	name := responseName[R]()

	// Apply the caller customization
	descriptor := initial
	if customize != nil {
		descriptor = customize(initial)
	}
	var zero D
	if descriptor == zero {
		return nil, fmt.Errorf("%s: %w", name, ErrNilDescriptor)
	}

	// Derive the parameters and perform the call
	params := descriptor.RequestParameters()
	env := invoke(ctx, params, descriptor)
	if env == nil {
		env = common.NewFailedEnvelope(nil, errAsyncClosed)
	}

	// Map the envelope to the typed response
	resp, err := mapResponse[R, PR](c.serializer, params.Base(), env)
	if err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`esclient_deserialization_errors_total{response=%q}`, name)).Inc()
		return nil, err
	}

	valid := PR(resp).IsValid()
	metrics.GetOrCreateCounter(fmt.Sprintf(`esclient_requests_total{response=%q,valid="%t"}`, name, valid)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`esclient_request_duration_seconds{response=%q}`, name)).UpdateDuration(started)

	if !valid {
		Logger.Debugf("%s: invalid response from %s %s: %v", name, env.Method, env.URI, env.Err)
		if c.config.ThrowExceptions {
			return resp, common.NewClientError(fmt.Sprintf("%s: unsuccessful call on %s %s", name, env.Method, env.URI), env)
		}
	}
	return resp, nil
}

// responseName is the name of R used in log messages and metric labels
func responseName[R any]() string {
	return reflect.TypeFor[R]().Name()
}

// --------------------------------------------------------------------------
// Future
// --------------------------------------------------------------------------

// Future is the pending result of an asynchronous dispatch
type Future[R any] struct {
	done chan struct{}
	resp *R
	err  error
}

// Done is closed once the result is available
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done. Cancelling ctx
// only stops waiting, it does not cancel the dispatch.
func (f *Future[R]) Await(ctx context.Context) (*R, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
