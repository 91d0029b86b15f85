package transport

import (
	"context"
	"errors"

	"github.com/ValentinKolb/esclient/rpc/common"
)

// ErrNotConnected is reported in the envelope when a transport is used before
// Connect or after Close
var ErrNotConnected = errors.New("transport not connected")

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the raw transport used by the client. It is a black
// box to the dispatcher: node selection and retries are up to the implementation.
//
// Perform never returns nil and never reports failures any other way than
// through the envelope (Success == false, Err set).
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Perform sends a request and blocks until the response is fully read
	Perform(ctx context.Context, req *common.Request) *common.Envelope
	// PerformAsync sends a request and delivers the envelope on the returned
	// channel. Exactly one envelope is sent, then the channel is closed.
	PerformAsync(ctx context.Context, req *common.Request) <-chan *common.Envelope
	// Close closes the transport
	Close() error
}

// Async runs perform on its own goroutine and delivers the result on a
// buffered channel. Transports use it to implement PerformAsync.
func Async(ctx context.Context, req *common.Request, perform func(context.Context, *common.Request) *common.Envelope) <-chan *common.Envelope {
	ch := make(chan *common.Envelope, 1)
	go func() {
		defer close(ch)
		ch <- perform(ctx, req)
	}()
	return ch
}

// Completed returns a channel that already holds env. Used when a request
// fails before it reaches the transport.
func Completed(env *common.Envelope) <-chan *common.Envelope {
	ch := make(chan *common.Envelope, 1)
	ch <- env
	close(ch)
	return ch
}
