// Package transport defines the raw transport contract used by the client.
// A transport takes a fully built wire request and returns a wire envelope;
// everything in between (node selection, connection reuse, retries) is the
// transport's business.
//
// The package focuses on:
//   - Defining the client transport interface in a synchronous and an
//     asynchronous shape
//   - Reporting all failures inside the envelope instead of as errors
//   - Enabling multiple transport implementations (HTTP, in-memory)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations.
//
//   - Async / Completed: Helpers to build the asynchronous shape from the
//     synchronous one.
//
// Implementations:
//
//   - http: Round-robin HTTP transport with retries and per endpoint metrics.
//   - memory: In-memory transport answering from registered routes, used by
//     tests and offline tooling.
package transport
