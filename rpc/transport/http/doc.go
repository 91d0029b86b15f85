// Package http implements the HTTP transport of the search engine client.
// It provides the concrete implementation of transport.IRPCClientTransport
// used against real clusters.
//
// The package focuses on:
//   - Round-robin load balancing across multiple cluster endpoints
//   - Retrying a request on another node when no response was received
//   - Recording an audit entry per attempt in the envelope
//   - Per endpoint request timers and failure meters
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. A call is successful
//     for 2xx responses and for status codes the request explicitly allows (e.g.
//     404 for exists APIs). Non successful responses are returned as is, with
//     body, they are never retried.
//
//   - MetricsReporter: Implemented by httpClientTransport. Metrics returns the
//     go-metrics registry holding the per endpoint timers and meters.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter to ensure thread safety when
//	selecting server endpoints. Connect and Close must not race with Perform.
package http
