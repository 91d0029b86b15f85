// Package rpc provides the request pipeline of the search engine client. It
// turns typed descriptors into HTTP calls and the answers back into typed
// responses.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the pipeline, including the
//     request, the envelope describing a completed call, configuration and logging.
//
//   - transport: Transport abstraction with an HTTP implementation (with node
//     rotation and retries) and an in-memory implementation answering from
//     registered routes.
//
//   - serializer: Body serialization with two implementations (encoding/json and
//     json-iterator) and a round trip verifier for tests in serializer/testing.
//
//   - client: The typed client. Descriptors describe a call, the dispatcher runs
//     it synchronously or asynchronously and the response mapper builds the
//     typed response, including the reshaped alias listing.
package rpc
