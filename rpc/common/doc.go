// Package common provides core data structures and utilities shared across
// the client packages. It defines the wire level types exchanged between the
// dispatcher and the transports, the client configuration and logging.
//
// The package focuses on:
//   - The wire envelope describing one completed transport call
//   - Request parameters shared by all operations, including the per call
//     deserialization state
//   - Configuration structures and loading them from the environment
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - Envelope: The outcome of one transport call: success flag, status code,
//     body, transport error and an audit trail with one entry per attempt.
//     An envelope with Success == false is never a source of domain fields.
//
//   - Request: A fully built wire request (method, path, query, body) as it is
//     handed to a transport.
//
//   - RequestParameters: Embedded by all operation parameter types. Holds the
//     query string, allowed non 2xx status codes and an optional response
//     converter used for one call only.
//
//   - ClientConfig: Configuration for clients, controlling endpoints, timeouts,
//     retry behavior and whether failures are reported as errors.
//
//   - ClientError: Error type carrying the envelope and audit trail of a failed call.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
package common
