// Package memory implements an in-memory transport.IRPCClientTransport.
//
// Requests never leave the process: a MemoryTransport answers from handlers
// registered per method and path, or from a fallback handler. Unmatched
// requests get a 404 error document. Every call is counted per route and
// produces exactly one audit entry.
//
// The transport backs the default test client and the --transport memory
// mode of the CLI.
package memory
