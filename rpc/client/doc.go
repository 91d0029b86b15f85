// Package client implements the typed search engine client.
// It turns descriptors into wire requests and wire envelopes into typed,
// validity-flagged responses.
//
// The package focuses on:
//   - One generic dispatch pipeline for all operations, in a synchronous and an
//     asynchronous form sharing the same core
//   - Response mapping that never fails on unsuccessful calls
//   - Per call response converters for bodies that do not map onto the
//     response types (e.g. the alias listing)
//
// Key Components:
//
//   - Dispatch / DispatchAsync: Apply the caller customization to a descriptor,
//     derive the request parameters, perform exactly one transport call and map
//     the envelope. DispatchAsync returns a Future.
//
//   - RawDispatch: Knows the HTTP method and path of every API and builds the
//     wire request from parameters and descriptor.
//
//   - Client: Alias, GetAliases and AliasExists (and their Async forms) on top
//     of Dispatch.
//
//   - Default: Lazily created process wide client configured from the
//     environment.
//
// Usage Example:
//
//	c, _ := client.NewClient(common.LoadClientConfig(), http.NewHttpClientTransport(), serializer.NewJSONSerializer())
//
//	// Add an alias
//	_, _ = c.Alias(ctx, func(d *client.AliasDescriptor) *client.AliasDescriptor {
//		return d.Add("logs-2024", "logs")
//	})
//
//	// List the aliases of an index
//	resp, err := c.GetAliases(ctx, func(d *client.GetAliasesDescriptor) *client.GetAliasesDescriptor {
//		return d.Index("logs-2024")
//	})
//	if err == nil && resp.IsValid() {
//		aliases, _ := resp.Aliases("logs-2024")
//		fmt.Println(aliases[0].Name)
//	}
//
// Error Handling:
//
//	A failed call (transport error or unexpected status code) produces a
//	response with IsValid() == false and no error. Errors are only returned
//	for bodies that can not be deserialized, for nil descriptors and, if
//	ClientConfig.ThrowExceptions is set, as a *common.ClientError next to the
//	invalid response.
//
// Thread Safety:
//
//	A Client is safe for concurrent use. Descriptors, parameters and responses
//	belong to a single call.
package client
