// Package serializer provides body serialization for the search engine client.
// It defines a common interface and implementations used by the client to write
// request bodies and to read response bodies.
//
// The package focuses on:
//   - Providing a consistent interface for different JSON implementations
//   - Supporting newline delimited bodies for bulk style APIs
//   - Lossless round trips of all declared fields (see the testing subpackage)
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: Implementation using encoding/json. This is the reference
//     implementation and the default of all clients.
//
//   - jsonIterSerializerImpl: Implementation using json-iterator in its encoding/json
//     compatible configuration. Produces byte identical output and is faster for
//     large response bodies.
//
//   - LineDelimited: Implemented by bodies that are written as one document per line.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  s := serializer.NewJSONSerializer()
//	  data, err := s.Serialize(body)
//	  // ... send data ...
//	  var resp SomeResponse
//	  err = s.Deserialize(receivedData, &resp)
package serializer
