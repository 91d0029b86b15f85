package serializer

// ISerializer is the interface for all serializers used to write request
// bodies and to read response bodies
type ISerializer interface {
	// Serialize serializes a value into a byte array.
	// Values implementing LineDelimited are written as newline delimited documents.
	// It returns the serialized byte array and an error if any
	Serialize(v any) ([]byte, error)
	// Deserialize deserializes a byte array into the value pointed to by v
	// It returns an error if any
	Deserialize(b []byte, v any) error
	// ContentType returns the MIME type of the serialized form
	ContentType() string
}

// LineDelimited is implemented by bodies that are sent as one document per
// line (e.g. bulk style APIs). Each element of Lines is serialized on its own
// line, the result ends with a newline.
type LineDelimited interface {
	Lines() []any
}

const (
	ContentTypeJSON   = "application/json"
	ContentTypeNDJSON = "application/x-ndjson"
)
