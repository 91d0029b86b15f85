package serializer

import (
	"bytes"
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var errEmptyInput = errors.New("jsoniter: unexpected end of JSON input")

// NewJSONIterSerializer creates a new serializer using json-iterator in its
// encoding/json compatible configuration. It produces the same output as the
// json serializer and honors json.Marshaler / json.Unmarshaler.
func NewJSONIterSerializer() ISerializer {
	return &jsonIterSerializerImpl{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

// jsonIterSerializerImpl implements the ISerializer interface using json-iterator
type jsonIterSerializerImpl struct {
	api jsoniter.API
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j jsonIterSerializerImpl) Serialize(v any) ([]byte, error) {
	if ld, ok := v.(LineDelimited); ok {
		return serializeLines(j.api.Marshal, ld)
	}
	return j.api.Marshal(v)
}

func (j jsonIterSerializerImpl) Deserialize(b []byte, v any) error {
	// json-iterator reports a bare EOF as success, encoding/json does not
	if len(bytes.TrimSpace(b)) == 0 {
		return errEmptyInput
	}
	return j.api.Unmarshal(b, v)
}

func (j jsonIterSerializerImpl) ContentType() string {
	return ContentTypeJSON
}
