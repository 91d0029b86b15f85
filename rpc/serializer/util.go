package serializer

import (
	"bytes"
	"fmt"
)

// Names accepted by New
const (
	NameJSON     = "json"
	NameJSONIter = "jsoniter"
)

// New creates a serializer by name
func New(name string) (ISerializer, error) {
	switch name {
	case NameJSON:
		return NewJSONSerializer(), nil
	case NameJSONIter:
		return NewJSONIterSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// ContentTypeOf returns the content type a serialized v is sent with
func ContentTypeOf(s ISerializer, v any) string {
	if _, ok := v.(LineDelimited); ok {
		return ContentTypeNDJSON
	}
	return s.ContentType()
}

// serializeLines writes every line of ld with marshal, each followed by a newline
func serializeLines(marshal func(any) ([]byte, error), ld LineDelimited) ([]byte, error) {
	var buf bytes.Buffer
	for i, line := range ld.Lines() {
		b, err := marshal(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
