package transport

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is the content-subtype the participant admin endpoints accept
// alongside protobuf. Requests carry the JSON field names defined in transport.go.
const jsonCodecName = "json"

func init() { //nolint:gochecknoinits // Codec registration must happen before any call.
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals request and response bodies as plain JSON.
type jsonCodec struct{}

// Marshal implements encoding.Codec.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements encoding.Codec.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name implements encoding.Codec.
func (jsonCodec) Name() string {
	return jsonCodecName
}
