// Package codec converts opaque byte buffers from audio/image models into a
// portable base64 text representation and back.
package codec

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"aldalil-gateway/internal/common/errors"
)

// encodeChunkSize bounds how much raw input is converted per iteration.
// Multiple of 3 so no chunk boundary ever produces internal padding.
const encodeChunkSize = 3 * 64 * 1024

// Encode converts a raw binary-like value into a base64 string. Three input
// shapes are recognized: a byte buffer, a readable stream (drained first),
// and an already-encoded string passed straight through. Anything else fails
// with an unsupported-response-type error naming the runtime type.
func Encode(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case []byte:
		return encodeBytes(v), nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return "", errors.NewUpstreamInvocationError("stream", err)
		}
		return encodeBytes(data), nil
	case string:
		return v, nil
	default:
		return "", errors.NewUnsupportedResponseTypeError(fmt.Sprintf("%T", raw))
	}
}

// encodeBytes converts iteratively so a large buffer never becomes one
// massive intermediate expression.
func encodeBytes(data []byte) string {
	if len(data) <= encodeChunkSize {
		return base64.StdEncoding.EncodeToString(data)
	}

	var b strings.Builder
	b.Grow(base64.StdEncoding.EncodedLen(len(data)))
	for offset := 0; offset < len(data); offset += encodeChunkSize {
		end := offset + encodeChunkSize
		if end > len(data) {
			end = len(data)
		}
		b.WriteString(base64.StdEncoding.EncodeToString(data[offset:end]))
	}
	return b.String()
}

// Decode reverses Encode.
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}
