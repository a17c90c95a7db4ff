package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aldalil-gateway/internal/common/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"single byte", 1},
		{"below chunk boundary", encodeChunkSize - 1},
		{"exact chunk boundary", encodeChunkSize},
		{"above one megabyte", 1<<20 + 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = byte(i % 251)
			}

			encoded, err := Encode(data)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(data, decoded))
		})
	}
}

func TestEncodeReader(t *testing.T) {
	data := []byte("audio payload bytes")
	encoded, err := Encode(bytes.NewReader(data))
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncodeStringPassthrough(t *testing.T) {
	encoded, err := Encode("YWxyZWFkeSBlbmNvZGVk")
	require.NoError(t, err)
	assert.Equal(t, "YWxyZWFkeSBlbmNvZGVk", encoded)
}

func TestEncodeUnsupportedType(t *testing.T) {
	_, err := Encode(map[string]interface{}{"not": "binary"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedResponseType, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "map[string]interface")
}

func TestDecodeInvalidInput(t *testing.T) {
	_, err := Decode("not*base64*at*all")
	assert.Error(t, err)
}
