package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
)

func TestHTTPClient_Run_JSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ai/run", r.URL.Path)

		var req runRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, ModelChat, req.Model)
		assert.NotEmpty(t, req.Input["messages"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "hello there"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 5*time.Second, logger.NewTestLogger(t))
	result, err := client.Run(context.Background(), ModelChat, ChatPayload("", "hi", 0, 0))
	require.NoError(t, err)

	obj, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello there", obj["response"])
}

func TestHTTPClient_Run_BinaryResponse(t *testing.T) {
	audio := []byte{0x52, 0x49, 0x46, 0x46, 0x00, 0x01}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(audio)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 5*time.Second, logger.NewTestLogger(t))
	result, err := client.Run(context.Background(), ModelSpeech, SpeechPayload("hello", "en"))
	require.NoError(t, err)
	assert.Equal(t, audio, result)
}

func TestHTTPClient_Run_AuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", 5*time.Second, logger.NewTestLogger(t))
	_, err := client.Run(context.Background(), ModelChat, ChatPayload("", "hi", 0, 0))
	require.NoError(t, err)
}

func TestHTTPClient_Run_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 5*time.Second, logger.NewTestLogger(t))
	_, err := client.Run(context.Background(), ModelChat, ChatPayload("", "hi", 0, 0))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUpstreamInvocation, errors.CodeOf(err))
	assert.Contains(t, err.Error(), ModelChat)
}

func TestChatOrInputPayload(t *testing.T) {
	flat := ChatOrInputPayload(ModelChatLarge, "hello")
	assert.Equal(t, "hello", flat["input"])
	assert.NotContains(t, flat, "messages")

	chat := ChatOrInputPayload(ModelChat, "hello")
	assert.Contains(t, chat, "messages")
}
