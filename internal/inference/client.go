// Package inference talks to the managed AI inference platform. The platform
// is an opaque capability: run model M with parameters P, returning text,
// JSON, or raw binary depending on the model.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/httpx"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/common/metrics"
)

// Client runs a named model with a model-specific payload. The result is
// untyped: a string, decoded JSON (map or slice), or a []byte buffer for
// audio/image models.
type Client interface {
	Run(ctx context.Context, model string, payload map[string]interface{}) (interface{}, error)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *httpx.Client
	logger  logger.Logger
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  httpx.NewClient(timeout),
		logger:  log.With(map[string]interface{}{"component": "inference"}),
	}
}

type runRequest struct {
	Model string                 `json:"model"`
	Input map[string]interface{} `json:"input"`
}

func (c *HTTPClient) Run(ctx context.Context, model string, payload map[string]interface{}) (interface{}, error) {
	body, err := json.Marshal(runRequest{Model: model, Input: payload})
	if err != nil {
		return nil, errors.NewUpstreamInvocationError(model, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/run", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewUpstreamInvocationError(model, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ModelInvocations.WithLabelValues(model, "error").Inc()
		return nil, errors.NewUpstreamInvocationError(model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ModelInvocations.WithLabelValues(model, "error").Inc()
		return nil, errors.NewUpstreamInvocationError(model, fmt.Errorf("status %d", resp.StatusCode))
	}

	metrics.ModelInvocations.WithLabelValues(model, "success").Inc()
	c.logger.Debug("model invocation completed", map[string]interface{}{
		"model":    model,
		"duration": time.Since(start).Milliseconds(),
	})

	return decodeResult(model, resp)
}

// decodeResult maps the upstream content type onto the untyped result the
// extractor expects: JSON bodies are decoded, binary bodies returned as raw
// buffers, everything else as a plain string.
func decodeResult(model string, resp *http.Response) (interface{}, error) {
	contentType := resp.Header.Get("Content-Type")

	switch {
	case strings.Contains(contentType, "application/json"):
		var result interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, errors.NewUpstreamInvocationError(model, fmt.Errorf("decode response: %w", err))
		}
		return result, nil

	case strings.HasPrefix(contentType, "audio/"),
		strings.HasPrefix(contentType, "image/"),
		strings.Contains(contentType, "application/octet-stream"):
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.NewUpstreamInvocationError(model, fmt.Errorf("read binary response: %w", err))
		}
		return data, nil

	default:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.NewUpstreamInvocationError(model, fmt.Errorf("read response: %w", err))
		}
		return string(data), nil
	}
}
