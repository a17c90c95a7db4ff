// Package envelope is the HTTP surface of the gateway: CORS handling, the
// capability descriptor, and the uniform response envelope every action
// outcome is wrapped in.
package envelope

import (
	"time"

	"aldalil-gateway/internal/common/errors"
)

// Envelope is the wire form of every action response. Exactly one of Result
// and Error is populated.
type Envelope struct {
	Success          bool        `json:"success"`
	Result           interface{} `json:"result,omitempty"`
	Error            string      `json:"error,omitempty"`
	Method           string      `json:"method,omitempty"`
	Model            string      `json:"model,omitempty"`
	Timestamp        int64       `json:"timestamp"`
	AudioFormat      string      `json:"audioFormat,omitempty"`
	ImageFormat      string      `json:"imageFormat,omitempty"`
	AvailableActions []string    `json:"availableActions,omitempty"`
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Ok builds a success envelope for an action result.
func Ok(action, model string, result interface{}, extra map[string]string) Envelope {
	return Envelope{
		Success:     true,
		Result:      result,
		Method:      action,
		Model:       model,
		Timestamp:   time.Now().UnixMilli(),
		AudioFormat: extra["audioFormat"],
		ImageFormat: extra["imageFormat"],
	}
}

// Fail builds a failure envelope. Unknown-action failures carry the full
// action vocabulary so the caller can self-correct.
func Fail(action string, err error, availableActions []string) Envelope {
	env := Envelope{
		Success:   false,
		Error:     err.Error(),
		Method:    action,
		Timestamp: time.Now().UnixMilli(),
	}
	if errors.CodeOf(err) == errors.ErrCodeUnknownAction {
		env.AvailableActions = availableActions
	}
	return env
}
