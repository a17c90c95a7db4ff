// Package extract normalizes the heterogeneous result shapes returned by the
// inference platform into a single text payload or byte buffer.
package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"aldalil-gateway/internal/common/errors"
)

// Kind tags the runtime shape of a raw model result. Classifying up front
// keeps the "none of the above" fallback an explicit, enumerable case instead
// of the tail of a chain of type probes.
type Kind int

const (
	KindString Kind = iota
	KindObject
	KindFragments
	KindBinary
	KindStream
	KindUnknown
)

// Placeholder is returned when no text can be extracted at all, so downstream
// stages always have something to evaluate.
const Placeholder = "[unextractable model response]"

// textFields is the ordered list of field names probed on object results.
var textFields = []string{
	"text", "result", "response", "content", "message",
	"translated_text", "translation",
}

// Classify reports the shape of a raw result.
func Classify(raw interface{}) Kind {
	switch v := raw.(type) {
	case string:
		return KindString
	case []byte:
		return KindBinary
	case io.Reader:
		return KindStream
	case []interface{}:
		if isFragmentArray(v) {
			return KindFragments
		}
		return KindUnknown
	case map[string]interface{}:
		return KindObject
	default:
		return KindUnknown
	}
}

func isFragmentArray(items []interface{}) bool {
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			if _, ok := obj["contentItem"]; ok {
				return true
			}
		}
	}
	return false
}

// Text extracts the single canonical text payload from a raw result. It never
// fails: the worst case is a non-empty placeholder.
func Text(raw interface{}) string {
	switch Classify(raw) {
	case KindString:
		return strings.TrimSpace(raw.(string))

	case KindFragments:
		if text := fragmentText(raw.([]interface{})); text != "" {
			return text
		}
		return stringify(raw)

	case KindObject:
		obj := raw.(map[string]interface{})
		if text := knownFieldText(obj); text != "" {
			return text
		}
		if text := firstStringValue(obj); text != "" {
			return text
		}
		return stringify(obj)

	default:
		return stringify(raw)
	}
}

// fragmentText scans a tagged fragment array for the first fragment exposing
// a nested text field.
func fragmentText(items []interface{}) string {
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		fragment, ok := obj["contentItem"].(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := fragment["text"].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return ""
}

func knownFieldText(obj map[string]interface{}) string {
	for _, field := range textFields {
		if text, ok := obj[field].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		// One level of nesting is common: {result: {response: "..."}}
		if nested, ok := obj[field].(map[string]interface{}); ok {
			if text := knownFieldText(nested); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstStringValue walks the object in sorted key order and returns the first
// non-empty string found, recursing one level into nested objects.
func firstStringValue(obj map[string]interface{}) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case map[string]interface{}:
			if text := firstStringValue(v); text != "" {
				return text
			}
		}
	}
	return ""
}

func stringify(raw interface{}) string {
	data, err := json.Marshal(raw)
	if err != nil || len(data) == 0 || string(data) == "null" {
		return Placeholder
	}
	return string(data)
}

// Binary extracts a byte buffer from a raw result. Readers are drained and
// concatenated; already-encoded strings pass straight through to the codec.
// Anything else fails with an unsupported-response-type error naming the
// offending Go type, so audio/image actions never silently return empty
// payloads.
func Binary(raw interface{}) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, errors.NewUpstreamInvocationError("stream", err)
		}
		return data, nil
	default:
		return nil, errors.NewUnsupportedResponseTypeError(fmt.Sprintf("%T", raw))
	}
}
