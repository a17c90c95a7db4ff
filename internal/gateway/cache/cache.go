// Package cache stores normalized action results for a bounded TTL so
// repeated identical requests skip the upstream model entirely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Entry is the cached form of a completed action result.
type Entry struct {
	Result interface{} `json:"result"`
	Model  string      `json:"model"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Stats describes the current state of a backend.
type Stats struct {
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
	TTL     time.Duration `json:"ttl"`
}

// Store is the backend contract. Get returns (entry, true) only while the
// entry is still live; expired entries behave as absent.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Fingerprint derives a deterministic cache key from an action name and its
// parameters. Parameter maps are serialized with sorted keys so two requests
// that differ only in JSON field order share a key.
func Fingerprint(action string, params map[string]interface{}) string {
	return action + ":" + canonicalJSON(params)
}

func canonicalJSON(value interface{}) string {
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf("%q:%s", k, canonicalJSON(v[k]))
		}
		return out + "}"
	case []interface{}:
		out := "["
		for i, item := range v {
			if i > 0 {
				out += ","
			}
			out += canonicalJSON(item)
		}
		return out + "]"
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%q", fmt.Sprint(v))
		}
		return string(encoded)
	}
}
