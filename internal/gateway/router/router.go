// Package router maps inbound actions to model invocations and normalizes
// the results. It owns validation, caching, and failure recovery; the
// envelope layer above it only wraps what comes back.
package router

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/common/metrics"
	"aldalil-gateway/internal/gateway/cache"
	"aldalil-gateway/internal/gateway/lesson"
	"aldalil-gateway/internal/gateway/quality"
	"aldalil-gateway/internal/gateway/retrier"
	"aldalil-gateway/internal/inference"
)

// Request is one decoded action request.
type Request struct {
	Action string
	Params map[string]interface{}
}

// Result is a normalized action outcome. Extra carries envelope-level
// annotations such as audioFormat.
type Result struct {
	Value interface{}
	Model string
	Extra map[string]string
}

type handlerFunc func(ctx context.Context, r *Router, params map[string]interface{}) (Result, error)

type actionSpec struct {
	required  []string
	model     string
	cacheable bool
	handle    handlerFunc
}

// Options tunes the router's retry and quality behavior.
type Options struct {
	Primary retrier.Policy
	Meaning retrier.Policy
	Rules   quality.Rules
}

// DefaultOptions mirrors the reference gateway: three immediate attempts for
// both loops and the stock quality thresholds.
func DefaultOptions() Options {
	return Options{
		Primary: retrier.Policy{MaxAttempts: 3},
		Meaning: retrier.Policy{MaxAttempts: 3},
		Rules:   quality.DefaultRules(),
	}
}

// Router dispatches actions against the inference client, consulting the
// response cache first. Concurrent identical cache misses share a single
// upstream invocation.
type Router struct {
	client  inference.Client
	store   cache.Store
	lessons *lesson.Generator
	log     logger.Logger
	opts    Options
	flight  singleflight.Group
	actions map[string]actionSpec
}

func New(client inference.Client, store cache.Store, log logger.Logger, opts Options) *Router {
	r := &Router{
		client:  client,
		store:   store,
		lessons: lesson.NewGenerator(client, log),
		log:     log,
		opts:    opts,
	}
	r.actions = buildActionTable()
	return r
}

// Actions returns the supported action names, sorted.
func (r *Router) Actions() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch validates, resolves through the cache, and runs one action.
// Handler panics are recovered and surfaced as upstream invocation errors so
// a misbehaving model response can never take the server down.
func (r *Router) Dispatch(ctx context.Context, req Request) (result Result, err error) {
	spec, ok := r.actions[req.Action]
	if !ok {
		return Result{}, errors.NewUnknownActionError(req.Action)
	}

	for _, field := range spec.required {
		if !hasParam(req.Params, field) {
			return Result{}, errors.NewValidationError(field)
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("action handler panicked", map[string]interface{}{
				"action": req.Action,
				"panic":  fmt.Sprint(rec),
			})
			err = errors.NewUpstreamInvocationError(spec.model, fmt.Errorf("handler panic: %v", rec))
		}
	}()

	start := time.Now()
	metrics.ActionsProcessed.WithLabelValues(req.Action).Inc()
	defer func() {
		metrics.ActionDuration.WithLabelValues(req.Action).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ActionsFailed.WithLabelValues(req.Action, string(errors.CodeOf(err))).Inc()
		}
	}()

	if !spec.cacheable || r.store == nil {
		return spec.handle(ctx, r, req.Params)
	}

	key := cache.Fingerprint(req.Action, req.Params)
	if entry, found, cacheErr := r.store.Get(ctx, key); cacheErr != nil {
		r.log.Warn("cache read failed", map[string]interface{}{"action": req.Action, "error": cacheErr.Error()})
	} else if found {
		r.log.Debug("cache hit", map[string]interface{}{"action": req.Action})
		return Result{Value: entry.Result, Model: entry.Model, Extra: entry.Extra}, nil
	}

	shared, err, _ := r.flight.Do(key, func() (interface{}, error) {
		res, handleErr := spec.handle(ctx, r, req.Params)
		if handleErr != nil {
			return Result{}, handleErr
		}
		entry := cache.Entry{Result: res.Value, Model: res.Model, Extra: res.Extra}
		if putErr := r.store.Put(ctx, key, entry); putErr != nil {
			r.log.Warn("cache write failed", map[string]interface{}{"action": req.Action, "error": putErr.Error()})
		}
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	return shared.(Result), nil
}

func hasParam(params map[string]interface{}, field string) bool {
	value, ok := params[field]
	if !ok || value == nil {
		return false
	}
	if s, isString := value.(string); isString {
		return s != ""
	}
	return true
}

func stringParam(params map[string]interface{}, field, fallback string) string {
	if s, ok := params[field].(string); ok && s != "" {
		return s
	}
	return fallback
}
