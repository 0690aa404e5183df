// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pipeline

import (
	"github.com/MKhiriev/go-hook-gate/internal/idempotency"
)

// ReplayedHeader marks responses served from the idempotency cache instead
// of a fresh handler execution.
const ReplayedHeader = "X-Idempotent-Replayed"

// IdempotencyStage suppresses duplicate deliveries. The deduplication key
// is the first present non-empty value among the configured headers;
// requests carrying no key pass through undeduplicated.
type IdempotencyStage struct {
	cache   *idempotency.Cache // nil when the stage is disabled
	headers []string
}

// NewIdempotencyStage builds the stage over an injected cache. A nil cache
// disables deduplication entirely.
func NewIdempotencyStage(cache *idempotency.Cache, headers []string) *IdempotencyStage {
	return &IdempotencyStage{cache: cache, headers: headers}
}

// Enabled reports whether the stage deduplicates at all.
func (s *IdempotencyStage) Enabled() bool { return s.cache != nil }

// Name implements [Stage].
func (s *IdempotencyStage) Name() string { return "idempotency" }

// Run implements [Stage].
//
// On a replay the cached response is returned with the replay marker and
// the handler never runs. On a fresh key the stage reserves it and defers
// the outcome to an exit hook: a completed response is committed for the
// TTL window, a panic releases the reservation so a retried delivery
// executes the handler again.
func (s *IdempotencyStage) Run(rc *RequestContext) *Response {
	if s.cache == nil {
		return nil
	}

	key := s.extractKey(rc)
	if key == "" {
		return nil
	}

	outcome, cached := s.cache.Reserve(key)
	if outcome == idempotency.OutcomeReplay {
		rc.Replayed = true
		rc.Log.Info().Str("key", key).Msg("duplicate delivery replayed from cache")

		resp := &Response{
			Status:      cached.Status,
			ContentType: cached.ContentType,
			Body:        cached.Body,
		}
		resp.Header().Set(ReplayedHeader, "true")
		return resp
	}

	rc.OnExit(func(resp *Response) {
		if rc.Panicked() || resp == nil {
			s.cache.Release(key)
			return
		}

		s.cache.Commit(key, &idempotency.CachedResponse{
			Status:      resp.Status,
			ContentType: resp.ContentType,
			Body:        resp.Body,
		})
	})

	return nil
}

// extractKey scans the configured headers in order; the first present
// non-empty value wins.
func (s *IdempotencyStage) extractKey(rc *RequestContext) string {
	for _, name := range s.headers {
		if v := rc.Req.Header.Get(name); v != "" {
			return v
		}
	}
	return ""
}
