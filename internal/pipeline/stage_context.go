// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pipeline

import (
	"context"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/utils"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the correlation id. An inbound value is honored
// so a sender can correlate its own delivery attempts; otherwise a fresh id
// is generated.
const RequestIDHeader = "X-Request-Id"

// ContextStage assigns the correlation id, binds the request-scoped logger,
// and logs the outcome of every delivery on chain exit.
type ContextStage struct {
	log *logger.Logger
	gen *utils.UUIDGenerator
}

// NewContextStage constructs the stage. log is the parent every request
// logger derives from.
func NewContextStage(log *logger.Logger) *ContextStage {
	return &ContextStage{log: log, gen: utils.NewUUIDGenerator()}
}

// Name implements [Stage].
func (s *ContextStage) Name() string { return "context" }

// Run implements [Stage]. It never terminates the chain.
func (s *ContextStage) Run(rc *RequestContext) *Response {
	rid := rc.Req.Header.Get(RequestIDHeader)
	if rid == "" {
		rid = s.gen.Generate()
	}
	rc.RID = rid

	log := s.log.GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("rid", rid)
	})
	rc.Log = log

	// downstream consumers outside the chain (journal, handlers spawning
	// work) read the rid and logger from the request context
	ctx := context.WithValue(rc.Req.Context(), utils.RequestIDCtxKey, rid)
	rc.Req = rc.Req.WithContext(log.WithContext(ctx))

	uri := rc.Req.RequestURI
	method := rc.Req.Method

	log.Debug().Str("method", method).Str("uri", uri).Msg("-->")

	rc.OnExit(func(resp *Response) {
		status := 0
		size := 0
		if resp != nil {
			status = resp.Status
			size = len(resp.Body)
		}

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", status).
			Dur("duration", time.Since(rc.ArrivedAt)).
			Int("size", size).
			Send()
	})

	return nil
}
