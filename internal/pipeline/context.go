// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pipeline

import (
	"io"
	"net/http"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
)

// ExitHook observes the final response of a request. Hooks registered by
// stages run in LIFO order on chain exit; resp is the response about to be
// written, never nil.
type ExitHook func(resp *Response)

// RequestContext is the per-request record owned by a single in-flight
// delivery. It is created at chain entry and discarded after the response
// is written; nothing in it is shared across requests.
type RequestContext struct {
	// Req is the inbound request. The context/logging stage replaces its
	// context with one carrying the request logger and correlation id.
	Req *http.Request

	// RID is the correlation id, set by the context stage.
	RID string

	// ArrivedAt is the arrival timestamp recorded at context creation.
	ArrivedAt time.Time

	// Log is the request-scoped logger with the correlation id bound.
	// Until the context stage runs it is the dispatcher's base logger.
	Log *logger.Logger

	// RouteID is the id of the matched route, set by the dispatcher.
	RouteID string

	// Replayed marks responses served from the idempotency cache.
	Replayed bool

	body     []byte
	bodyErr  error
	bodyRead bool

	exitHooks []ExitHook
	panicked  bool
}

// NewRequestContext wraps an inbound request for a pass through the chain.
func NewRequestContext(r *http.Request, log *logger.Logger) *RequestContext {
	return &RequestContext{
		Req:       r,
		ArrivedAt: time.Now(),
		Log:       log,
	}
}

// Body returns the complete raw request body. The underlying stream is
// consumed on the first call and every later caller receives the same
// buffered bytes, so signature verification and handlers always observe
// identical content.
func (rc *RequestContext) Body() ([]byte, error) {
	if rc.bodyRead {
		return rc.body, rc.bodyErr
	}
	rc.bodyRead = true

	if rc.Req.Body == nil {
		return nil, nil
	}
	defer rc.Req.Body.Close()

	rc.body, rc.bodyErr = io.ReadAll(rc.Req.Body)
	return rc.body, rc.bodyErr
}

// OnExit registers a hook to run when the chain produces its final
// response. Hooks run in reverse registration order.
func (rc *RequestContext) OnExit(hook ExitHook) {
	rc.exitHooks = append(rc.exitHooks, hook)
}

// Panicked reports whether the final response came from a recovered panic
// instead of a completed stage or handler.
func (rc *RequestContext) Panicked() bool {
	return rc.panicked
}

// runExitHooks fires registered hooks LIFO. A hook failure is contained:
// the response write path must survive whatever a hook does.
func (rc *RequestContext) runExitHooks(resp *Response) {
	for i := len(rc.exitHooks) - 1; i >= 0; i-- {
		hook := rc.exitHooks[i]
		func() {
			defer func() {
				if rec := recover(); rec != nil && rc.Log != nil {
					rc.Log.Error().Any("panic", rec).Msg("exit hook panicked")
				}
			}()
			hook(resp)
		}()
	}
}
