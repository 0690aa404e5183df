// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pipeline

import (
	"net/http"
	"runtime/debug"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
)

// Stage is one step of the chain. Run returns nil to continue to the next
// stage, or a terminal *Response to stop the chain; the response then flows
// back through the registered exit hooks.
type Stage interface {
	// Name identifies the stage in logs and configuration errors.
	Name() string

	Run(rc *RequestContext) *Response
}

// Handler is the target a route dispatches to after every stage has passed.
type Handler func(rc *RequestContext) *Response

// Chain is the fixed, ordered stage list shared by all routes. It is built
// once at startup and never mutated afterwards.
type Chain struct {
	stages []Stage
	log    *logger.Logger
}

// NewChain builds a Chain running the given stages in order.
func NewChain(log *logger.Logger, stages ...Stage) *Chain {
	return &Chain{stages: stages, log: log}
}

// Append returns a new Chain with extra stages spliced after the existing
// ones, preserving the receiver. Handler modules contribute their stages
// this way.
func (c *Chain) Append(stages ...Stage) *Chain {
	combined := make([]Stage, 0, len(c.stages)+len(stages))
	combined = append(combined, c.stages...)
	combined = append(combined, stages...)
	return &Chain{stages: combined, log: c.log}
}

// StageNames lists the chain's stages in execution order.
func (c *Chain) StageNames() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// Execute runs the chain for one request: each stage in order, then the
// handler. A panic anywhere inside is recovered here, logged with the
// correlation id and stack, and converted to a generic 500; it never
// reaches the transport. Exit hooks observe the final response on every
// path out, the recovered one included.
func (c *Chain) Execute(rc *RequestContext, handler Handler) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			rc.panicked = true

			log := rc.Log
			if log == nil {
				log = c.log
			}
			log.Error().
				Any("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered in request chain")

			resp = Error(http.StatusInternalServerError, "internal server error", rc.RID)
		}

		rc.runExitHooks(resp)
	}()

	for _, stage := range c.stages {
		if resp = stage.Run(rc); resp != nil {
			return resp
		}
	}

	return handler(rc)
}
