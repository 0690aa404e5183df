// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import (
	"context"

	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
)

// Route is one entry a handler module contributes to the dispatch table.
type Route struct {
	// ID uniquely identifies the route across all loaded modules. A
	// duplicate ID is a fatal startup error; the enablement document keys
	// on this value.
	ID string

	Method string
	Path   string

	// Aliases are additional paths serving the same handler under the same
	// ID and the same enablement decision. An alias never mints a second
	// route id.
	Aliases []string

	Handler pipeline.Handler
}

// Module is the capability interface every handler module implements.
// Modules are stateless contributors: the loader owns the merged route set
// and modules are never consulted again after startup.
type Module interface {
	// Name is the module specifier, e.g. "events.contacts" or "ops.health".
	Name() string

	// Routes lists the routes the module contributes. An empty list is
	// legal: a module may exist only for its stages or lifecycle hooks.
	Routes() []Route

	// Stages lists extra pipeline stages the module splices after the
	// built-in chain, in order. Most modules return nil.
	Stages() []pipeline.Stage

	// Start runs once before the server begins accepting traffic, in load
	// order. A failed Start is a fatal startup error.
	Start(ctx context.Context) error

	// Stop runs once at shutdown, in reverse load order.
	Stop(ctx context.Context) error
}

// BaseModule is a zero-value embeddable providing no-op lifecycle hooks and
// no extra stages, so simple route-only modules stay short.
type BaseModule struct{}

// Stages implements [Module].
func (BaseModule) Stages() []pipeline.Stage { return nil }

// Start implements [Module].
func (BaseModule) Start(context.Context) error { return nil }

// Stop implements [Module].
func (BaseModule) Stop(context.Context) error { return nil }
