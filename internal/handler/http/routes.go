// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router from the dispatch table. Disabled routes were
// already excluded from the table, so they fall through to the 404 handler
// like any unknown path.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// liveness probe outside the chain: no signature, no idempotency, no
	// enablement. Infrastructure must be able to probe a misconfigured
	// gateway.
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler())
	}

	for _, route := range h.table.Routes {
		handler := h.dispatch(route)
		router.Method(route.Method, route.Path, handler)
		for _, alias := range route.Aliases {
			router.Method(route.Method, alias, handler)
		}
	}

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.methodNotAllowed)

	return router
}
