// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/models"
)

// dispatch adapts one route to net/http: wrap the request, run the chain,
// write the buffered response, then feed the observers.
func (h *Handler) dispatch(route registry.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := pipeline.NewRequestContext(r, h.logger)
		rc.RouteID = route.ID

		resp := h.chain.Execute(rc, route.Handler)
		if resp == nil {
			// a handler must terminate with a response
			rc.Log.Error().Str("route", route.ID).Msg("handler returned no response")
			resp = pipeline.Error(http.StatusInternalServerError, "internal server error", rc.RID)
		}

		if rc.RID != "" {
			w.Header().Set(pipeline.RequestIDHeader, rc.RID)
		}
		resp.Write(w)

		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(rc.ArrivedAt)

		h.metrics.ObserveRequest(r.Method, route.ID, status, duration)
		if rc.Replayed {
			h.metrics.ObserveReplay()
		}

		if h.journal != nil {
			h.journal.Record(models.DeliveryRecord{
				RequestID:  rc.RID,
				RouteID:    route.ID,
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     status,
				Replayed:   rc.Replayed,
				Duration:   duration,
				ReceivedAt: rc.ArrivedAt,
			})
		}
	})
}

// requestID mirrors the context stage for requests that never reach the
// chain: honor an inbound correlation id, generate one otherwise.
func (h *Handler) requestID(r *http.Request) string {
	if rid := r.Header.Get(pipeline.RequestIDHeader); rid != "" {
		return rid
	}
	return h.gen.Generate()
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	rid := h.requestID(r)
	h.logger.Debug().Str("rid", rid).Str("method", r.Method).Str("uri", r.RequestURI).Msg("no such route")
	w.Header().Set(pipeline.RequestIDHeader, rid)
	pipeline.Error(http.StatusNotFound, "not found", rid).Write(w)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rid := h.requestID(r)
	w.Header().Set(pipeline.RequestIDHeader, rid)
	pipeline.Error(http.StatusMethodNotAllowed, "method not allowed", rid).Write(w)
}
