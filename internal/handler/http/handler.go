// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/observability"
	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/utils"
	"github.com/MKhiriev/go-hook-gate/models"
)

// DeliveryJournal receives one record per finished delivery. Record must
// not block: implementations enqueue and a background worker persists.
type DeliveryJournal interface {
	Record(rec models.DeliveryRecord)
}

// Handler is the HTTP dispatcher. It owns the chi router built from the
// dispatch table and runs every matched request through the stage chain.
type Handler struct {
	chain   *pipeline.Chain
	table   *registry.Table
	metrics *observability.Metrics // nil disables observation
	journal DeliveryJournal        // nil disables the journal

	gen    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewHandler assembles the dispatcher from the built chain and the final
// dispatch table.
func NewHandler(chain *pipeline.Chain, table *registry.Table, metrics *observability.Metrics, journal DeliveryJournal, logger *logger.Logger) *Handler {
	logger.Info().
		Int("routes", len(table.Routes)).
		Strs("stages", chain.StageNames()).
		Msg("http handler created")

	return &Handler{
		chain:   chain,
		table:   table,
		metrics: metrics,
		journal: journal,
		gen:     utils.NewUUIDGenerator(),
		logger:  logger,
	}
}
