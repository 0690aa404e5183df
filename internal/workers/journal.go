// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/observability"
	"github.com/MKhiriev/go-hook-gate/internal/store"
	"github.com/MKhiriev/go-hook-gate/models"
)

const (
	journalQueueSize    = 1024
	journalWriteTimeout = 5 * time.Second
)

// JournalWriter decouples the request path from journal persistence: the
// dispatcher enqueues records and this worker drains them into the store.
// When the queue is full the record is dropped; a delivery never waits on
// its audit row.
type JournalWriter struct {
	store   store.JournalStore
	queue   chan models.DeliveryRecord
	logger  *logger.Logger
	metrics *observability.Metrics
}

// NewJournalWriter builds the worker. A nil store yields nil: journaling is
// disabled and the dispatcher gets no journal to record into.
func NewJournalWriter(st store.JournalStore, log *logger.Logger, metrics *observability.Metrics) *JournalWriter {
	if st == nil {
		return nil
	}
	return &JournalWriter{
		store:   st,
		queue:   make(chan models.DeliveryRecord, journalQueueSize),
		logger:  log,
		metrics: metrics,
	}
}

// Record enqueues one delivery record without blocking.
func (w *JournalWriter) Record(rec models.DeliveryRecord) {
	select {
	case w.queue <- rec:
	default:
		w.logger.Warn().Str("route", rec.RouteID).Msg("journal queue full, record dropped")
		w.metrics.ObserveJournalError()
	}
}

// Run implements [Worker]. On shutdown the queue is drained before the
// store closes so accepted records are not lost to a clean exit.
func (w *JournalWriter) Run(ctx context.Context) {
	defer func() {
		w.drain()
		if err := w.store.Close(); err != nil {
			w.logger.Error().Err(err).Msg("error closing journal store")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-w.queue:
			w.write(rec)
		}
	}
}

func (w *JournalWriter) write(rec models.DeliveryRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	err := w.store.Insert(ctx, rec)
	if err != nil && errors.Is(err, store.ErrRetryableJournalWrite) {
		err = w.store.Insert(ctx, rec)
	}
	if err != nil {
		w.logger.Error().Err(err).Str("route", rec.RouteID).Msg("error writing delivery record")
		w.metrics.ObserveJournalError()
	}
}

func (w *JournalWriter) drain() {
	for {
		select {
		case rec := <-w.queue:
			w.write(rec)
		default:
			return
		}
	}
}
