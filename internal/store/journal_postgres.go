// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

const deliveriesTable = "deliveries"

// journalPostgres is the PostgreSQL-backed implementation of [JournalStore].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured tracing of database interactions.
type journalPostgres struct {
	db      *DB
	logger  *logger.Logger
	builder sq.StatementBuilderType
}

// NewJournalPostgres constructs a [JournalStore] backed by the provided
// database connection and logger.
func NewJournalPostgres(db *DB, logger *logger.Logger) JournalStore {
	logger.Debug().Msg("creating postgres delivery journal")
	return &journalPostgres{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert writes one delivery record. A retryable driver error is wrapped so
// the journal worker can requeue the record.
func (j *journalPostgres) Insert(ctx context.Context, rec models.DeliveryRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := j.builder.
		Insert(deliveriesTable).
		Columns("request_id", "route_id", "method", "path", "status", "replayed", "duration_ms", "received_at").
		Values(rec.RequestID, rec.RouteID, rec.Method, rec.Path, rec.Status, rec.Replayed, rec.Duration.Milliseconds(), rec.ReceivedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*journalPostgres.Insert").Msg("error building insert")
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err = j.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*journalPostgres.Insert").
			Str("pg_code", postgresError(err)).Msg("error inserting delivery record")

		if j.db.errorClassificator.Classify(err) == Retryable {
			return fmt.Errorf("%w: %v", ErrRetryableJournalWrite, err)
		}
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	return nil
}

// Recent returns the latest records, newest first.
func (j *journalPostgres) Recent(ctx context.Context, limit int) ([]models.DeliveryRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := j.builder.
		Select("request_id", "route_id", "method", "path", "status", "replayed", "duration_ms", "received_at").
		From(deliveriesTable).
		OrderBy("received_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*journalPostgres.Recent").Msg("error building select")
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*journalPostgres.Recent").Msg("error querying delivery records")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var recs []models.DeliveryRecord
	for rows.Next() {
		var (
			rec        models.DeliveryRecord
			durationMS int64
		)
		if err = rows.Scan(&rec.RequestID, &rec.RouteID, &rec.Method, &rec.Path, &rec.Status, &rec.Replayed, &durationMS, &rec.ReceivedAt); err != nil {
			log.Err(err).Str("func", "*journalPostgres.Recent").Msg("error scanning delivery row")
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
	}

	return recs, nil
}

func (j *journalPostgres) Close() error {
	return j.db.Close()
}
