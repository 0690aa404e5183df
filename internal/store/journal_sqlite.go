// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

// sqlite keeps the whole schema in one statement, no migration tooling for
// the single-file deployments this driver targets.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS deliveries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	route_id TEXT NOT NULL,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	status INTEGER NOT NULL,
	replayed INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL,
	received_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_received_at ON deliveries (received_at);`

type journalSQLite struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewJournalSQLite opens (creating if needed) a file-backed journal. An
// empty path degrades to an in-memory journal that lives for the process.
func NewJournalSQLite(path string, log *logger.Logger) (JournalStore, error) {
	if path == "" {
		path = ":memory:"
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite journal: %w", err)
	}

	if _, err = db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("sqlite delivery journal opened")
	return &journalSQLite{db: db, logger: log}, nil
}

func (j *journalSQLite) Insert(ctx context.Context, rec models.DeliveryRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO deliveries (request_id, route_id, method, path, status, replayed, duration_ms, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.RequestID, rec.RouteID, rec.Method, rec.Path, rec.Status, rec.Replayed, rec.Duration.Milliseconds(), rec.ReceivedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	return nil
}

func (j *journalSQLite) Recent(ctx context.Context, limit int) ([]models.DeliveryRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT request_id, route_id, method, path, status, replayed, duration_ms, received_at
		 FROM deliveries ORDER BY received_at DESC, id DESC LIMIT ?;`, limit)
	if err != nil {
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

func (j *journalSQLite) Close() error {
	return j.db.Close()
}
