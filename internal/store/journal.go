// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

// Journal drivers selectable by configuration.
const (
	JournalDriverOff      = "off"
	JournalDriverPostgres = "postgres"
	JournalDriverSQLite   = "sqlite"
)

// JournalStore persists delivery records. Implementations are called from
// the journal worker only, never from the request path.
type JournalStore interface {
	// Insert writes one delivery record.
	Insert(ctx context.Context, rec models.DeliveryRecord) error

	// Recent returns the latest records, newest first.
	Recent(ctx context.Context, limit int) ([]models.DeliveryRecord, error)

	Close() error
}

// NewJournalStore builds the configured journal driver. The "off" driver
// returns a nil store; callers treat nil as journaling disabled.
func NewJournalStore(ctx context.Context, driver, dsn, sqlitePath string, log *logger.Logger) (JournalStore, error) {
	switch driver {
	case JournalDriverOff, "":
		return nil, nil

	case JournalDriverPostgres:
		db, err := NewConnectPostgres(ctx, dsn, log)
		if err != nil {
			return nil, err
		}
		return NewJournalPostgres(db, log), nil

	case JournalDriverSQLite:
		return NewJournalSQLite(sqlitePath, log)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJournalDriver, driver)
	}
}
