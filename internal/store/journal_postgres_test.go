package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
)

func newMockJournal(t *testing.T) (JournalStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := &DB{
		DB:                 conn,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
	return NewJournalPostgres(db, logger.Nop()), mock
}

func sampleRecord() models.DeliveryRecord {
	return models.DeliveryRecord{
		RequestID:  "rid-1",
		RouteID:    "ContactCreate",
		Method:     "POST",
		Path:       "/webhook/ContactCreate",
		Status:     200,
		Replayed:   false,
		Duration:   42 * time.Millisecond,
		ReceivedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestJournalPostgres_Insert(t *testing.T) {
	j, mock := newMockJournal(t)
	rec := sampleRecord()

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO deliveries (request_id,route_id,method,path,status,replayed,duration_ms,received_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)")).
		WithArgs(rec.RequestID, rec.RouteID, rec.Method, rec.Path, rec.Status, rec.Replayed, int64(42), rec.ReceivedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, j.Insert(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalPostgres_InsertRetryableError(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})

	err := j.Insert(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrRetryableJournalWrite)
}

func TestJournalPostgres_InsertNonRetryableError(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.NotNullViolation})

	err := j.Insert(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrRetryableJournalWrite)
}

func TestJournalPostgres_Recent(t *testing.T) {
	j, mock := newMockJournal(t)
	rec := sampleRecord()

	rows := sqlmock.NewRows([]string{"request_id", "route_id", "method", "path", "status", "replayed", "duration_ms", "received_at"}).
		AddRow(rec.RequestID, rec.RouteID, rec.Method, rec.Path, rec.Status, rec.Replayed, int64(42), rec.ReceivedAt)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT request_id, route_id, method, path, status, replayed, duration_ms, received_at FROM deliveries ORDER BY received_at DESC LIMIT 10")).
		WillReturnRows(rows)

	got, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])
}

func TestJournalPostgres_RecentQueryError(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectQuery("SELECT request_id").WillReturnError(errors.New("boom"))

	_, err := j.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestClassifyPgError(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		code string
		want ErrorClassification
	}{
		{pgerrcode.ConnectionFailure, Retryable},
		{pgerrcode.DeadlockDetected, Retryable},
		{pgerrcode.CannotConnectNow, Retryable},
		{pgerrcode.UniqueViolation, NonRetryable},
		{pgerrcode.SyntaxError, NonRetryable},
		{"XX000", NonRetryable},
	}
	for _, tt := range tests {
		got := c.Classify(&pgconn.PgError{Code: tt.code})
		assert.Equal(t, tt.want, got, "code %s", tt.code)
	}

	assert.Equal(t, NonRetryable, c.Classify(nil))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("not a pg error")))
}

func TestNewJournalStore_Factory(t *testing.T) {
	log := logger.Nop()

	j, err := NewJournalStore(context.Background(), JournalDriverOff, "", "", log)
	require.NoError(t, err)
	assert.Nil(t, j)

	j, err = NewJournalStore(context.Background(), "", "", "", log)
	require.NoError(t, err)
	assert.Nil(t, j)

	_, err = NewJournalStore(context.Background(), "mysql", "", "", log)
	assert.ErrorIs(t, err, ErrUnknownJournalDriver)
}
