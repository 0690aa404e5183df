package store

import "errors"

// Low-level database operation errors. These are returned (or wrapped) by
// journal methods when a SQL-level operation fails. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRows is returned when scanning column values during
	// result-set iteration fails.
	ErrScanningRows = errors.New("failed to scan delivery rows")

	// ErrRetryableJournalWrite wraps a driver error classified as
	// transient. The journal worker requeues the record once.
	ErrRetryableJournalWrite = errors.New("retryable journal write failure")

	// ErrUnknownJournalDriver is returned by the journal factory for a
	// driver name outside the supported set.
	ErrUnknownJournalDriver = errors.New("unknown journal driver")
)
