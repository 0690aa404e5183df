// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Run blocks until ctx is cancelled; the aggregate launches each worker on
// its own goroutine.
type Worker interface {
	Run(ctx context.Context)
}
