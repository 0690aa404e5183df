// Package server wires and runs the application's HTTP transport.
//
// It owns the process lifecycle: handler module start hooks, background
// workers, signal handling, and graceful shutdown in reverse start order.
package server
