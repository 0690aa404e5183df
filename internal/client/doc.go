// Package client implements the authorization CLI runtime.
//
// It wires the marketplace OAuth adapter, the token store, and the terminal
// wizard into a single process lifecycle: reuse a stored token when it is
// still fresh, refresh it when possible, and fall back to the interactive
// authorization flow otherwise.
package client
