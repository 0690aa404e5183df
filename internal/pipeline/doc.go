// Package pipeline implements the ordered request-processing chain every
// webhook delivery passes through before reaching its handler.
//
// The chain is a flat list of stages consumed by a dispatch loop. A stage
// returns nil to pass the request on, or a terminal *Response to stop the
// chain; there is no nested wrapping and no hidden control flow. The fixed
// stage order is: correlation/logging, signature verification, idempotency
// deduplication, then any stages contributed by handler modules, then the
// route handler itself.
//
// Stages may register exit hooks on the RequestContext. Hooks run in LIFO
// order when the chain produces its final response, whatever path produced
// it, including a recovered panic. The logging stage uses an exit hook to
// record the outcome; the idempotency stage uses one to commit or release
// its reservation.
package pipeline
