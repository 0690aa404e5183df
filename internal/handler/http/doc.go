// Package http implements the HTTP transport layer of the gateway.
//
// It builds the chi router from the merged dispatch table and adapts each
// route to the stage chain: correlation, access logging, signature
// verification and idempotency run as chain stages before a request reaches
// its handler. The package also hosts the always-on liveness probe and the
// metrics endpoint, both outside the chain.
package http
