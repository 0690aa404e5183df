// Package registry implements handler-module loading and the route table.
//
// A handler module is a statically registered contributor of routes, extra
// pipeline stages, and lifecycle hooks. The Loader resolves an ordered list
// of module specifiers (exact names or "ns.*" group wildcards) against the
// registered set and merges the contributions; any unresolvable specifier
// or duplicate route id aborts startup.
//
// Route enablement is resolved once, also at startup, from an optional JSON
// document. A route disabled there is excluded from the dispatch table
// entirely, together with all its path aliases.
package registry
