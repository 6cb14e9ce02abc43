// Package accesscontrol answers authorization questions for the
// trust-network context: permission checks, relationship-gated data access,
// effective permission sets, and role dashboard configuration.
//
// Layering:
// - application: query use-cases only, this module never writes
// - ports: read projections of users and active relationships
// - adapters: memory and postgres projections plus the HTTP handler
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - All decision tables live in the shared accesspolicy package.
// - The postgres adapter reads tables owned by the relationship registry
//   but never writes them.
// - Every check fails closed: lookup errors deny instead of propagating.
package accesscontrol
