// Package relationshipregistry owns the lifecycle of business relationships
// and field-manager invitations inside the trust-network context.
//
// Layering:
// - domain: entities, transition tables, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence, user lookup, tokens, notifications
// - adapters: concrete memory, postgres, events, and HTTP implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the trust-network context.
// - Cross-module reads go through ports, wired at the composition root.
// - User management is an external collaborator; this module only reads
//   users, except for the transactional create on invitation acceptance.
package relationshipregistry
