// Package datasharing moves farm data across active business relationships
// inside the trust-network context: sharing records with a visibility
// snapshot, relationship-gated reads and writes, and field-manager sync.
//
// Layering:
// - domain: the shared record entity plus visibility snapshot rules
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence, graph reads, notifications
// - adapters: concrete memory, postgres, events, and HTTP implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Visibility is captured at share time; access checks reverify that the
//   relationship behind an entry is still active before honoring it.
// - The postgres adapter reads registry-owned tables but only writes its
//   own shared_records and outbox rows.
package datasharing
