// Package registry provides the pure domain layer for the gift registry:
// the Item entity, the ordered Collection that owns a set of items, the
// Cart membership set, and the Store port the persistence adapters
// implement.
//
// The package follows the same layering as the rest of the codebase:
//   - No infrastructure imports; persistence is reached through the Store
//     interface and an asynchronous write queue.
//   - Every Item and every Collection owns a typed pubsub broker, so views
//     receive changed/destroyed and added/reset events with concrete
//     payloads instead of a generic dispatch key.
//   - In-memory state is the source of truth for the session; storage is a
//     best-effort durability side-channel. Failed writes are logged and
//     surfaced on the failure broker, never propagated to callers.
package registry
