// Package core provides the foundational domain types and contracts used by
// game-strategy-ai. It defines:
//
//   - Sessions (short lived interaction contexts with sliding expiration)
//   - Strategies and Outcomes (immutable records of advice and its result)
//   - UserMemory (per user, per game learning state and recommendations)
//   - Store contracts for the session registry and the memory store
//
// Concrete registries, stores and snapshot backends live in sibling packages
// so that callers depend on the small interfaces declared here.
package core
