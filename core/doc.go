// Package core contains the app account domain contracts, entities, and
// orchestration logic. Storage, transport, and command adapters depend on this
// package; core must not depend on them.
package core
