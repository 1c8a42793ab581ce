// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BlobStore: Content-addressable binary storage
//   - ReferenceStore: Reference and asset persistence
//   - AnchorStore: Anchor persistence with composite transactional creation
//   - NoteStore: Note persistence
//   - PaneStore: Pane resume-record persistence (a cache, not a source of truth)
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
