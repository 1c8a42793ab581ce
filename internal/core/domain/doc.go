// Package domain defines the core business entities for Stroma.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Reference: A logical source document (PDF, web page, image)
//   - Asset: The stored binary payload behind a Reference
//   - Anchor: A located annotation (text selection, point, figure region)
//   - Note: Rich content bound to a Reference or a specific Anchor
//   - Pane types: Transient reader-pane state and its resume record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
