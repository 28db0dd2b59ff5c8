// Package domain defines the core business entities for Scribe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document and its registry metadata
//   - Chunk: The atomic retrievable unit produced by chunking
//   - RetrievedChunk: A chunk returned by similarity search with its score
//   - Source: Attribution for a chunk included in generation context
//   - GroundingDecision: The outcome of the grounding gate
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
