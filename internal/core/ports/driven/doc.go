// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - TextExtractor: Extracts plain text from uploaded files
//   - EmbeddingService: Converts text into dense vectors
//   - VectorIndex: Stores vectors with metadata and searches by similarity
//   - LLMService: Generates text from an assembled context
//   - DocumentRegistry: Durable catalog of ingested documents
//
// The vector index and the backends behind EmbeddingService and
// LLMService are external services; their internals are out of scope
// and the core must stay correct under caller-level retries, which is
// why upsert and delete are idempotent.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
