// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Extracts page text from uploaded PDF bytes
//   - EmbeddingService: Generates vector embeddings for chunks and queries
//   - LLMService: Generates grounded answers from assembled prompts
//   - VectorIndex: Per-session vector storage and similarity search
//   - DocumentStore: Per-session document and chunk storage
//   - PostProcessorPipeline: Splits extracted text into chunks
//
// VectorIndex and DocumentStore instances are always session-scoped:
// the session registry creates one of each per session, which is what
// enforces the isolation invariant structurally.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
