// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Acquirer: Fetches the configured source locations
//   - Normaliser: Strips markup from a fetched document
//   - PostProcessor: Splits document text into chunks
//   - EmbeddingService: Turns text into vectors
//   - VectorIndexFactory / VectorIndex: Nearest-neighbour search over chunk vectors
//   - IndexStore: Single-location persistence for a built index
//   - LLMService: Generates answers from a rendered prompt
//   - PromptStore: Prompt templates
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
