// Package memory provides in-memory implementations of driven port interfaces.
//
//   - VectorIndex / VectorIndexFactory: exact Euclidean nearest-neighbour search
//   - ConfigStore: map-backed configuration
package memory
