// Package web fetches the pages that make up the corpus.
//
// Fetches run concurrently under a bounded worker count and a shared
// token-bucket limiter, and every request carries the same User-Agent.
// Results come back in the order the locations were given, whatever order
// the responses arrive in. A location that cannot be fetched is dropped
// with a warning; only an empty result is an error.
package web
