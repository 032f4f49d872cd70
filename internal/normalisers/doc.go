// Package normalisers provides implementations of the Normaliser interface
// for the document formats a website serves. Each normaliser knows how to
// extract text content from a specific MIME type.
//
// Normalisers are registered with a Registry at startup.
package normalisers
