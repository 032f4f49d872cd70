package domain

import "time"

// RawDocument is the unprocessed response body fetched for one source location.
type RawDocument struct {
	// URI is the location the content was fetched from.
	URI string

	// MIMEType is the media type reported by the server, without parameters.
	MIMEType string

	// Content is the response body.
	Content []byte

	// FetchedAt records when the body was received.
	FetchedAt time.Time

	// Metadata holds transport details (status code, final URL after redirects).
	Metadata map[string]any
}
