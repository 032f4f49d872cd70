package domain

// Document is the plain-text rendition of one fetched page.
type Document struct {
	// ID uniquely identifies this document within an index build.
	ID string

	// URI is the source location. It is what answers cite.
	URI string

	// Title is taken from the page's <title> when present.
	Title string

	// Content is the text left after markup has been stripped.
	Content string

	// Metadata holds normaliser-specific data.
	Metadata map[string]any
}

// Chunk is a bounded window of a document's text and the unit of retrieval.
type Chunk struct {
	// ID uniquely identifies this chunk.
	ID string

	// DocumentID references the parent document.
	DocumentID string

	// Source is the location of the parent document.
	Source string

	// Content is the chunk text.
	Content string

	// Position is the chunk's index within its document, starting at 0.
	Position int

	// Embedding is the vector computed for Content. Nil until embedded.
	Embedding []float32
}
