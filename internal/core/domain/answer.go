package domain

import "unicode/utf8"

// Preview settings for answer sources.
const (
	PreviewLength = 200
	PreviewMarker = "..."
)

// Source names the page a retrieved chunk came from, with a short preview of the chunk.
type Source struct {
	Source         string `json:"source"`
	ContentPreview string `json:"content_preview"`
}

// NewSource builds the citation for a chunk. The preview is the first
// PreviewLength characters of the chunk followed by PreviewMarker.
func NewSource(c Chunk) Source {
	return Source{
		Source:         c.Source,
		ContentPreview: truncateRunes(c.Content, PreviewLength) + PreviewMarker,
	}
}

// Answer is the result of answering one question.
type Answer struct {
	// Question is the question as asked.
	Question string

	// Raw is the generator's unformatted output.
	Raw string

	// Points holds one bullet per line, each starting with "• ".
	Points []string

	// Sources lists the chunks the answer was grounded on, in rank order.
	Sources []Source
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
