package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.ChunkSize() != 1000 {
			t.Errorf("expected chunkSize 1000, got %d", p.ChunkSize())
		}
		if p.Overlap() != 200 {
			t.Errorf("expected overlap 200, got %d", p.Overlap())
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.Overlap() >= p.ChunkSize() {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.ChunkSize())
		}
		if p.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.Overlap())
		}
	})

	t.Run("custom separators always end with characters", func(t *testing.T) {
		p := New(WithSeparators("|"))
		if len(p.separators) != 2 || p.separators[1] != "" {
			t.Errorf("unexpected separators %q", p.separators)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", New().Name())
	}
}

func TestProcess_ShortDocumentIsOneChunk(t *testing.T) {
	doc := &domain.Document{ID: "doc-1", URI: "https://example.org/admissions", Content: "Admissions open in June."}

	chunks, err := New().Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Content != doc.Content {
		t.Errorf("unexpected content %q", c.Content)
	}
	if c.DocumentID != "doc-1" || c.Source != doc.URI || c.Position != 0 || c.ID == "" {
		t.Errorf("unexpected chunk fields %+v", c)
	}
}

func TestProcess_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "  \n\n\t"} {
		chunks, err := New().Process(context.Background(), &domain.Document{Content: content}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("expected no chunks for %q, got %d", content, len(chunks))
		}
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{Content: "x"}, nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestProcess_PositionsAreSequential(t *testing.T) {
	doc := &domain.Document{ID: "d", Content: words(300)}

	chunks, err := New(WithChunkSize(100), WithOverlap(20)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	seen := make(map[string]bool)
	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
		if seen[c.ID] {
			t.Errorf("duplicate chunk id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestSplit_Paragraphs(t *testing.T) {
	p := New(WithChunkSize(12), WithOverlap(0))

	got := p.Split("Para one.\n\nPara two.")

	assertStrings(t, []string{"Para one.", "Para two."}, got)
}

func TestSplit_Sentences(t *testing.T) {
	p := New(WithChunkSize(20), WithOverlap(0))

	got := p.Split("Alpha beta. Gamma delta. Epsilon zeta.")

	assertStrings(t, []string{"Alpha beta.", "Gamma delta.", "Epsilon zeta."}, got)
}

func TestSplit_Characters(t *testing.T) {
	p := New(WithChunkSize(4), WithOverlap(1))

	got := p.Split("abcdefghij")

	assertStrings(t, []string{"abcd", "defg", "ghij"}, got)
}

func TestSplit_PrefersCoarsestBoundary(t *testing.T) {
	p := New(WithChunkSize(30), WithOverlap(0))
	text := "First paragraph is short.\n\nSecond paragraph. It has two sentences."

	got := p.Split(text)

	assertStrings(t, []string{
		"First paragraph is short.",
		"Second paragraph.",
		"It has two sentences.",
	}, got)
}

func TestSplit_WordOverlap(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	got := p.Split(words(100))

	if len(got) < 2 {
		t.Fatalf("expected several chunks, got %d", len(got))
	}
	if !strings.HasPrefix(got[0], "w0000 ") || !strings.HasSuffix(got[0], "w0015") {
		t.Errorf("unexpected first chunk %q", got[0])
	}
	if !strings.HasPrefix(got[1], "w0013 w0014 w0015 w0016") {
		t.Errorf("second chunk should repeat the tail of the first, got %q", got[1])
	}

	for i := 1; i < len(got); i++ {
		prevWords := strings.Fields(got[i-1])
		tail := strings.Join(prevWords[len(prevWords)-3:], " ")
		if !strings.HasPrefix(got[i], tail) {
			t.Errorf("chunk %d does not start with %q: %q", i, tail, got[i])
		}
	}
}

func TestSplit_ChunksNeverExceedSize(t *testing.T) {
	texts := []string{
		words(500),
		strings.Repeat("Sentence number here. ", 200),
		strings.Repeat("Paragraph text that goes on.\n\n", 80) + strings.Repeat("x", 2500),
		strings.Repeat("é", 3100),
	}

	for _, size := range []int{50, 200, 1000} {
		p := New(WithChunkSize(size), WithOverlap(size/5))
		for _, text := range texts {
			for _, c := range p.Split(text) {
				if n := utf8.RuneCountInString(c); n > size {
					t.Errorf("chunk of %d characters exceeds %d", n, size)
				}
				if strings.TrimSpace(c) == "" {
					t.Error("empty chunk produced")
				}
			}
		}
	}
}

func TestSplit_CoversAllText(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(0))
	text := words(80)

	joined := strings.Join(p.Split(text), " ")

	if joined != text {
		t.Errorf("text not preserved without overlap:\n%q\n%q", joined, text)
	}
}

func TestSplit_OverlapWithinLongParagraph(t *testing.T) {
	const size, overlap = 100, 20
	p := New(WithChunkSize(size), WithOverlap(overlap))
	text := "Intro paragraph.\n\n" + words(60) + "\n\nClosing paragraph."

	got := p.Split(text)

	if len(got) < 5 {
		t.Fatalf("expected the long paragraph to split into several chunks, got %q", got)
	}
	first, last := got[0], got[len(got)-1]
	if first != "Intro paragraph." || last != "Closing paragraph." {
		t.Fatalf("short paragraphs should stay whole, got first %q last %q", first, last)
	}

	// Consecutive pieces of the long paragraph share a bounded tail.
	for i := 2; i < len(got)-1; i++ {
		shared := sharedWords(got[i-1], got[i])
		if shared == "" {
			t.Errorf("chunks %d and %d share no overlap", i-1, i)
		}
		if n := len([]rune(shared)); n > overlap {
			t.Errorf("chunks %d and %d overlap by %d characters, max %d", i-1, i, n, overlap)
		}
	}

	// Paragraphs merged separately carry nothing across their boundary.
	if shared := sharedWords(got[0], got[1]); shared != "" {
		t.Errorf("intro overlaps the long paragraph: %q", shared)
	}
	if shared := sharedWords(got[len(got)-2], last); shared != "" {
		t.Errorf("long paragraph overlaps the closing one: %q", shared)
	}
}

// sharedWords returns the longest run of trailing words of prev that
// starts next.
func sharedWords(prev, next string) string {
	pw, nw := strings.Fields(prev), strings.Fields(next)
	for k := min(len(pw), len(nw)); k > 0; k-- {
		if strings.Join(pw[len(pw)-k:], " ") == strings.Join(nw[:k], " ") {
			return strings.Join(nw[:k], " ")
		}
	}
	return ""
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%04d", i)
	}
	return strings.Join(parts, " ")
}

func assertStrings(t *testing.T, want, got []string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d chunks %q, got %d %q", len(want), want, len(got), got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
