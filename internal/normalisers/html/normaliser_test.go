package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/html")
	assert.Contains(t, mimeTypes, "application/xhtml+xml")
	assert.Len(t, mimeTypes, 2)
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "https://www.ruraluniv.ac.in/admissions",
		MIMEType: "text/html",
		Content: []byte(`<html><head><title>Admissions &amp; Fees</title></head>
<body><h1>Admissions</h1><p>Admissions open in June.</p></body></html>`),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "Admissions & Fees", doc.Title)
	assert.Equal(t, "Admissions\n\nAdmissions open in June.", doc.Content)
	assert.Equal(t, "text/html", doc.Metadata["mime_type"])
	assert.Equal(t, "html", doc.Metadata["format"])
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_UniqueIDs(t *testing.T) {
	n := New()
	raw := &domain.RawDocument{URI: "https://example.org/", Content: []byte("<p>x</p>")}

	a, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)
	b, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEqual(t, a.Document.ID, b.Document.ID)
}

func TestNormalise_CopiesMetadata(t *testing.T) {
	meta := map[string]any{"status": 200}
	raw := &domain.RawDocument{URI: "u", Content: []byte("<p>x</p>"), Metadata: meta}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	result.Document.Metadata["status"] = 500
	assert.Equal(t, 200, meta["status"])
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "drops scripts styles and comments",
			input: "<script>var x = 1;</script><style>p{}</style><!-- hidden --><p>Visible</p>",
			want:  "Visible",
		},
		{
			name:  "drops head and noscript",
			input: "<head><meta charset=utf-8></head><noscript>enable js</noscript><div>Body</div>",
			want:  "Body",
		},
		{
			name:  "paragraphs separated by blank line",
			input: "<p>One</p><p>Two</p>",
			want:  "One\n\nTwo",
		},
		{
			name:  "line breaks and list items",
			input: "<ul><li>a</li><li>b</li></ul>line<br/>break",
			want:  "a\nb\n\nline\nbreak",
		},
		{
			name:  "entities and non-breaking spaces",
			input: "<p>Fees&nbsp;&nbsp;&amp;&nbsp;charges &lt;2025&gt;</p>",
			want:  "Fees & charges <2025>",
		},
		{
			name:  "inline tags keep words together",
			input: "<p>Apply <a href=\"/apply\">online</a> <strong>now</strong>.</p>",
			want:  "Apply online now.",
		},
		{
			name:  "table cells separated",
			input: "<table><tr><td>Course</td><td>Seats</td></tr><tr><td>BSc</td><td>60</td></tr></table>",
			want:  "Course Seats\nBSc 60",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.input))
		})
	}
}

func TestExtractHTMLTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		uri     string
		want    string
	}{
		{"title tag", "<title> Contact  Us </title>", "https://example.org/contact-us", "Contact Us"},
		{"empty title falls back to path", "<title></title>", "https://example.org/news-events", "news events"},
		{"site root uses host", "", "https://www.ruraluniv.ac.in/", "www.ruraluniv.ac.in"},
		{"file path", "", "/tmp/about_us.html", "about us"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractHTMLTitle(tt.content, tt.uri))
		})
	}
}
