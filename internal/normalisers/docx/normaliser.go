// Package docx extracts text from Word documents linked from the website,
// such as application forms and prospectuses.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

// MIMEType is the media type of Office Open XML word processing documents.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"

	// maxPartSize bounds how much of one archive member is read.
	maxPartSize = 32 << 20
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Normalise extracts paragraph and table text from a DOCX document.
// Table cells on one row are joined with " | ".
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a docx archive: %v", domain.ErrInvalidInput, raw.URI, err)
	}

	body, err := readPart(reader, documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, raw.URI, err)
	}

	content, err := extractText(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse %s: %v", domain.ErrInvalidInput, raw.URI, documentPart, err)
	}

	doc := domain.Document{
		ID:       uuid.New().String(),
		URI:      raw.URI,
		Title:    title(reader, raw.URI),
		Content:  content,
		Metadata: map[string]any{"mime_type": raw.MIMEType, "format": "docx"},
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

var errPartMissing = errors.New("archive member missing")

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", name, errPartMissing)
}

// extractText walks the WordprocessingML token stream. Paragraphs end a
// line. Rows of the outermost table become one line with cells separated
// by " | "; anything nested inside a cell is folded into that cell.
func extractText(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		out       strings.Builder
		line      strings.Builder
		cellParts []string
		cells     []string
		inText    bool
		depth     int // table nesting
	)

	endParagraph := func() {
		text := strings.TrimSpace(line.String())
		line.Reset()
		if text == "" {
			return
		}
		if depth > 0 {
			cellParts = append(cellParts, text)
			return
		}
		out.WriteString(text)
		out.WriteString("\n")
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteString("\t")
			case "br", "cr":
				line.WriteString(" ")
			case "tbl":
				depth++
			}
		case xml.EndElement:
			switch {
			case t.Name.Local == "t":
				inText = false
			case t.Name.Local == "p":
				endParagraph()
			case t.Name.Local == "tc" && depth == 1:
				if len(cellParts) > 0 {
					cells = append(cells, strings.Join(cellParts, " "))
				}
				cellParts = nil
			case t.Name.Local == "tr" && depth == 1:
				if len(cells) > 0 {
					out.WriteString(strings.Join(cells, " | "))
					out.WriteString("\n")
				}
				cells = nil
			case t.Name.Local == "tbl":
				depth--
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	endParagraph()

	return strings.TrimSpace(out.String()), nil
}

// coreProperties is the subset of docProps/core.xml that is used.
type coreProperties struct {
	Title string `xml:"title"`
}

// title prefers the document's own title property, then the file name.
func title(reader *zip.Reader, uri string) string {
	if data, err := readPart(reader, corePart); err == nil {
		var core coreProperties
		if xml.Unmarshal(data, &core) == nil {
			if t := strings.TrimSpace(core.Title); t != "" {
				return t
			}
		}
	}

	name := uri
	if u, err := url.Parse(uri); err == nil {
		name = u.Path
	}
	name = path.Base(name)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
