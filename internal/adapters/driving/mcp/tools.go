package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a question about the university"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  []string       `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one page the answer was drawn from.
type SourceOutput struct {
	Source         string `json:"source"`
	ContentPreview string `json:"content_preview"`
}

// IndexStatusInput is the (empty) input schema for the index_status tool.
type IndexStatusInput struct{}

// IndexStatusOutput describes the lifecycle state and the serving index.
type IndexStatusOutput struct {
	State      string `json:"state"`
	Ready      bool   `json:"ready"`
	Model      string `json:"model,omitempty"`
	Dimension  int    `json:"dimension,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about the university from its website",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report whether the website index is ready to answer questions",
	}, s.handleIndexStatus)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	ans, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	output := AskOutput{
		Answer:  ans.Points,
		Sources: make([]SourceOutput, len(ans.Sources)),
	}
	for i, src := range ans.Sources {
		output.Sources[i] = SourceOutput{
			Source:         src.Source,
			ContentPreview: src.ContentPreview,
		}
	}

	return nil, output, nil
}

func (s *Server) handleIndexStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ IndexStatusInput,
) (*mcp.CallToolResult, IndexStatusOutput, error) {
	return nil, s.indexStatus(), nil
}

func (s *Server) indexStatus() IndexStatusOutput {
	out := IndexStatusOutput{State: s.ports.Index.State().String()}

	meta, ok := s.ports.Index.Metadata()
	if !ok {
		return out
	}
	out.Ready = true
	out.Model = meta.Model
	out.Dimension = meta.Dimension
	out.ChunkCount = meta.ChunkCount
	out.CreatedAt = meta.CreatedAt.Format(time.RFC3339)
	return out
}
