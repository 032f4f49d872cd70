package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleSourcesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists sources", func(t *testing.T) {
		server := newTestServer(t, &mockAnswerService{}, &mockIndexService{
			sources: []string{"https://example.edu/", "https://example.edu/admissions"},
		})

		result, err := server.handleSourcesResource(ctx, readRequest("campus://sources"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "campus://sources", result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []string
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, []string{"https://example.edu/", "https://example.edu/admissions"}, got)
	})

	t.Run("empty before ready", func(t *testing.T) {
		server := newTestServer(t, &mockAnswerService{}, &mockIndexService{})

		result, err := server.handleSourcesResource(ctx, readRequest("campus://sources"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleIndexResource(t *testing.T) {
	server := newTestServer(t, &mockAnswerService{}, &mockIndexService{state: domain.IndexStateFailed})

	result, err := server.handleIndexResource(context.Background(), readRequest("campus://index"))

	require.NoError(t, err)
	var got IndexStatusOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, "failed", got.State)
	assert.False(t, got.Ready)
}
