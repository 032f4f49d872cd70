package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/mcp"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.
It exposes the "ask" and "index_status" tools and the campus://index and
campus://sources resources. The index loads in the background; "ask"
reports that the service is initializing until it is ready.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  campus mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  campus mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "campus": {
        "command": "/path/to/campus",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := mcp.NewServer(&mcp.Ports{Answer: a.Answer, Index: a.Index}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	a.WatchPrompts(ctx)

	// An index that cannot start stops the server.
	indexErr := make(chan error, 1)
	go func() {
		if err := <-a.StartIndex(ctx); err != nil {
			logger.Error("index failed: %v", err)
			indexErr <- err
			cancel()
		}
	}()

	if port > 0 {
		err = server.RunHTTP(ctx, fmt.Sprintf(":%d", port), func(addr string) {
			fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		})
	} else {
		err = server.Run(ctx)
	}

	select {
	case ierr := <-indexErr:
		return fmt.Errorf("index: %w", ierr)
	default:
		return err
	}
}
