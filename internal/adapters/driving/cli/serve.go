package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sharepoint-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start a streamable HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --sandbox to serve an in-memory tenant with one site
(https://contoso.sharepoint.com/sites/sandbox) and no Graph access.

Examples:
  # Stdio mode (default, for Claude Desktop)
  ACCESS_TOKEN=... sharepoint-mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  sharepoint-mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "sharepoint": {
        "command": "/path/to/sharepoint-mcp",
        "args": ["serve"],
        "env": {"ACCESS_TOKEN": "..."}
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	serveCmd.Flags().Bool("sandbox", false, "serve an in-memory tenant instead of Microsoft Graph")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	sandbox, err := cmd.Flags().GetBool("sandbox")
	if err != nil {
		return fmt.Errorf("getting sandbox flag: %w", err)
	}

	a, err := newApp(appSettings, sandbox)
	if err != nil {
		return err
	}
	if err := a.watchTokens(cmd.Context()); err != nil {
		return err
	}

	server, err := mcp.NewServer(a.ports())
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		logger.Info("MCP server listening on http://localhost%s", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	logger.Debug("MCP server running on stdio")
	return server.Run(cmd.Context())
}
