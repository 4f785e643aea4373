package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for SharePoint.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "sharepoint-mcp",
		Title:   "SharePoint",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerSiteTools()
	s.registerDriveTools()
	s.registerDocumentTools()
	s.registerListTools()
	s.registerPageTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over streamable HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// call runs one tool invocation: it logs the call, warns about an expired
// token, and turns the outcome into indented JSON or an error result.
// action names the operation in error messages ("listing folders"); target
// is logged to identify what the call works on.
func (s *Server) call(tool, action, target string, fn func() (any, error)) (*mcp.CallToolResult, any, error) {
	if target != "" {
		logger.Info("tool called: %s for %s", tool, target)
	} else {
		logger.Info("tool called: %s", tool)
	}
	if s.ports.Tokens != nil && !s.ports.Tokens.IsTokenValid() {
		logger.Warn("access token appears to be expired; the host must supply a new one")
	}

	start := time.Now()
	out, err := fn()
	if err != nil {
		logger.Error("%s failed after %s: %v", tool, time.Since(start).Round(time.Millisecond), err)
		return errorResult(action, err), nil, nil
	}
	logger.Debug("%s completed in %s", tool, time.Since(start).Round(time.Millisecond))

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errorResult(action, fmt.Errorf("encode result: %w", err)), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(action string, err error) *mcp.CallToolResult {
	res := textResult(fmt.Sprintf("Error %s: %v", action, err))
	res.IsError = true
	return res
}
