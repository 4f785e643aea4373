// Package mcp provides the MCP (Model Context Protocol) server adapter that
// exposes SharePoint operations and the Document Processor as tools.
package mcp

import "errors"

// Errors returned by Ports.Validate.
var (
	ErrMissingSharePointService = errors.New("mcp: sharepoint service is required")
	ErrMissingProcessor         = errors.New("mcp: document processor is required")
	ErrMissingGenerator         = errors.New("mcp: content generator is required")
)
