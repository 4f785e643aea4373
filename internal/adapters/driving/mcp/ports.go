package mcp

import (
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driving"
)

// TokenStatus reports whether the host-supplied token is still valid.
type TokenStatus interface {
	IsTokenValid() bool
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// SharePoint runs the tool operations.
	SharePoint driving.SharePointService

	// Processor backs the document processing settings resource.
	Processor driving.DocumentProcessor

	// Generator backs the list template resource.
	Generator driving.ContentGenerator

	// Tokens is optional; when set every tool call warns about an expired token.
	Tokens TokenStatus
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.SharePoint == nil {
		return ErrMissingSharePointService
	}
	if p.Processor == nil {
		return ErrMissingProcessor
	}
	if p.Generator == nil {
		return ErrMissingGenerator
	}
	return nil
}
